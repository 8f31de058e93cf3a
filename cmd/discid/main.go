// Command discid reads a CD's table of contents, computes its MusicBrainz
// and FreeDB disc IDs, decodes CD-TEXT, and tags ripped tracks from the
// resulting disc document.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/binaryphile/crostini-discid/internal/config"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
)

// Version information (injected at build time)
var Version = "dev"

// app holds what every subcommand shares once the root flags are parsed.
type app struct {
	cfgPath string
	device  string
	verbose int

	cfg config.Config
	log logr.Logger

	// openDrive is replaced in tests.
	openDrive func(spec string, log logr.Logger) (drive, func(), error)
}

func newRootCmd(a *app, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "discid",
		Short: "Identify audio CDs by MusicBrainz disc ID",
		Long: `discid - read an audio CD's table of contents and identify it.

Computes the MusicBrainz disc ID and the FreeDB ID, prints the URL for
submitting the disc to MusicBrainz, and decodes MCN, ISRC and CD-TEXT.

Examples:
  discid read
  discid read --device /dev/sr1 --cdtext --json disc.json
  discid read --device usb --lookup
  discid simulate 1 3 207494 150 69100 138345
  discid lookup lSOVc5h6IXSuzcamJS1Gp4_tRuA-
  discid tag --metadata disc.json --rename ~/Music/album

Use 'discid [command] --help' for more information about a command.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			if a.device != "" {
				cfg.Device = a.device
			}
			if cfg.App.Version == "dev" {
				cfg.App.Version = Version
			}
			a.cfg = cfg
			a.log = newLogger(stderr, a.verbose)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", config.DefaultPath(), "Config file")
	root.PersistentFlags().StringVarP(&a.device, "device", "d", "", "Drive: device node, usb or usb:VID:PID (default from config)")
	root.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "Verbose logging (repeat for more)")

	root.AddCommand(
		newReadCmd(a),
		newSimulateCmd(a),
		newLookupCmd(a),
		newTagCmd(a),
	)
	return root
}

// newLogger logs to w, one line per entry.
func newLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(&app{openDrive: openDrive}, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
