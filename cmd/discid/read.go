package main

import (
	"context"
	"fmt"
	"io"

	"github.com/binaryphile/crostini-discid/internal/disc"
	"github.com/binaryphile/crostini-discid/internal/metadata"
	"github.com/binaryphile/crostini-discid/internal/musicbrainz"
	"github.com/spf13/cobra"
)

func newReadCmd(a *app) *cobra.Command {
	var (
		mcn, isrc, cdText bool
		jsonPath          string
		lookup            bool
	)

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the disc in the drive and print its IDs",
		Long: `Read the table of contents of the disc in the drive.

Prints the MusicBrainz disc ID, the FreeDB ID, the track list and the
URL for submitting the disc to MusicBrainz. Data tracks at the end of
Enhanced CDs are left out, as MusicBrainz does.

Optional reads never fail the command: a drive that cannot return MCN,
ISRC or CD-TEXT leaves the value empty.

Examples:
  discid read
  discid read --mcn --isrc --cdtext
  discid read --lookup --json disc.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := disc.ParseFeatures(a.cfg.Features)
			if err != nil {
				return fmt.Errorf("config features: %w", err)
			}
			for _, f := range []struct {
				on bool
				f  disc.Feature
			}{{mcn, disc.FeatureMCN}, {isrc, disc.FeatureISRC}, {cdText, disc.FeatureCDText}} {
				if f.on {
					features |= f.f
				}
			}

			d, closeDrive, err := a.openDrive(a.cfg.Device, a.log)
			if err != nil {
				return err
			}
			defer closeDrive()

			if err := checkReady(d, a.log); err != nil {
				return err
			}

			a.log.V(1).Info("reading disc", "device", d.Name(), "features", features)
			toc, err := disc.Read(d, features, a.log)
			if err != nil {
				return fmt.Errorf("read TOC: %w", err)
			}

			out := cmd.OutOrStdout()
			printTOC(out, toc)
			fmt.Fprintf(out, "\nSubmit: %s\n", musicbrainz.SubmissionURL(a.cfg.Server, toc))

			album := metadata.FromTOC(toc)
			if lookup {
				if err := a.lookupRelease(cmd.Context(), out, album); err != nil {
					return err
				}
			}

			if jsonPath != "" {
				if err := album.WriteJSON(jsonPath); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved to: %s\n", jsonPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&mcn, "mcn", false, "Read the media catalog number")
	cmd.Flags().BoolVar(&isrc, "isrc", false, "Read track ISRCs")
	cmd.Flags().BoolVar(&cdText, "cdtext", false, "Read CD-TEXT")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Write the disc document to `FILE`")
	cmd.Flags().BoolVar(&lookup, "lookup", false, "Look the disc up on MusicBrainz")
	return cmd
}

// lookupRelease resolves album's disc ID and applies the best release.
// Releases with the disc's track count come first, newest first.
func (a *app) lookupRelease(ctx context.Context, w io.Writer, album *metadata.Album) error {
	client := musicbrainz.NewClient(a.cfg.App)
	defer client.Close()

	fmt.Fprintln(w, "\nLooking up on MusicBrainz...")
	releases, err := client.LookupByDiscID(ctx, album.DiscID)
	if err != nil {
		return fmt.Errorf("MusicBrainz lookup: %w", err)
	}
	if len(releases) == 0 {
		fmt.Fprintln(w, "No releases found. Use the submission URL to add this disc.")
		return nil
	}

	releases = musicbrainz.SortReleasesByTrackMatch(releases, len(album.Tracks))
	printReleases(w, releases)

	full, err := client.GetReleaseTracks(ctx, releases[0].MBID)
	if err != nil {
		return fmt.Errorf("MusicBrainz release: %w", err)
	}
	fmt.Fprintf(w, "Using: %s - %s\n", full.Artist, full.Title)
	album.ApplyRelease(full)
	return nil
}
