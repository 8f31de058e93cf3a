package main

import (
	"fmt"
	"strconv"

	"github.com/binaryphile/crostini-discid/internal/disc"
	"github.com/binaryphile/crostini-discid/internal/metadata"
	"github.com/binaryphile/crostini-discid/internal/musicbrainz"
	"github.com/spf13/cobra"
)

func newSimulateCmd(a *app) *cobra.Command {
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "simulate FIRST LAST LEADOUT OFFSET...",
		Short: "Compute IDs for a TOC given on the command line",
		Long: `Compute the disc IDs for a table of contents without a drive.

Offsets are absolute sectors, including the 150-sector lead-in, in the
order lead-out, track FIRST, ..., track LAST.

Example:
  discid simulate 1 3 207494 150 69100 138345`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums := make([]int, len(args))
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("argument %d: %q is not a number", i+1, arg)
				}
				nums[i] = n
			}

			toc, err := disc.Simulate(nums[0], nums[1], nums[2:])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTOC(out, toc)
			fmt.Fprintf(out, "\nSubmit: %s\n", musicbrainz.SubmissionURL(a.cfg.Server, toc))

			if jsonPath != "" {
				if err := metadata.FromTOC(toc).WriteJSON(jsonPath); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved to: %s\n", jsonPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jsonPath, "json", "", "Write the disc document to `FILE`")
	return cmd
}
