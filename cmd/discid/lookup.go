package main

import (
	"errors"
	"fmt"

	"github.com/binaryphile/crostini-discid/internal/disc"
	"github.com/binaryphile/crostini-discid/internal/musicbrainz"
	"github.com/spf13/cobra"
)

func newLookupCmd(a *app) *cobra.Command {
	var (
		tocString string
		search    string
		tracks    int
	)

	cmd := &cobra.Command{
		Use:   "lookup [DISCID]",
		Short: "Look up releases on MusicBrainz",
		Long: `Look up the releases for a disc ID on MusicBrainz.

The disc can also be given as a TOC string, as printed by read and
simulate, or replaced by a free-text search.

Examples:
  discid lookup lSOVc5h6IXSuzcamJS1Gp4_tRuA-
  discid lookup --toc "1 3 207494 150 69100 138345"
  discid lookup --search "Pink Floyd Wish You Were Here"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var discID string
			switch {
			case len(args) == 1:
				discID = args[0]
			case tocString != "":
				toc, err := disc.Parse(tocString)
				if err != nil {
					return fmt.Errorf("--toc: %w", err)
				}
				discID = toc.ID()
				if tracks == 0 {
					tracks = toc.LastTrack() - toc.FirstTrack() + 1
				}
				fmt.Fprintf(out, "Disc ID: %s\n", discID)
				fmt.Fprintf(out, "URL    : %s\n", musicbrainz.LookupURL(a.cfg.Server, toc))
			case search == "":
				return errors.New("give a disc ID, --toc or --search")
			}

			client := musicbrainz.NewClient(a.cfg.App)
			defer client.Close()

			var (
				releases []musicbrainz.Release
				err      error
			)
			if discID != "" {
				releases, err = client.LookupByDiscID(cmd.Context(), discID)
			} else {
				fmt.Fprintf(out, "Searching MusicBrainz for: %s\n", search)
				releases, err = client.Search(cmd.Context(), search)
			}
			if err != nil {
				return err
			}
			if len(releases) == 0 {
				fmt.Fprintln(out, "No releases found.")
				return nil
			}

			if tracks > 0 {
				releases = musicbrainz.SortReleasesByTrackMatch(releases, tracks)
			}
			fmt.Fprintf(out, "Found %d releases:\n", len(releases))
			printReleases(out, releases)
			return nil
		},
	}

	cmd.Flags().StringVar(&tocString, "toc", "", "Look up by TOC string instead of disc ID")
	cmd.Flags().StringVar(&search, "search", "", "Free-text release search")
	cmd.Flags().IntVar(&tracks, "tracks", 0, "Prefer releases with this many tracks")
	cmd.MarkFlagsMutuallyExclusive("toc", "search")
	return cmd
}
