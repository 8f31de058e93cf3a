package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/binaryphile/crostini-discid/internal/metadata"
	"github.com/binaryphile/crostini-discid/internal/musicbrainz"
	"github.com/binaryphile/crostini-discid/internal/tag"
	"github.com/spf13/cobra"
)

func newTagCmd(a *app) *cobra.Command {
	var (
		metaPath   string
		rename     bool
		fetchCover bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "tag --metadata FILE DIR",
		Short: "Tag ripped MP3 files from a disc document",
		Long: `Write ID3v2 tags to the MP3 files in DIR from a disc document.

The document is the JSON written by read --json, optionally edited by
hand. Files are matched to tracks in name order. Tags include the
MusicBrainz disc ID, ISRCs and, when --rename is given, files are
renamed Artist-Album-NN-Title.mp3.

Example:
  discid read --cdtext --lookup --json disc.json
  discid tag --metadata disc.json --rename ~/Music/rip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			out := cmd.OutOrStdout()

			album, err := metadata.ParseJSON(metaPath)
			if err != nil {
				return err
			}

			files, err := findMP3Files(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no MP3 files in %s", dir)
			}

			for _, verr := range album.Validate(len(files)) {
				a.log.Info("metadata warning", "file", metaPath, "problem", verr.Error())
			}

			cover, coverMIME, err := album.LoadCoverArt(filepath.Dir(metaPath))
			if err != nil {
				return err
			}
			if cover == nil && fetchCover && album.ReleaseID != "" {
				client := musicbrainz.NewClient(a.cfg.App)
				cover, coverMIME, err = client.GetCoverArt(cmd.Context(), album.ReleaseID)
				client.Close()
				if err != nil {
					a.log.Error(err, "fetching cover art", "release", album.ReleaseID)
				}
			}

			n := min(len(files), len(album.Tracks))
			for i, file := range files[:n] {
				meta := tag.MetaFromAlbum(album, i)
				meta.Cover, meta.CoverMIME = cover, coverMIME

				target := file
				if rename {
					target = filepath.Join(dir, tag.Filename(meta, ".mp3"))
				}

				if dryRun {
					fmt.Fprintf(out, "  %s -> %s\n", filepath.Base(file), filepath.Base(target))
					continue
				}

				fmt.Fprintf(out, "  %02d. %s... ", meta.TrackNum, meta.Title)
				if err := tag.BuildTags(meta).Apply(file); err != nil {
					fmt.Fprintf(out, "TAG ERROR: %v\n", err)
					continue
				}
				if target != file {
					if err := os.Rename(file, target); err != nil {
						fmt.Fprintf(out, "RENAME ERROR: %v\n", err)
						continue
					}
				}
				fmt.Fprintln(out, "OK")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&metaPath, "metadata", "m", "", "Disc document `FILE`")
	cmd.Flags().BoolVar(&rename, "rename", false, "Rename files from their tags")
	cmd.Flags().BoolVar(&fetchCover, "fetch-cover", false, "Fetch cover art from the Cover Art Archive when the document has none")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done")
	cmd.MarkFlagRequired("metadata")
	return cmd
}

func findMP3Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".mp3") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	slices.Sort(files)
	return files, nil
}
