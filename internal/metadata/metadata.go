// Package metadata is the JSON disc document: the identifiers and TOC read
// from a disc, its CD-TEXT, and any album details filled in by hand or from
// MusicBrainz. The same document drives tagging.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/binaryphile/crostini-discid/internal/cdtext"
	"github.com/binaryphile/crostini-discid/internal/disc"
	"github.com/binaryphile/crostini-discid/internal/musicbrainz"
)

const variousArtists = "Various Artists"

// Album represents album metadata from a JSON file.
type Album struct {
	Artist      string  `json:"artist"`
	AlbumTitle  string  `json:"album"`
	Year        string  `json:"year"`
	Genre       string  `json:"genre"`
	Composer    string  `json:"composer,omitempty"`
	Disc        int     `json:"disc"`
	TotalDiscs  int     `json:"totalDiscs"`
	TotalTracks int     `json:"totalTracks"`
	CoverArt    string  `json:"coverArt"`
	ReleaseID   string  `json:"releaseId,omitempty"`
	DiscID      string  `json:"discId,omitempty"`
	FreeDBID    string  `json:"freedbId,omitempty"`
	TOC         string  `json:"toc,omitempty"`
	MCN         string  `json:"mcn,omitempty"`
	Language    string  `json:"language,omitempty"` // of the CD-TEXT block used
	Tracks      []Track `json:"tracks"`
}

// Track represents a single track in the album.
type Track struct {
	Num      int    `json:"num"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Composer string `json:"composer,omitempty"`
	Lyricist string `json:"lyricist,omitempty"`
	ISRC     string `json:"isrc,omitempty"`
	Offset   int    `json:"offset,omitempty"` // sectors, including the 150 lead-in
	Length   int    `json:"length,omitempty"` // sectors
}

// FromTOC builds the document for a disc: identifiers, MCN, one track per
// TOC entry with its offset and ISRC, and the text of the first CD-TEXT
// block when the disc has one.
func FromTOC(toc *disc.TOC) *Album {
	a := &Album{
		Disc:        1,
		TotalDiscs:  1,
		TotalTracks: toc.LastTrack() - toc.FirstTrack() + 1,
		DiscID:      toc.ID(),
		FreeDBID:    toc.FreeDBID(),
		TOC:         toc.String(),
	}
	if mcn := toc.MCN(); mcn != nil {
		a.MCN = *mcn
	}

	for _, tr := range toc.Tracks() {
		t := Track{Num: tr.Number, Offset: tr.Address, Length: tr.Length}
		if tr.ISRC != nil {
			t.ISRC = *tr.ISRC
		}
		a.Tracks = append(a.Tracks, t)
	}

	if blocks := toc.CDText(); len(blocks) > 0 {
		a.applyCDText(blocks[0])
	}
	return a
}

func (a *Album) applyCDText(b cdtext.Block) {
	a.Language = b.Language.String()
	if info := b.Album; info != nil {
		a.AlbumTitle = info.Title
		a.Artist = info.Performer
		a.Composer = info.Composer
		if g := info.Genre; g != nil {
			a.Genre = g.Code.String()
			if g.Description != nil {
				a.Genre = *g.Description
			}
		}
	}
	for i := range a.Tracks {
		info := b.Track(a.Tracks[i].Num)
		if info == nil {
			continue
		}
		t := &a.Tracks[i]
		t.Title = info.Title
		t.Artist = info.Performer
		t.Composer = info.Composer
		t.Lyricist = info.Lyricist
		if t.ISRC == "" {
			t.ISRC = info.Code
		}
	}
}

// ApplyRelease fills album and track details from a MusicBrainz release.
// Tracks are matched by position; disc identifiers and ISRCs are kept.
func (a *Album) ApplyRelease(r *musicbrainz.Release) {
	a.ReleaseID = r.MBID
	a.AlbumTitle = r.Title
	a.Artist = r.Artist
	if r.Year != 0 {
		a.Year = strconv.Itoa(r.Year)
	}
	if r.DiscCount > 0 {
		a.TotalDiscs = r.DiscCount
	}
	for i := range a.Tracks {
		if i >= len(r.Tracks) {
			break
		}
		a.Tracks[i].Title = r.Tracks[i].Title
		a.Tracks[i].Artist = r.Tracks[i].Artist
	}
}

// ParseJSON reads and parses a metadata JSON file.
func ParseJSON(path string) (*Album, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var album Album
	if err := json.Unmarshal(data, &album); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &album, nil
}

// WriteJSON writes the document to path, indented.
func (a *Album) WriteJSON(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// ToRelease converts Album to musicbrainz.Release for tagging.
func (a *Album) ToRelease() *musicbrainz.Release {
	year, _ := strconv.Atoi(a.Year) // ignore error, default 0

	tracks := make([]musicbrainz.Track, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		tracks = append(tracks, musicbrainz.Track{
			Num:    t.Num,
			Title:  t.Title,
			Artist: t.Artist,
		})
	}

	return &musicbrainz.Release{
		MBID:        a.ReleaseID,
		Title:       a.AlbumTitle,
		Artist:      a.Artist,
		Year:        year,
		TrackCount:  len(a.Tracks),
		DiscCount:   a.TotalDiscs,
		Tracks:      tracks,
		Compilation: a.Artist == variousArtists,
	}
}

// Validate checks required fields and returns any validation errors.
// All issues are returned as warnings - caller decides whether to proceed.
func (a *Album) Validate(fileCount int) []error {
	var errs []error

	if a.Artist == "" {
		errs = append(errs, errors.New("missing required field: artist"))
	}
	if a.AlbumTitle == "" {
		errs = append(errs, errors.New("missing required field: album"))
	}
	if len(a.Tracks) == 0 {
		errs = append(errs, errors.New("missing required field: tracks"))
	}
	if len(a.Tracks) != fileCount {
		errs = append(errs, fmt.Errorf("track count mismatch: JSON has %d, found %d audio files",
			len(a.Tracks), fileCount))
	}

	if a.Artist == variousArtists {
		for i, t := range a.Tracks {
			if t.Artist == "" {
				errs = append(errs, fmt.Errorf("track %d missing artist (required for compilations)", i+1))
			}
		}
	}

	return errs
}

// LoadCoverArt reads the cover art file if specified.
// Returns (data, mimeType, error). Returns nil,nil,nil if CoverArt is empty.
// A relative CoverArt path is taken relative to dir.
func (a *Album) LoadCoverArt(dir string) ([]byte, string, error) {
	if a.CoverArt == "" {
		return nil, "", nil
	}
	path := a.CoverArt
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("cover art: %w", err)
	}
	return data, detectMIME(path), nil
}

// detectMIME returns MIME type based on file extension.
func detectMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
