// Package tag writes ID3v2 tags for tracks ripped from an identified disc.
package tag

import (
	"fmt"
	"strconv"

	"github.com/binaryphile/crostini-discid/internal/metadata"
	"github.com/bogem/id3v2/v2"
)

// TXXX descriptions used by MusicBrainz Picard.
const (
	DiscIDDescription    = "MusicBrainz Disc Id"
	ReleaseIDDescription = "MusicBrainz Album Id"
)

// TrackMeta contains metadata for a track to be tagged
type TrackMeta struct {
	Artist      string
	AlbumArtist string // For compilations - empty means same as Artist
	Album       string
	Title       string
	Composer    string
	Lyricist    string
	ISRC        string
	TrackNum    int
	TrackTotal  int
	DiscNum     int // 0 = single disc
	DiscTotal   int // 0 = single disc
	Year        int
	Genre       string
	Compilation bool
	DiscID      string
	ReleaseID   string
	Cover       []byte
	CoverMIME   string
}

// TagSet contains the ID3 tags to be written
type TagSet struct {
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	Composer    string
	Lyricist    string
	ISRC        string
	TrackNum    int
	TrackTotal  int
	DiscNum     int
	DiscTotal   int
	Year        int
	Genre       string
	Compilation bool
	DiscID      string
	ReleaseID   string
	Cover       []byte
	CoverMIME   string
}

// MetaFromAlbum returns the TrackMeta for the i'th track of a.
// Track-level composer and artist fall back to the album's.
func MetaFromAlbum(a *metadata.Album, i int) TrackMeta {
	t := a.Tracks[i]
	year, _ := strconv.Atoi(a.Year)

	meta := TrackMeta{
		Artist:     t.Artist,
		Album:      a.AlbumTitle,
		Title:      t.Title,
		Composer:   t.Composer,
		Lyricist:   t.Lyricist,
		ISRC:       t.ISRC,
		TrackNum:   t.Num,
		TrackTotal: a.TotalTracks,
		Year:       year,
		Genre:      a.Genre,
		DiscID:     a.DiscID,
		ReleaseID:  a.ReleaseID,
	}
	if meta.TrackTotal == 0 {
		meta.TrackTotal = len(a.Tracks)
	}
	if a.TotalDiscs > 1 {
		meta.DiscNum, meta.DiscTotal = a.Disc, a.TotalDiscs
	}
	if meta.Artist == "" {
		meta.Artist = a.Artist
	}
	if meta.Composer == "" {
		meta.Composer = a.Composer
	}
	if meta.Artist != a.Artist {
		meta.AlbumArtist = a.Artist
	}
	meta.Compilation = a.Artist == "Various Artists"
	return meta
}

// BuildTags creates a TagSet from track metadata.
// This is a pure function: TrackMeta → TagSet
// No I/O is performed - use Apply() to write tags to a file.
func BuildTags(meta TrackMeta) TagSet {
	return TagSet(meta)
}

// Apply writes the tags to an MP3 file, replacing any existing tag.
// This is boundary code - performs file I/O.
func (t TagSet) Apply(path string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("open mp3: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetVersion(4)

	tag.SetArtist(t.Artist)
	tag.SetAlbum(t.Album)
	tag.SetTitle(t.Title)
	tag.SetGenre(t.Genre)

	if t.Year > 0 {
		tag.SetYear(strconv.Itoa(t.Year))
	}

	// N/Total
	if t.TrackTotal > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8,
			fmt.Sprintf("%d/%d", t.TrackNum, t.TrackTotal))
	} else if t.TrackNum > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8,
			strconv.Itoa(t.TrackNum))
	}
	if t.DiscTotal > 0 {
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8,
			fmt.Sprintf("%d/%d", t.DiscNum, t.DiscTotal))
	} else if t.DiscNum > 0 {
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8,
			strconv.Itoa(t.DiscNum))
	}

	text := []struct{ id, value string }{
		{"TPE2", t.AlbumArtist},
		{"TCOM", t.Composer},
		{"TEXT", t.Lyricist},
		{"TSRC", t.ISRC},
	}
	for _, f := range text {
		if f.value != "" {
			tag.AddTextFrame(f.id, id3v2.EncodingUTF8, f.value)
		}
	}

	if t.Compilation {
		tag.AddTextFrame("TCMP", id3v2.EncodingUTF8, "1")
	}

	user := []struct{ desc, value string }{
		{DiscIDDescription, t.DiscID},
		{ReleaseIDDescription, t.ReleaseID},
	}
	for _, f := range user {
		if f.value != "" {
			tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: f.desc,
				Value:       f.value,
			})
		}
	}

	if len(t.Cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    t.CoverMIME,
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     t.Cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}
