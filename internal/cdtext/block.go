package cdtext

import "fmt"

// GenreCode is the CD-TEXT genre number carried in the first two bytes
// of the genre field.
type GenreCode uint16

var genreNames = []string{
	"Unused", "Not Defined", "Adult Contemporary", "Alternative Rock",
	"Childrens", "Classical", "Contemporary Christian", "Country",
	"Dance", "Easy Listening", "Erotic", "Folk", "Gospel", "Hip Hop",
	"Jazz", "Latin", "Musical", "New Age", "Opera", "Operetta", "Pop",
	"Rap", "Reggae", "Rock", "Rhythm & Blues", "Sound Effects",
	"Soundtrack", "Spoken Word", "World Music",
}

func (g GenreCode) String() string {
	if int(g) < len(genreNames) {
		return genreNames[g]
	}
	return fmt.Sprintf("Genre(%d)", uint16(g))
}

// Genre is the disc-level genre field. Description is nil when the disc
// carries no description text.
type Genre struct {
	Code        GenreCode
	Description *string
}

// AlbumInfo holds disc-level CD-TEXT. Empty strings mean absent.
type AlbumInfo struct {
	Genre          *Genre
	Identification string
	Title          string
	Performer      string
	Lyricist       string
	Composer       string
	Arranger       string
	Message        string
	ProductCode    string // UPC/EAN
}

// TrackInfo holds per-track CD-TEXT. Empty strings mean absent.
type TrackInfo struct {
	Title     string
	Performer string
	Lyricist  string
	Composer  string
	Arranger  string
	Message   string
	Code      string // ISRC
}

// Block is one language's worth of CD-TEXT.
type Block struct {
	Number        int
	Language      Language
	CharacterCode CharacterCode
	DBCS          bool
	FirstTrack    int
	LastTrack     int

	// Album is nil when no disc-level field was found.
	Album *AlbumInfo

	// Tracks has one entry per track FirstTrack..LastTrack; an entry is
	// nil when no field was found for that track.
	Tracks []*TrackInfo
}

// Track returns the info for track number n, or nil.
func (b Block) Track(n int) *TrackInfo {
	i := n - b.FirstTrack
	if i < 0 || i >= len(b.Tracks) {
		return nil
	}
	return b.Tracks[i]
}

func (a AlbumInfo) empty() bool {
	return a.Genre == nil && a.Identification == "" && a.Title == "" &&
		a.Performer == "" && a.Lyricist == "" && a.Composer == "" &&
		a.Arranger == "" && a.Message == "" && a.ProductCode == ""
}

func (t TrackInfo) empty() bool {
	return t == TrackInfo{}
}
