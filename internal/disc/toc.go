// Package disc models the table of contents of an audio CD and derives
// the MusicBrainz disc ID and the legacy FreeDB ID from it.
//
// A TOC is built either from a drive (Read, New) or from explicit offsets
// (Simulate, Parse). It is immutable once constructed; both identifiers
// are computed at construction.
package disc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/binaryphile/crostini-discid/internal/cdda"
	"github.com/binaryphile/crostini-discid/internal/cdtext"
)

const (
	// MaxTracks is the highest track number on an audio CD.
	MaxTracks = 99

	// SessionGap is the distance in sectors between the last audio track
	// of a first session and the first track of a following data session:
	// 60s lead-out, 90s lead-in and a 2s pregap.
	SessionGap = (60 + 90 + 2) * cdda.FramesPerSecond

	slots = cdda.MaxTOCEntries
)

var (
	// ErrInvalidTrackRange indicates first or last outside 1..99, or last < first.
	ErrInvalidTrackRange = errors.New("invalid track range")

	// ErrUnsupported indicates that no audio track survived TOC repair.
	ErrUnsupported = errors.New("no usable audio tracks")

	// ErrInvalidOffsets indicates missing, negative or decreasing offsets,
	// or a track starting after the disc end.
	ErrInvalidOffsets = errors.New("invalid track offsets")

	// ErrDiscTooLong indicates a disc end beyond 99:59:74.
	ErrDiscTooLong = errors.New("disc too long")
)

// TOC is the table of contents of an audio disc.
type TOC struct {
	device string
	first  int
	last   int
	tracks [slots]Track
	mcn    *string
	cdText []cdtext.Block

	id       string
	freedbID string
}

func checkRange(first, last int) error {
	if first < 1 || first > MaxTracks || last < 1 || last > MaxTracks || last < first {
		return fmt.Errorf("%w: %d-%d", ErrInvalidTrackRange, first, last)
	}
	return nil
}

// New builds a TOC from decoded READ TOC descriptors, indexed by track
// number with the lead-out in slot 0.
//
// Trailing data tracks are dropped: the last audio track becomes the last
// track and the lead-out is placed SessionGap sectors before the following
// data track. When that lands before the start of the last audio track the
// audio track is dropped too, until the lead-out follows the last track.
// ErrUnsupported is returned when no audio track remains.
func New(first, last int, records [slots]cdda.TOCEntry, mcn *string) (*TOC, error) {
	if err := checkRange(first, last); err != nil {
		return nil, err
	}

	end := 0
	for i := first; i <= last; i++ {
		if !records[i].IsData() {
			end = i
		}
	}

	leadOut := records[0].Address
	if end > 0 && end < last {
		leadOut = records[end+1].Address - SessionGap
		for leadOut < records[end].Address {
			end--
			if end == 0 {
				break
			}
			leadOut = records[end+1].Address - SessionGap
		}
	}
	if end == 0 || end < first {
		return nil, fmt.Errorf("%w: tracks %d-%d", ErrUnsupported, first, last)
	}

	toc := &TOC{first: first, last: end, mcn: mcn}
	toc.tracks[0] = Track{Address: leadOut, Control: records[0].Control}
	for i := first; i <= end; i++ {
		toc.tracks[i] = Track{Number: i, Address: records[i].Address, Control: records[i].Control}
	}
	toc.finish()
	return toc, nil
}

// Simulate builds a TOC without a drive. offsets[0] is the disc end and
// offsets[i] the start of track i; at least last+1 offsets are required.
// Offsets must not decrease from index 1 on, and none may exceed the disc
// end. No repair is applied: invalid input is an error.
func Simulate(first, last int, offsets []int) (*TOC, error) {
	if err := checkRange(first, last); err != nil {
		return nil, err
	}
	if len(offsets) < last+1 {
		return nil, fmt.Errorf("%w: %d offsets for %d tracks", ErrInvalidOffsets, len(offsets), last)
	}

	end := offsets[0]
	if end > cdda.MaxSectors {
		return nil, fmt.Errorf("%w: %d sectors", ErrDiscTooLong, end)
	}
	if end < 0 {
		return nil, fmt.Errorf("%w: disc end %d", ErrInvalidOffsets, end)
	}
	for i := 1; i <= last; i++ {
		switch {
		case offsets[i] < 0:
			return nil, fmt.Errorf("%w: track %d at %d", ErrInvalidOffsets, i, offsets[i])
		case offsets[i] > end:
			return nil, fmt.Errorf("%w: track %d at %d after disc end %d", ErrInvalidOffsets, i, offsets[i], end)
		case i > 1 && offsets[i] < offsets[i-1]:
			return nil, fmt.Errorf("%w: track %d at %d before track %d", ErrInvalidOffsets, i, offsets[i], i-1)
		}
	}

	toc := &TOC{first: first, last: last}
	toc.tracks[0] = Track{Address: end}
	for i := first; i <= last; i++ {
		toc.tracks[i] = Track{Number: i, Address: offsets[i]}
	}
	toc.finish()
	return toc, nil
}

// Parse builds a simulated TOC from its String or QueryString form:
// first, last, lead-out, then one offset per track, separated by spaces
// or '+'.
func Parse(s string) (*TOC, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOffsets, s)
	}

	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidOffsets, f, err)
		}
		values[i] = v
	}

	first, last := values[0], values[1]
	if err := checkRange(first, last); err != nil {
		return nil, err
	}
	starts := values[3:]
	if len(starts) != last-first+1 {
		return nil, fmt.Errorf("%w: %d offsets for tracks %d-%d", ErrInvalidOffsets, len(starts), first, last)
	}

	offsets := make([]int, last+1)
	offsets[0] = values[2]
	copy(offsets[first:], starts)
	return Simulate(first, last, offsets)
}

// finish fills in track lengths and the derived identifiers.
func (t *TOC) finish() {
	for i := t.first; i <= t.last; i++ {
		next := t.tracks[0].Address
		if i < t.last {
			next = t.tracks[i+1].Address
		}
		t.tracks[i].Length = max(next-t.tracks[i].Address, 0)
	}
	t.tracks[0].Length = max(t.tracks[0].Address-t.tracks[t.first].Address, 0)

	addresses := t.addresses()
	t.id = discID(t.first, t.last, addresses)
	t.freedbID = freedbID(t.first, t.last, addresses)
}

func (t *TOC) addresses() [slots]int {
	var a [slots]int
	for i, tr := range t.tracks {
		a[i] = tr.Address
	}
	return a
}

// DeviceName returns the drive the TOC was read from, or "" when simulated.
func (t *TOC) DeviceName() string { return t.device }

// FirstTrack returns the first track number.
func (t *TOC) FirstTrack() int { return t.first }

// LastTrack returns the last audio track number after repair.
func (t *TOC) LastTrack() int { return t.last }

// LeadOut returns the disc end sector.
func (t *TOC) LeadOut() int { return t.tracks[0].Address }

// Sectors returns the audio length of the disc, from the first track to the lead-out.
func (t *TOC) Sectors() int { return t.tracks[0].Length }

// MCN returns the media catalog number: nil when not requested, "" when
// requested but absent.
func (t *TOC) MCN() *string { return t.mcn }

// CDText returns the decoded CD-TEXT blocks, or nil.
func (t *TOC) CDText() []cdtext.Block { return t.cdText }

// Track returns slot n: 0 is the lead-out, first..last are tracks. Other
// slots are zero.
func (t *TOC) Track(n int) Track {
	if n < 0 || n >= slots {
		return Track{}
	}
	return t.tracks[n]
}

// Tracks returns tracks first..last.
func (t *TOC) Tracks() []Track {
	return append([]Track(nil), t.tracks[t.first:t.last+1]...)
}

// ID returns the 28-character MusicBrainz disc ID.
func (t *TOC) ID() string { return t.id }

// FreeDBID returns the 8-digit lowercase hex FreeDB disc ID.
func (t *TOC) FreeDBID() string { return t.freedbID }

// String returns first, last, lead-out and the track offsets separated
// by spaces.
func (t *TOC) String() string { return t.join(" ") }

// QueryString is String with '+' separators, as used in web service URLs.
func (t *TOC) QueryString() string { return t.join("+") }

func (t *TOC) join(sep string) string {
	parts := []string{strconv.Itoa(t.first), strconv.Itoa(t.last), strconv.Itoa(t.tracks[0].Address)}
	for i := t.first; i <= t.last; i++ {
		parts = append(parts, strconv.Itoa(t.tracks[i].Address))
	}
	return strings.Join(parts, sep)
}
