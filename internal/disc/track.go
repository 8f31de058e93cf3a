package disc

import "github.com/binaryphile/crostini-discid/internal/cdda"

// Track is one slot of a table of contents. Slot 0 holds the lead-out.
type Track struct {
	Number  int
	Address int  // absolute sector, pregap included
	Length  int  // sectors up to the next track or the lead-out, never negative
	Control byte // cdda.Control* flags

	// ISRC is nil when not requested and "" when requested but absent.
	ISRC *string
}

// IsAudio reports whether the control flags mark an audio track.
func (t Track) IsAudio() bool { return t.Control&cdda.ControlData == 0 }

// PreEmphasis reports whether an audio track was recorded with pre-emphasis.
func (t Track) PreEmphasis() bool { return t.IsAudio() && t.Control&cdda.ControlPreEmphasis != 0 }

// CopyPermitted reports the digital copy permitted flag.
func (t Track) CopyPermitted() bool { return t.Control&cdda.ControlCopyPermitted != 0 }

// Duration returns the track length as minutes, seconds and frames.
func (t Track) Duration() (m, s, f int) { return cdda.MSF(t.Length) }
