package cdtext

import "fmt"

// SizeInfoSize is the size of the size-info record carried by the last
// three packs of every block.
const SizeInfoSize = 3 * PackDataSize

// MaxBlocks is the number of language blocks size info can describe.
const MaxBlocks = 8

// SizeInfo is the decoded 36-byte size-info record.
//
//	byte 0:      character code
//	bytes 1-2:   first and last track
//	byte 3:      copyright flags
//	bytes 4-19:  pack count per type 0x80..0x8F
//	bytes 20-27: last sequence number per block
//	bytes 28-35: language code per block
type SizeInfo struct {
	CharacterCode CharacterCode
	FirstTrack    int
	LastTrack     int
	Copyright     byte
	PackCounts    [numTypes]int
	LastSequence  [MaxBlocks]int
	Languages     [MaxBlocks]Language
}

// ParseSizeInfo decodes a size-info record; b must be exactly 36 bytes.
func ParseSizeInfo(b []byte) (SizeInfo, error) {
	if len(b) != SizeInfoSize {
		return SizeInfo{}, fmt.Errorf("size info: %d bytes, want %d", len(b), SizeInfoSize)
	}

	si := SizeInfo{
		CharacterCode: CharacterCode(b[0]),
		FirstTrack:    int(b[1]),
		LastTrack:     int(b[2]),
		Copyright:     b[3],
	}
	for i := range si.PackCounts {
		si.PackCounts[i] = int(b[4+i])
	}
	for i := range MaxBlocks {
		si.LastSequence[i] = int(b[20+i])
		si.Languages[i] = Language(b[28+i])
	}
	return si, nil
}

// Blocks returns the number of blocks: the count of slots up to and
// including the last non-zero last-sequence entry.
func (si SizeInfo) Blocks() int {
	n := MaxBlocks
	for n > 0 && si.LastSequence[n-1] == 0 {
		n--
	}
	return n
}

// PackCount returns the recorded number of packs of type t.
func (si SizeInfo) PackCount(t PackType) int {
	i, ok := t.index()
	if !ok {
		return 0
	}
	return si.PackCounts[i]
}

// TrackCount returns LastTrack-FirstTrack+1, or 0 when inconsistent.
func (si SizeInfo) TrackCount() int {
	if si.FirstTrack < 1 || si.LastTrack < si.FirstTrack {
		return 0
	}
	return si.LastTrack - si.FirstTrack + 1
}
