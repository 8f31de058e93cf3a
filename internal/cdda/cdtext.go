package cdda

import (
	"encoding/binary"
	"fmt"

	"github.com/binaryphile/crostini-discid/internal/cdtext"
)

// CD-TEXT (READ TOC format 5) response limits.
const (
	MaxCDTextPacks     = 2048
	CDTextResponseSize = TOCHeaderSize + MaxCDTextPacks*cdtext.PackSize // 36868
)

// ParseCDText splits a READ TOC format 5 response into its packs.
// Header: 2-byte data length, 2 reserved bytes; then 18-byte packs.
// A trailing partial pack is ignored.
//
// This is a pure function.
func ParseCDText(raw []byte) ([]cdtext.Pack, error) {
	if len(raw) < TOCHeaderSize {
		return nil, fmt.Errorf("READ CD-TEXT: %w: %d bytes", ErrShortBuffer, len(raw))
	}

	dataEnd := int(binary.BigEndian.Uint16(raw[0:2])) + 2
	if dataEnd > len(raw) {
		dataEnd = len(raw)
	}

	n := (dataEnd - TOCHeaderSize) / cdtext.PackSize
	if n < 0 {
		n = 0
	}
	if n > MaxCDTextPacks {
		n = MaxCDTextPacks
	}

	packs := make([]cdtext.Pack, n)
	for i := range packs {
		offset := TOCHeaderSize + i*cdtext.PackSize
		copy(packs[i][:], raw[offset:offset+cdtext.PackSize])
	}
	return packs, nil
}
