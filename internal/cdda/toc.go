// Package cdda decodes the raw response records of the MMC commands used to
// identify an audio disc: READ TOC/PMA/ATIP (formats 0 and 5) and
// READ SUB-CHANNEL. Multi-byte fields arrive in network byte order.
package cdda

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Response record sizes. Command allocation lengths are derived from these.
const (
	TOCHeaderSize   = 4
	TOCEntrySize    = 8
	MaxTOCEntries   = 100
	TOCResponseSize = TOCHeaderSize + MaxTOCEntries*TOCEntrySize // 804

	LeadOutTrack = 0xAA // track number of the lead-out descriptor
)

// Control nibble flags
const (
	ControlPreEmphasis   = 0x01 // audio: pre-emphasis, data: incremental
	ControlCopyPermitted = 0x02
	ControlData          = 0x04
	ControlFourChannel   = 0x08
)

var (
	// ErrShortBuffer indicates a response shorter than its fixed header.
	ErrShortBuffer = errors.New("response too short")

	// ErrTrackNumber indicates a descriptor for a track outside 1..99.
	ErrTrackNumber = errors.New("invalid track number in TOC")
)

// TOCEntry is one decoded 8-byte track descriptor.
type TOCEntry struct {
	ADR     byte
	Control byte
	Number  int // 1..99, or LeadOutTrack
	Address int // absolute sector, pregap included
}

// IsData reports whether the control nibble marks a data track.
func (e TOCEntry) IsData() bool {
	return e.Control&ControlData != 0
}

// TOCResponse is a decoded READ TOC format 0 response.
type TOCResponse struct {
	Length     int // data length field: bytes following the length itself
	FirstTrack int
	LastTrack  int
	Entries    []TOCEntry // in response order
}

// Slots arranges the entries by track number: index 0 holds the lead-out,
// index n holds track n. Unreported slots stay zero.
func (r TOCResponse) Slots() [MaxTOCEntries]TOCEntry {
	var slots [MaxTOCEntries]TOCEntry
	for _, e := range r.Entries {
		switch {
		case e.Number == LeadOutTrack:
			slots[0] = e
		case e.Number >= 1 && e.Number < MaxTOCEntries:
			slots[e.Number] = e
		}
	}
	return slots
}

// ParseTOC parses raw bytes from a SCSI READ TOC command (format 0).
// When msf is true the address fields are minute/second/frame triples,
// otherwise signed big-endian LBAs; both are normalized to absolute
// sector counts (see AddressFromMSF and AddressFromLBA).
//
// This is a pure function: input bytes → TOCResponse.
func ParseTOC(raw []byte, msf bool) (TOCResponse, error) {
	if len(raw) < TOCHeaderSize {
		return TOCResponse{}, fmt.Errorf("READ TOC: %w: %d bytes", ErrShortBuffer, len(raw))
	}

	// Header: 2-byte length (big-endian), first track, last track
	resp := TOCResponse{
		Length:     int(binary.BigEndian.Uint16(raw[0:2])),
		FirstTrack: int(raw[2]),
		LastTrack:  int(raw[3]),
	}

	// The length counts the bytes after the length field itself.
	// Don't exceed what we actually have.
	dataEnd := resp.Length + 2
	if dataEnd > len(raw) {
		dataEnd = len(raw)
	}

	for offset := TOCHeaderSize; offset+TOCEntrySize <= dataEnd; offset += TOCEntrySize {
		if len(resp.Entries) == MaxTOCEntries {
			break
		}

		// Track entry format:
		// Byte 0: Reserved
		// Byte 1: ADR (upper 4 bits) / Control (lower 4 bits)
		// Byte 2: Track number (0xAA = lead-out)
		// Byte 3: Reserved
		// Bytes 4-7: address (LBA or 0/M/S/F)
		rec := raw[offset : offset+TOCEntrySize]
		e := TOCEntry{
			ADR:     rec[1] >> 4,
			Control: rec[1] & 0x0F,
			Number:  int(rec[2]),
		}
		if e.Number != LeadOutTrack && (e.Number < 1 || e.Number > 99) {
			return TOCResponse{}, fmt.Errorf("%w: %d", ErrTrackNumber, e.Number)
		}

		if msf {
			e.Address = AddressFromMSF(rec[4:8])
		} else {
			e.Address = AddressFromLBA(int32(binary.BigEndian.Uint32(rec[4:8])))
		}

		resp.Entries = append(resp.Entries, e)
		if e.Number == LeadOutTrack {
			break // Lead-out is the last entry
		}
	}

	return resp, nil
}
