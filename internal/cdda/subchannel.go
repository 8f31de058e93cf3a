package cdda

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// SubChannelFormat selects the READ SUB-CHANNEL data format.
type SubChannelFormat byte

const (
	SubChannelPosition SubChannelFormat = 0x01
	SubChannelMCN      SubChannelFormat = 0x02
	SubChannelISRC     SubChannelFormat = 0x03
)

// SubChannelResponseSize is the size of both the MCN and ISRC responses:
// a 4-byte header followed by a 20-byte data block.
const SubChannelResponseSize = 24

// MCNLength and ISRCLength are the on-disc code lengths.
const (
	MCNLength  = 13
	ISRCLength = 12
)

// SubChannelHeader is the 4-byte header common to all sub-channel responses.
type SubChannelHeader struct {
	AudioStatus byte
	Length      int
}

// MCNResponse is a decoded media catalog number response.
type MCNResponse struct {
	SubChannelHeader
	Valid bool   // MCVal bit
	MCN   string // 13 digits when Valid
}

// ISRCResponse is a decoded ISRC response for one track.
type ISRCResponse struct {
	SubChannelHeader
	Track int
	Valid bool   // TCVal bit
	ISRC  string // 12 characters when Valid
}

func parseSubChannelHeader(raw []byte, want SubChannelFormat) (SubChannelHeader, error) {
	if len(raw) < SubChannelResponseSize {
		return SubChannelHeader{}, fmt.Errorf("READ SUB-CHANNEL: %w: %d bytes", ErrShortBuffer, len(raw))
	}
	if got := SubChannelFormat(raw[4]); got != want {
		return SubChannelHeader{}, fmt.Errorf("READ SUB-CHANNEL: format 0x%02x, want 0x%02x", byte(got), byte(want))
	}
	return SubChannelHeader{
		AudioStatus: raw[1],
		Length:      int(binary.BigEndian.Uint16(raw[2:4])),
	}, nil
}

// ParseMCN parses a READ SUB-CHANNEL format 02h response.
//
// Layout after the header: byte 4 format code, bytes 5-7 reserved,
// byte 8 bit 7 MCVal, bytes 9-21 the catalog number.
func ParseMCN(raw []byte) (MCNResponse, error) {
	h, err := parseSubChannelHeader(raw, SubChannelMCN)
	if err != nil {
		return MCNResponse{}, err
	}

	resp := MCNResponse{SubChannelHeader: h, Valid: raw[8]&0x80 != 0}
	if resp.Valid {
		resp.MCN = trimCode(raw[9 : 9+MCNLength])
	}
	return resp, nil
}

// ParseISRC parses a READ SUB-CHANNEL format 03h response.
//
// Layout after the header: byte 4 format code, byte 5 ADR/control,
// byte 6 track number, byte 8 bit 7 TCVal, bytes 9-20 the ISRC.
func ParseISRC(raw []byte) (ISRCResponse, error) {
	h, err := parseSubChannelHeader(raw, SubChannelISRC)
	if err != nil {
		return ISRCResponse{}, err
	}

	resp := ISRCResponse{
		SubChannelHeader: h,
		Track:            int(raw[6]),
		Valid:            raw[8]&0x80 != 0,
	}
	if resp.Valid {
		resp.ISRC = trimCode(raw[9 : 9+ISRCLength])
	}
	return resp, nil
}

// trimCode drops NUL padding; some drives report an all-zero MCN with
// the valid bit set.
func trimCode(b []byte) string {
	s := strings.TrimRight(string(b), "\x00 ")
	if strings.Trim(s, "0") == "" {
		return ""
	}
	return s
}
