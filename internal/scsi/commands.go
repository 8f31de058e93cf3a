package scsi

import (
	"encoding/binary"

	"github.com/binaryphile/crostini-discid/internal/cdda"
)

// SCSI command opcodes
const (
	OpTestUnitReady  = 0x00
	OpRequestSense   = 0x03
	OpInquiry        = 0x12
	OpReadSubChannel = 0x42
	OpReadTOC        = 0x43
)

// READ TOC/PMA/ATIP formats
const (
	TOCFormatTOC    = 0x00
	TOCFormatCDText = 0x05
)

// Response sizes for commands without a cdda record
const (
	InquirySize = 36
	SenseSize   = 18 // fixed-format sense data
)

// BuildTestUnitReady creates the CDB for TEST UNIT READY command.
// Returns 6-byte CDB.
func BuildTestUnitReady() []byte {
	return []byte{OpTestUnitReady, 0, 0, 0, 0, 0}
}

// BuildInquiry creates the CDB for INQUIRY command.
// Returns 6-byte CDB requesting 36 bytes of response.
func BuildInquiry() []byte {
	return []byte{OpInquiry, 0, 0, 0, InquirySize, 0}
}

// BuildRequestSense creates the CDB for REQUEST SENSE.
// Returns 6-byte CDB requesting fixed-format sense data.
func BuildRequestSense() []byte {
	return []byte{OpRequestSense, 0, 0, 0, SenseSize, 0}
}

// BuildReadTOC creates the CDB for READ TOC/PMA/ATIP.
// Returns 10-byte CDB.
//
// format 0 returns track descriptors, format 5 returns CD-TEXT packs.
// msf selects minute/second/frame addresses instead of LBAs; it only
// matters for format 0. The allocation length is the big-endian size of
// the largest response record for the format.
func BuildReadTOC(format byte, msf bool) []byte {
	// Byte 0: Opcode (0x43)
	// Byte 1: bit 1 = MSF
	// Byte 2: format (low 4 bits)
	// Byte 3-5: Reserved
	// Byte 6: Starting track (0 = all tracks)
	// Byte 7-8: Allocation length
	// Byte 9: Control
	cdb := make([]byte, 10)
	cdb[0] = OpReadTOC
	if msf {
		cdb[1] = 0x02
	}
	cdb[2] = format & 0x0F

	allocLen := cdda.TOCResponseSize
	if format == TOCFormatCDText {
		allocLen = cdda.CDTextResponseSize
	}
	binary.BigEndian.PutUint16(cdb[7:9], uint16(allocLen))
	return cdb
}

// BuildReadSubChannel creates the CDB for READ SUB-CHANNEL requesting Q
// sub-channel data in the given format. track is only used by the ISRC
// format. Returns 10-byte CDB.
func BuildReadSubChannel(format cdda.SubChannelFormat, track int) []byte {
	// Byte 0: Opcode (0x42)
	// Byte 1: bit 1 = MSF (unused here)
	// Byte 2: bit 6 = SubQ
	// Byte 3: format
	// Byte 6: track number
	// Byte 7-8: Allocation length
	cdb := make([]byte, 10)
	cdb[0] = OpReadSubChannel
	cdb[2] = 0x40
	cdb[3] = byte(format)
	cdb[6] = byte(track)
	binary.BigEndian.PutUint16(cdb[7:9], cdda.SubChannelResponseSize)
	return cdb
}

// InquiryData represents parsed INQUIRY response
type InquiryData struct {
	DeviceType byte   // Peripheral device type (5 = CD-ROM)
	Vendor     string // 8 chars
	Product    string // 16 chars
	Revision   string // 4 chars
}

// ParseInquiry parses a 36-byte INQUIRY response.
// This is a pure function.
func ParseInquiry(data []byte) InquiryData {
	if len(data) < InquirySize {
		return InquiryData{}
	}

	return InquiryData{
		DeviceType: data[0] & 0x1F,
		Vendor:     trimString(data[8:16]),
		Product:    trimString(data[16:32]),
		Revision:   trimString(data[32:36]),
	}
}

// trimString trims trailing spaces from ASCII bytes
func trimString(b []byte) string {
	s := string(b)
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
