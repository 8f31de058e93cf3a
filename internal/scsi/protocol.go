package scsi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// USB Mass Storage Bulk-Only protocol constants
const (
	CBWSignature = 0x43425355 // "USBC" little-endian
	CSWSignature = 0x53425355 // "USBS" little-endian
	CBWSize      = 31
	CSWSize      = 13
)

// Direction constants for CBW
const (
	DirectionOut = 0x00 // Host to device
	DirectionIn  = 0x80 // Device to host
)

// CSW status values
const (
	StatusPassed     = 0x00
	StatusFailed     = 0x01 // command failed; sense data is pending
	StatusPhaseError = 0x02
)

var (
	ErrCSWShort     = errors.New("CSW too short")
	ErrCSWSignature = errors.New("invalid CSW signature")
)

// CBW represents a Command Block Wrapper
type CBW struct {
	Tag           uint32
	DataLength    uint32
	Direction     byte
	LUN           byte
	CommandLength byte
	Command       [16]byte
}

// Marshal encodes the wrapper into its 31-byte little-endian wire form.
func (c CBW) Marshal() []byte {
	buf := make([]byte, CBWSize)

	binary.LittleEndian.PutUint32(buf[0:4], CBWSignature)
	binary.LittleEndian.PutUint32(buf[4:8], c.Tag)
	binary.LittleEndian.PutUint32(buf[8:12], c.DataLength)
	buf[12] = c.Direction
	buf[13] = c.LUN & 0x0F
	buf[14] = c.CommandLength & 0x1F
	copy(buf[15:], c.Command[:])

	return buf
}

// CSW represents a Command Status Wrapper
type CSW struct {
	Tag     uint32
	Residue uint32 // bytes requested but not transferred
	Status  byte
}

// BuildCBW creates a CBW from a SCSI CDB.
// This is a pure function: (tag, dataLen, direction, cdb) → 31 bytes
func BuildCBW(tag uint32, dataLen uint32, direction byte, cdb []byte) []byte {
	c := CBW{
		Tag:        tag,
		DataLength: dataLen,
		Direction:  direction,
	}
	c.CommandLength = byte(copy(c.Command[:], cdb))
	return c.Marshal()
}

// ParseCSW parses a 13-byte CSW response.
// This is a pure function: bytes → (CSW, error)
func ParseCSW(data []byte) (CSW, error) {
	if len(data) < CSWSize {
		return CSW{}, fmt.Errorf("%w: %d bytes", ErrCSWShort, len(data))
	}

	sig := binary.LittleEndian.Uint32(data[0:4])
	if sig != CSWSignature {
		return CSW{}, fmt.Errorf("%w: 0x%08x", ErrCSWSignature, sig)
	}

	return CSW{
		Tag:     binary.LittleEndian.Uint32(data[4:8]),
		Residue: binary.LittleEndian.Uint32(data[8:12]),
		Status:  data[12],
	}, nil
}
