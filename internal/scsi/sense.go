package scsi

import (
	"errors"
	"fmt"
)

// SenseKey is the 4-bit sense key of a CHECK CONDITION.
type SenseKey byte

const (
	SenseNoSense        SenseKey = 0x0
	SenseRecoveredError SenseKey = 0x1
	SenseNotReady       SenseKey = 0x2
	SenseMediumError    SenseKey = 0x3
	SenseHardwareError  SenseKey = 0x4
	SenseIllegalRequest SenseKey = 0x5
	SenseUnitAttention  SenseKey = 0x6
	SenseDataProtect    SenseKey = 0x7
	SenseBlankCheck     SenseKey = 0x8
	SenseVendorSpecific SenseKey = 0x9
	SenseCopyAborted    SenseKey = 0xA
	SenseAbortedCommand SenseKey = 0xB
	SenseVolumeOverflow SenseKey = 0xD
	SenseMiscompare     SenseKey = 0xE
)

var senseKeyNames = [16]string{
	"NO SENSE", "RECOVERED ERROR", "NOT READY", "MEDIUM ERROR",
	"HARDWARE ERROR", "ILLEGAL REQUEST", "UNIT ATTENTION", "DATA PROTECT",
	"BLANK CHECK", "VENDOR SPECIFIC", "COPY ABORTED", "ABORTED COMMAND",
	"EQUAL", "VOLUME OVERFLOW", "MISCOMPARE", "COMPLETED",
}

func (k SenseKey) String() string {
	return senseKeyNames[k&0x0F]
}

// Sense data response codes
const (
	senseFixedCurrent       = 0x70
	senseFixedDeferred      = 0x71
	senseDescriptorCurrent  = 0x72
	senseDescriptorDeferred = 0x73
)

// ErrSenseFormat indicates sense data with an unknown response code or
// too few bytes for its format.
var ErrSenseFormat = errors.New("unrecognized sense data")

// SenseError is a decoded CHECK CONDITION: sense key plus additional
// sense code and qualifier.
type SenseError struct {
	Key  SenseKey
	ASC  byte
	ASCQ byte
}

func (e *SenseError) Error() string {
	return fmt.Sprintf("check condition: %s, ASC 0x%02X, ASCQ 0x%02X", e.Key, e.ASC, e.ASCQ)
}

// MediumNotPresent reports the NOT READY / 3Ah condition: no disc loaded.
func (e *SenseError) MediumNotPresent() bool {
	return e.Key == SenseNotReady && e.ASC == 0x3A
}

// ParseSense decodes fixed-format (70h/71h) or descriptor-format (72h/73h)
// sense data.
//
//	fixed:      byte 2 bits 3-0 key, byte 12 ASC, byte 13 ASCQ
//	descriptor: byte 1 bits 3-0 key, byte 2 ASC,  byte 3 ASCQ
//
// This is a pure function.
func ParseSense(b []byte) (*SenseError, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrSenseFormat)
	}

	switch code := b[0] & 0x7F; code {
	case senseFixedCurrent, senseFixedDeferred:
		if len(b) < 14 {
			return nil, fmt.Errorf("%w: fixed format, %d bytes", ErrSenseFormat, len(b))
		}
		return &SenseError{Key: SenseKey(b[2] & 0x0F), ASC: b[12], ASCQ: b[13]}, nil
	case senseDescriptorCurrent, senseDescriptorDeferred:
		if len(b) < 4 {
			return nil, fmt.Errorf("%w: descriptor format, %d bytes", ErrSenseFormat, len(b))
		}
		return &SenseError{Key: SenseKey(b[1] & 0x0F), ASC: b[2], ASCQ: b[3]}, nil
	default:
		return nil, fmt.Errorf("%w: response code 0x%02x", ErrSenseFormat, code)
	}
}
