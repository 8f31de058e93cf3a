package scsi

import (
	"time"

	"github.com/binaryphile/crostini-discid/internal/cdda"
)

// Command timeouts
const (
	shortTimeout = 5 * time.Second
	readTimeout  = 10 * time.Second
	textTimeout  = 30 * time.Second // large CD-TEXT transfers are slow on some drives
)

// commander sends one CDB and returns the data phase and the command
// status (CSW status for USB).
type commander interface {
	SendCommand(cdb []byte, dataLen int, timeout time.Duration) ([]byte, byte, error)
}

// execute runs cdb and resolves a failed status into sense data with a
// follow-up REQUEST SENSE. Every failure is returned as a *TransportError.
func execute(c commander, device, op string, cdb []byte, dataLen int, timeout time.Duration) ([]byte, error) {
	data, status, err := c.SendCommand(cdb, dataLen, timeout)
	if err != nil {
		return nil, &TransportError{Op: op, Device: device, Err: err}
	}

	switch status {
	case StatusPassed:
		return data, nil
	case StatusFailed:
		if sense := pendingSense(c); sense != nil {
			return nil, &TransportError{Op: op, Device: device, Err: sense}
		}
	}
	return nil, &TransportError{Op: op, Device: device, Err: &StatusError{Status: status}}
}

// autoSenser is implemented by transports that capture sense data along
// with the failed command.
type autoSenser interface {
	lastSense() []byte
}

// pendingSense decodes the sense data of the last failed command, or
// returns nil when none is available.
func pendingSense(c commander) *SenseError {
	if a, ok := c.(autoSenser); ok {
		sense, err := ParseSense(a.lastSense())
		if err != nil {
			return nil
		}
		return sense
	}

	data, status, err := c.SendCommand(BuildRequestSense(), SenseSize, shortTimeout)
	if err != nil || status != StatusPassed {
		return nil
	}
	sense, err := ParseSense(data)
	if err != nil {
		return nil
	}
	return sense
}

// readTOC, readSubChannel and readCDText implement the raw providers on
// top of any commander.

func readTOC(c commander, device string, msf bool) ([]byte, error) {
	return execute(c, device, "READ TOC", BuildReadTOC(TOCFormatTOC, msf), cdda.TOCResponseSize, readTimeout)
}

func readSubChannel(c commander, device string, format cdda.SubChannelFormat, track int) ([]byte, error) {
	return execute(c, device, "READ SUB-CHANNEL", BuildReadSubChannel(format, track), cdda.SubChannelResponseSize, readTimeout)
}

func readCDText(c commander, device string) ([]byte, error) {
	return execute(c, device, "READ CD-TEXT", BuildReadTOC(TOCFormatCDText, false), cdda.CDTextResponseSize, textTimeout)
}
