package scsi

import "fmt"

// SCSI status byte values as reported by SG_IO
const (
	SCSIStatusGood           = 0x00
	SCSIStatusCheckCondition = 0x02
)

// TransportError wraps a failed command with the operation and device it
// was issued to. Err is a *SenseError when the drive reported a CHECK
// CONDITION, a *StatusError for other failing statuses, or the underlying
// I/O error.
type TransportError struct {
	Op     string // e.g. "READ TOC", "open"
	Device string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Device, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a failing command status without usable sense data.
type StatusError struct {
	Status byte   // CSW status (USB) or SCSI status (SG_IO)
	Host   uint16 // SG_IO host status
	Driver uint16 // SG_IO driver status
}

func (e *StatusError) Error() string {
	if e.Host != 0 || e.Driver != 0 {
		return fmt.Sprintf("status 0x%02x (host 0x%04x, driver 0x%04x)", e.Status, e.Host, e.Driver)
	}
	return fmt.Sprintf("status 0x%02x", e.Status)
}
