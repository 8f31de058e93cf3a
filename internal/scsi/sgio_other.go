//go:build !linux

package scsi

import (
	"errors"
	"time"

	"github.com/binaryphile/crostini-discid/internal/cdda"
	"github.com/go-logr/logr"
)

// DefaultSGDevice is empty where SG_IO is unavailable.
const DefaultSGDevice = ""

// ErrSGUnsupported is returned by OpenSG outside Linux.
var ErrSGUnsupported = errors.New("SG_IO is only available on Linux")

// SGDevice is unavailable on this platform; use the USB Device instead.
type SGDevice struct{}

// OpenSG always fails outside Linux.
func OpenSG(path string, log logr.Logger) (*SGDevice, error) {
	return nil, &TransportError{Op: "open", Device: path, Err: ErrSGUnsupported}
}

func (d *SGDevice) Name() string { return "" }
func (d *SGDevice) Close() error { return nil }

func (d *SGDevice) SendCommand(cdb []byte, dataLen int, timeout time.Duration) ([]byte, byte, error) {
	return nil, 0xFF, ErrSGUnsupported
}

func (d *SGDevice) TestUnitReady() error { return ErrSGUnsupported }
func (d *SGDevice) Inquiry() (*InquiryData, error) { return nil, ErrSGUnsupported }
func (d *SGDevice) ReadTOC(msf bool) ([]byte, error) { return nil, ErrSGUnsupported }
func (d *SGDevice) ReadCDText() ([]byte, error) { return nil, ErrSGUnsupported }

func (d *SGDevice) ReadSubChannel(format cdda.SubChannelFormat, track int) ([]byte, error) {
	return nil, ErrSGUnsupported
}
