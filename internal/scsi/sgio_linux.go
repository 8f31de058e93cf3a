//go:build linux

package scsi

import (
	"runtime"
	"time"
	"unsafe"

	"github.com/binaryphile/crostini-discid/internal/cdda"
	"github.com/go-logr/logr"
	"golang.org/x/sys/unix"
)

// SG_IO interface constants from <scsi/sg.h>
const (
	sgIO           = 0x2285
	sgInterfaceID  = 'S'
	sgDxferNone    = -1
	sgDxferFromDev = -3
	sgInfoOKMask   = 0x1
	sgInfoOK       = 0x0
	sgMaxSenseLen  = 32
)

// sgIOHdr mirrors struct sg_io_hdr.
type sgIOHdr struct {
	InterfaceID    int32
	DxferDirection int32
	CmdLen         uint8
	MxSbLen        uint8
	IovecCount     uint16
	DxferLen       uint32
	Dxferp         uintptr
	Cmdp           uintptr
	Sbp            uintptr
	Timeout        uint32 // milliseconds
	Flags          uint32
	PackID         int32
	UsrPtr         uintptr
	Status         uint8
	MaskedStatus   uint8
	MsgStatus      uint8
	SbLenWr        uint8
	HostStatus     uint16
	DriverStatus   uint16
	Resid          int32
	Duration       uint32
	Info           uint32
}

// DefaultSGDevice is the first optical drive on Linux.
const DefaultSGDevice = "/dev/sr0"

// SGDevice is an optical drive reached through the Linux SG_IO ioctl
// on a /dev/sr* or /dev/sg* node. It implements the raw TOC,
// sub-channel and CD-TEXT providers.
type SGDevice struct {
	fd    int
	path  string
	sense []byte // sense data of the last failed command
}

// OpenSG opens the device node at path.
func OpenSG(path string, log logr.Logger) (*SGDevice, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &TransportError{Op: "open", Device: path, Err: err}
	}
	log.V(1).Info("opened drive", "device", path)
	return &SGDevice{fd: fd, path: path}, nil
}

// Name returns the device node path.
func (d *SGDevice) Name() string { return d.path }

// Close releases the file descriptor.
func (d *SGDevice) Close() error {
	return unix.Close(d.fd)
}

// SendCommand issues cdb through SG_IO. A CHECK CONDITION is reported as
// StatusFailed with the returned sense data kept for the caller; host or
// driver failures come back as a *StatusError.
func (d *SGDevice) SendCommand(cdb []byte, dataLen int, timeout time.Duration) ([]byte, byte, error) {
	d.sense = nil

	data := make([]byte, dataLen)
	sense := make([]byte, sgMaxSenseLen)

	hdr := sgIOHdr{
		InterfaceID:    sgInterfaceID,
		DxferDirection: sgDxferNone,
		CmdLen:         uint8(len(cdb)),
		MxSbLen:        sgMaxSenseLen,
		Cmdp:           uintptr(unsafe.Pointer(&cdb[0])),
		Sbp:            uintptr(unsafe.Pointer(&sense[0])),
		Timeout:        uint32(timeout.Milliseconds()),
	}
	if dataLen > 0 {
		hdr.DxferDirection = sgDxferFromDev
		hdr.DxferLen = uint32(dataLen)
		hdr.Dxferp = uintptr(unsafe.Pointer(&data[0]))
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), sgIO, uintptr(unsafe.Pointer(&hdr)))
	runtime.KeepAlive(cdb)
	runtime.KeepAlive(data)
	runtime.KeepAlive(sense)
	if errno != 0 {
		return nil, 0xFF, errno
	}

	if hdr.Info&sgInfoOKMask == sgInfoOK {
		n := dataLen - int(hdr.Resid)
		if n < 0 || n > dataLen {
			n = dataLen
		}
		return data[:n], StatusPassed, nil
	}

	if hdr.Status == SCSIStatusCheckCondition && hdr.SbLenWr > 0 {
		d.sense = sense[:hdr.SbLenWr]
		return nil, StatusFailed, nil
	}
	return nil, 0xFF, &StatusError{Status: hdr.Status, Host: hdr.HostStatus, Driver: hdr.DriverStatus}
}

func (d *SGDevice) lastSense() []byte { return d.sense }

// TestUnitReady checks if drive is ready (disc loaded)
func (d *SGDevice) TestUnitReady() error {
	_, err := execute(d, d.path, "TEST UNIT READY", BuildTestUnitReady(), 0, shortTimeout)
	return err
}

// Inquiry sends INQUIRY command and returns device info
func (d *SGDevice) Inquiry() (*InquiryData, error) {
	data, err := execute(d, d.path, "INQUIRY", BuildInquiry(), InquirySize, shortTimeout)
	if err != nil {
		return nil, err
	}

	info := ParseInquiry(data)
	return &info, nil
}

// ReadTOC returns the raw READ TOC format 0 response.
func (d *SGDevice) ReadTOC(msf bool) ([]byte, error) {
	return readTOC(d, d.path, msf)
}

// ReadSubChannel returns the raw READ SUB-CHANNEL response.
func (d *SGDevice) ReadSubChannel(format cdda.SubChannelFormat, track int) ([]byte, error) {
	return readSubChannel(d, d.path, format, track)
}

// ReadCDText returns the raw READ TOC format 5 response.
func (d *SGDevice) ReadCDText() ([]byte, error) {
	return readCDText(d, d.path)
}
