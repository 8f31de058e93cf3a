package scsi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/binaryphile/crostini-discid/internal/cdda"
	"github.com/go-logr/logr"
	"github.com/google/gousb"
)

// ErrNoDevice indicates that no USB CD drive could be opened.
var ErrNoDevice = errors.New("no USB CD drive found")

// Known USB CD drive IDs
var KnownDevices = []struct {
	VendorID  gousb.ID
	ProductID gousb.ID
	Name      string
}{
	{0x0e8d, 0x1887, "Hitachi-LG/MediaTek Slim Portable DVD Writer"},
	{0x152d, 0x2339, "JMicron USB CD/DVD"},
	{0x13fd, 0x0840, "Initio USB CD/DVD"},
	{0x1c6b, 0xa223, "Philips USB CD/DVD"},
}

// Device represents a USB CD/DVD drive reached through the Bulk-Only
// mass storage protocol. It implements the raw TOC, sub-channel and
// CD-TEXT providers.
type Device struct {
	ctx    *gousb.Context
	dev    *gousb.Device
	config *gousb.Config
	intf   *gousb.Interface
	epIn   *gousb.InEndpoint
	epOut  *gousb.OutEndpoint
	tag    uint32
	name   string
}

// OpenDevice opens a USB CD drive.
// If vendorID and productID are 0, it will auto-detect.
func OpenDevice(vendorID, productID gousb.ID, log logr.Logger) (*Device, error) {
	ctx := gousb.NewContext()

	var dev *gousb.Device
	var err error
	var deviceName string

	if vendorID != 0 && productID != 0 {
		// Open specific device
		deviceName = fmt.Sprintf("usb:%s:%s", vendorID, productID)
		dev, err = ctx.OpenDeviceWithVIDPID(vendorID, productID)
		if err != nil {
			ctx.Close()
			return nil, &TransportError{Op: "open", Device: deviceName, Err: err}
		}
		if dev == nil {
			ctx.Close()
			return nil, &TransportError{Op: "open", Device: deviceName, Err: ErrNoDevice}
		}
	} else {
		// Try known devices
		for _, known := range KnownDevices {
			dev, err = ctx.OpenDeviceWithVIDPID(known.VendorID, known.ProductID)
			if err == nil && dev != nil {
				deviceName = fmt.Sprintf("usb:%s:%s", known.VendorID, known.ProductID)
				log.V(1).Info("found known drive", "name", known.Name, "device", deviceName)
				break
			}
		}
		if dev == nil {
			ctx.Close()
			return nil, &TransportError{Op: "open", Device: "usb", Err: ErrNoDevice}
		}
	}

	// Not fatal: auto-detach is unsupported on some platforms
	if err := dev.SetAutoDetach(true); err != nil {
		log.V(1).Info("kernel driver auto-detach unavailable", "device", deviceName, "reason", err.Error())
	}

	// Get configuration
	config, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, &TransportError{Op: "open", Device: deviceName, Err: fmt.Errorf("get config: %w", err)}
	}

	// Find Mass Storage interface (class 8) or fallback to first interface with bulk endpoints
	var intf *gousb.Interface
	for _, iface := range config.Desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == gousb.ClassMassStorage {
				intf, err = config.Interface(iface.Number, alt.Alternate)
				if err != nil {
					continue
				}
				break
			}
		}
		if intf != nil {
			break
		}
	}

	// Fallback: try first interface (some drives use vendor-specific class)
	if intf == nil {
		for _, iface := range config.Desc.Interfaces {
			intf, err = config.Interface(iface.Number, 0)
			if err == nil {
				break
			}
		}
	}

	if intf == nil {
		config.Close()
		dev.Close()
		ctx.Close()
		return nil, &TransportError{Op: "open", Device: deviceName, Err: errors.New("no suitable interface found")}
	}

	// Find IN and OUT endpoints
	var epIn *gousb.InEndpoint
	var epOut *gousb.OutEndpoint

	for _, ep := range intf.Setting.Endpoints {
		if ep.Direction == gousb.EndpointDirectionIn {
			epIn, err = intf.InEndpoint(ep.Number)
			if err != nil {
				continue
			}
		} else {
			epOut, err = intf.OutEndpoint(ep.Number)
			if err != nil {
				continue
			}
		}
	}

	if epIn == nil || epOut == nil {
		intf.Close()
		config.Close()
		dev.Close()
		ctx.Close()
		return nil, &TransportError{Op: "open", Device: deviceName, Err: errors.New("could not find USB endpoints")}
	}

	log.V(1).Info("opened drive", "device", deviceName,
		"out", fmt.Sprintf("0x%02x", uint8(epOut.Desc.Address)),
		"in", fmt.Sprintf("0x%02x", uint8(epIn.Desc.Address)))

	return &Device{
		ctx:    ctx,
		dev:    dev,
		config: config,
		intf:   intf,
		epIn:   epIn,
		epOut:  epOut,
		tag:    1,
		name:   deviceName,
	}, nil
}

// Name identifies the drive as usb:VID:PID.
func (d *Device) Name() string { return d.name }

// Close releases all USB resources
func (d *Device) Close() {
	if d.intf != nil {
		d.intf.Close()
	}
	if d.config != nil {
		d.config.Close()
	}
	if d.dev != nil {
		d.dev.Close()
	}
	if d.ctx != nil {
		d.ctx.Close()
	}
}

// SendCommand sends a SCSI command and receives response.
// Returns (data, status, error)
func (d *Device) SendCommand(cdb []byte, dataLen int, timeout time.Duration) ([]byte, byte, error) {
	// Build CBW
	direction := DirectionIn
	if dataLen == 0 {
		direction = DirectionOut
	}
	tag := d.tag
	cbw := BuildCBW(tag, uint32(dataLen), byte(direction), cdb)
	d.tag++

	// Send CBW with timeout
	writeCtx, writeCancel := context.WithTimeout(context.Background(), timeout)
	defer writeCancel()

	n, err := d.epOut.WriteContext(writeCtx, cbw)
	if err != nil {
		return nil, 0xFF, fmt.Errorf("CBW write: %w", err)
	}
	if n != len(cbw) {
		return nil, 0xFF, fmt.Errorf("CBW short write: %d/%d bytes", n, len(cbw))
	}

	// Read data if expected
	var data []byte
	if dataLen > 0 {
		readCtx, readCancel := context.WithTimeout(context.Background(), timeout)
		defer readCancel()

		data = make([]byte, dataLen)
		n, err := d.epIn.ReadContext(readCtx, data)
		if err != nil {
			// Try to recover by reading CSW anyway
			data = nil
		} else {
			data = data[:n]
		}
	}

	// Read CSW
	cswCtx, cswCancel := context.WithTimeout(context.Background(), timeout)
	defer cswCancel()

	cswBuf := make([]byte, CSWSize)
	_, err = d.epIn.ReadContext(cswCtx, cswBuf)
	if err != nil {
		return data, 0xFF, fmt.Errorf("CSW read: %w", err)
	}

	csw, err := ParseCSW(cswBuf)
	if err != nil {
		return data, 0xFF, err
	}
	if csw.Tag != tag {
		return data, 0xFF, fmt.Errorf("CSW tag %d, want %d", csw.Tag, tag)
	}

	return data, csw.Status, nil
}

// Inquiry sends INQUIRY command and returns device info
func (d *Device) Inquiry() (*InquiryData, error) {
	data, err := execute(d, d.name, "INQUIRY", BuildInquiry(), InquirySize, shortTimeout)
	if err != nil {
		return nil, err
	}

	info := ParseInquiry(data)
	return &info, nil
}

// TestUnitReady checks if drive is ready (disc loaded)
func (d *Device) TestUnitReady() error {
	_, err := execute(d, d.name, "TEST UNIT READY", BuildTestUnitReady(), 0, shortTimeout)
	return err
}

// ReadTOC returns the raw READ TOC format 0 response.
func (d *Device) ReadTOC(msf bool) ([]byte, error) {
	return readTOC(d, d.name, msf)
}

// ReadSubChannel returns the raw READ SUB-CHANNEL response.
func (d *Device) ReadSubChannel(format cdda.SubChannelFormat, track int) ([]byte, error) {
	return readSubChannel(d, d.name, format, track)
}

// ReadCDText returns the raw READ TOC format 5 response.
func (d *Device) ReadCDText() ([]byte, error) {
	return readCDText(d, d.name)
}
