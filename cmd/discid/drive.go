package main

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/binaryphile/crostini-discid/internal/disc"
	"github.com/binaryphile/crostini-discid/internal/scsi"
	"github.com/go-logr/logr"
	"github.com/google/gousb"
)

// drive is an opened drive: the raw providers plus readiness checks.
type drive interface {
	disc.Provider
	Inquiry() (*scsi.InquiryData, error)
	TestUnitReady() error
}

// deviceSpec is a parsed --device value.
type deviceSpec struct {
	usb       bool
	vendorID  gousb.ID
	productID gousb.ID
	path      string
}

// parseDeviceSpec accepts a device node, "usb", or usb:VID:PID with
// hexadecimal IDs. Empty selects the SG_IO default on Linux, USB elsewhere.
func parseDeviceSpec(spec, goos string) (deviceSpec, error) {
	if spec == "" {
		if goos == "linux" {
			return deviceSpec{path: scsi.DefaultSGDevice}, nil
		}
		spec = "usb"
	}
	if spec == "usb" {
		return deviceSpec{usb: true}, nil
	}

	rest, ok := strings.CutPrefix(spec, "usb:")
	if !ok {
		return deviceSpec{path: spec}, nil
	}
	vid, pid, ok := strings.Cut(rest, ":")
	if !ok {
		return deviceSpec{}, fmt.Errorf("device %q: want usb:VID:PID", spec)
	}
	v, err := parseUSBID(vid)
	if err != nil {
		return deviceSpec{}, fmt.Errorf("device %q: vendor ID: %w", spec, err)
	}
	p, err := parseUSBID(pid)
	if err != nil {
		return deviceSpec{}, fmt.Errorf("device %q: product ID: %w", spec, err)
	}
	return deviceSpec{usb: true, vendorID: v, productID: p}, nil
}

func parseUSBID(s string) (gousb.ID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0, err
	}
	return gousb.ID(n), nil
}

// openDrive opens the drive named by spec. The returned func closes it.
func openDrive(spec string, log logr.Logger) (drive, func(), error) {
	ds, err := parseDeviceSpec(spec, runtime.GOOS)
	if err != nil {
		return nil, nil, err
	}

	if ds.usb {
		d, err := scsi.OpenDevice(ds.vendorID, ds.productID, log)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (is the USB drive shared with Linux?)", err)
		}
		return d, d.Close, nil
	}

	d, err := scsi.OpenSG(ds.path, log)
	if err != nil {
		return nil, nil, err
	}
	return d, func() {
		if err := d.Close(); err != nil {
			log.Error(err, "closing drive", "device", ds.path)
		}
	}, nil
}

// checkReady logs the drive identity and fails when no disc is loaded.
func checkReady(d drive, log logr.Logger) error {
	if info, err := d.Inquiry(); err != nil {
		log.Error(err, "INQUIRY failed", "device", d.Name())
	} else {
		log.V(1).Info("drive", "device", d.Name(), "vendor", info.Vendor, "product", info.Product, "revision", info.Revision)
	}

	err := d.TestUnitReady()
	if err == nil {
		return nil
	}
	var sense *scsi.SenseError
	if errors.As(err, &sense) && sense.MediumNotPresent() {
		return fmt.Errorf("no disc in %s", d.Name())
	}
	return fmt.Errorf("%s not ready: %w", d.Name(), err)
}
