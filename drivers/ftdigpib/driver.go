// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdigpib

import (
	"fmt"
	"sync"

	"github.com/google/gousb"
	"periph.io/x/periph"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"

	xgpib "github.com/gpib-tools/hp3478x/gpib"
)

// controlNames is ACBUS bit order, matching gpib.Lines' 8 control signals.
var controlNames = [8]string{
	xgpib.SignalATN, xgpib.SignalREN, xgpib.SignalIFC, xgpib.SignalEOI,
	xgpib.SignalDAV, xgpib.SignalNRFD, xgpib.SignalNDAC, xgpib.SignalSRQ,
}

// Dev is one opened FT232H-class adapter wired as a GPIB bus: its 16 pins
// plus the gpib.Lines built from them.
type Dev struct {
	Bus   *Bus
	Lines *xgpib.Lines
	name  string
}

func (d *Dev) String() string { return d.name }

// open claims d, brings its MPSSE engine up, and builds the 16 named pins
// (8 control + 8 data) gpib.Lines needs.
func open(gd *gousb.Device, index int) (*Dev, error) {
	bus, err := openBus(gd)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("ftdigpib(%d)", index)

	lines := &xgpib.Lines{}
	ctrl := make(map[string]gpio.PinIO, 8)
	for i, n := range controlNames {
		p := &pin{name: "GPIB_" + n, bus: bus, bit: i, high: true}
		ctrl[n] = p
	}
	lines.ATN, lines.REN, lines.IFC, lines.EOI = ctrl[xgpib.SignalATN], ctrl[xgpib.SignalREN], ctrl[xgpib.SignalIFC], ctrl[xgpib.SignalEOI]
	lines.DAV, lines.NRFD, lines.NDAC, lines.SRQ = ctrl[xgpib.SignalDAV], ctrl[xgpib.SignalNRFD], ctrl[xgpib.SignalNDAC], ctrl[xgpib.SignalSRQ]
	for i := range lines.Data {
		lines.Data[i] = &pin{name: fmt.Sprintf("GPIB_D%d", i+1), bus: bus, bit: i, high: false}
	}

	return &Dev{Bus: bus, Lines: lines, name: name}, nil
}

// registerDev publishes every pin of d in the global gpio registry so it
// can be looked up by name like any other periph.io GPIO pin.
func registerDev(d *Dev) error {
	pins := []gpio.PinIO{
		d.Lines.ATN, d.Lines.REN, d.Lines.IFC, d.Lines.EOI,
		d.Lines.DAV, d.Lines.NRFD, d.Lines.NDAC, d.Lines.SRQ,
	}
	pins = append(pins, d.Lines.Data[:]...)
	for _, p := range pins {
		if err := gpioreg.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// driver implements periph.Driver.
type driver struct {
	mu  sync.Mutex
	all []*Dev

	openDevices func() ([]*gousb.Device, func(), error)
}

func (d *driver) String() string { return "ftdigpib" }

func (d *driver) Prerequisites() []string { return nil }

func (d *driver) After() []string { return nil }

func (d *driver) Init() (bool, error) {
	devs, closeAll, err := d.openDevices()
	if err != nil {
		return true, err
	}
	defer closeAll()

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, gd := range devs {
		dev, err1 := open(gd, i)
		if err1 != nil {
			err = err1
			continue
		}
		d.all = append(d.all, dev)
		if err2 := registerDev(dev); err2 != nil {
			return true, err2
		}
	}
	return len(d.all) > 0, err
}

// All returns the adapters discovered by the last Init call.
func All() []*Dev {
	drv.mu.Lock()
	defer drv.mu.Unlock()
	out := make([]*Dev, len(drv.all))
	copy(out, drv.all)
	return out
}

// openUSBDevices scans the USB bus for FT232H-class adapters (vendor/product
// 0x0403/0x6014, FTDI's default FT232H ID). The returned func closes the
// gousb context once the caller is done opening individual devices.
func openUSBDevices() ([]*gousb.Device, func(), error) {
	ctx := gousb.NewContext()
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == vendorFTDI && uint16(desc.Product) == productFT232H
	})
	return devs, func() { ctx.Close() }, err
}

func (d *driver) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.all = nil
	d.openDevices = openUSBDevices
}

func init() {
	drv.reset()
	periph.MustRegister(&drv)
}

var drv driver

var _ periph.Driver = &drv
