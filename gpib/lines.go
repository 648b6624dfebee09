// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpib implements the byte-level IEEE-488 (GPIB) transport and
// session layer: signal I/O, the handshake, addressing and serial poll.
//
// The bus is modeled the way periph.io/x/periph models any other digital
// bus: every control and data line is a gpio.PinIO. A line is "asserted"
// when driven Low (the bus is open-collector) and "released" when set as a
// floating input (High).
package gpib

import (
	"fmt"

	"periph.io/x/periph/conn/gpio"
)

// Signal names, used by hardware backends to build the periph pin names
// they register (e.g. drivers/ftdigpib registers "GPIB_" + SignalATN).
const (
	SignalATN  = "ATN"
	SignalREN  = "REN"
	SignalIFC  = "IFC"
	SignalEOI  = "EOI"
	SignalDAV  = "DAV"
	SignalNRFD = "NRFD"
	SignalNDAC = "NDAC"
	SignalSRQ  = "SRQ"
)

// Lines is the signal I/O layer: the 8 GPIB control lines plus an 8-bit wide
// data bus.
//
// A Lines value does not itself know whether the controller is configured as
// talker or listener; ConfigureTalker/ConfigureListener switch the data bus
// direction and the per-role handshake line directions.
type Lines struct {
	ATN  gpio.PinIO
	REN  gpio.PinIO
	IFC  gpio.PinIO
	EOI  gpio.PinIO
	DAV  gpio.PinIO
	NRFD gpio.PinIO
	NDAC gpio.PinIO
	SRQ  gpio.PinIO // input only; asserted by a device requesting service.

	// Data is the 8 data lines, D1..D8 in IEEE-488 numbering, Data[0] is D1
	// (least significant bit of the byte).
	Data [8]gpio.PinIO
}

// assert drives a control line Low (the asserted state on an open-collector
// bus).
func assert(p gpio.PinIO, want bool) error {
	if want {
		return p.Out(gpio.Low)
	}
	return p.In(gpio.PullUp, gpio.NoEdge)
}

// SetATN asserts or releases ATN. Per IEEE-488 T7, the caller must wait at
// least 500ns after asserting ATN before driving data; see SettleT7.
func (l *Lines) SetATN(assertIt bool) error { return assert(l.ATN, assertIt) }

// SetREN asserts or releases REN (remote enable).
func (l *Lines) SetREN(assertIt bool) error { return assert(l.REN, assertIt) }

// SetIFC asserts or releases IFC (interface clear).
func (l *Lines) SetIFC(assertIt bool) error { return assert(l.IFC, assertIt) }

// SetEOI asserts or releases EOI (end-or-identify).
func (l *Lines) SetEOI(assertIt bool) error { return assert(l.EOI, assertIt) }

// SetDAV asserts or releases DAV (data valid).
func (l *Lines) SetDAV(assertIt bool) error { return assert(l.DAV, assertIt) }

// SetNRFD asserts or releases NRFD (not ready for data).
func (l *Lines) SetNRFD(assertIt bool) error { return assert(l.NRFD, assertIt) }

// SetNDAC asserts or releases NDAC (not (yet) data accepted).
func (l *Lines) SetNDAC(assertIt bool) error { return assert(l.NDAC, assertIt) }

func asserted(p gpio.PinIO) bool { return p.Read() == gpio.Low }

// ReadDAV reports whether DAV is currently asserted.
func (l *Lines) ReadDAV() bool { return asserted(l.DAV) }

// ReadNDAC reports whether NDAC is currently asserted.
func (l *Lines) ReadNDAC() bool { return asserted(l.NDAC) }

// ReadNRFD reports whether NRFD is currently asserted.
func (l *Lines) ReadNRFD() bool { return asserted(l.NRFD) }

// ReadSRQ reports whether SRQ is currently asserted.
func (l *Lines) ReadSRQ() bool { return asserted(l.SRQ) }

// ReadEOI reports whether EOI is currently asserted.
func (l *Lines) ReadEOI() bool { return asserted(l.EOI) }

// ConfigureTalker puts the data bus in output mode: the controller drives
// the 8 data lines.
func (l *Lines) ConfigureTalker() error {
	for i, d := range l.Data {
		if err := d.Out(gpio.High); err != nil {
			return fmt.Errorf("gpib: configure talker: data line %d: %w", i, err)
		}
	}
	return nil
}

// ConfigureListener puts the data bus in input mode: the controller reads
// the 8 data lines driven by the addressed talker.
func (l *Lines) ConfigureListener() error {
	for i, d := range l.Data {
		if err := d.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return fmt.Errorf("gpib: configure listener: data line %d: %w", i, err)
		}
	}
	return nil
}

// DataPut drives b onto the 8 data lines. The bus must already be
// configured as talker.
func (l *Lines) DataPut(b byte) error {
	for i, d := range l.Data {
		lvl := gpio.Low
		if b&(1<<uint(i)) != 0 {
			lvl = gpio.High
		}
		if err := d.Out(lvl); err != nil {
			return fmt.Errorf("gpib: data put bit %d: %w", i, err)
		}
	}
	return nil
}

// DataGet samples the 8 data lines. The bus must already be configured as
// listener.
func (l *Lines) DataGet() byte {
	var b byte
	for i, d := range l.Data {
		if d.Read() == gpio.High {
			b |= 1 << uint(i)
		}
	}
	return b
}

