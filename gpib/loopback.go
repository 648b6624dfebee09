// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import (
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// wirePin implements gpio.PinIO as one end of a shared open-collector wire:
// any participant pulling Low wins, and the line reads High only when every
// participant has released it. It is modeled on
// periph.io/x/periph/conn/gpio/gpiotest.Pin, extended with the wired-AND
// semantics a real GPIB bus line has and gpiotest's independent fake pins
// don't.
type wirePin struct {
	name string
	w    *wire
}

type wire struct {
	mu      sync.Mutex
	pulling map[*wirePin]bool
}

func newWire() *wire { return &wire{pulling: map[*wirePin]bool{}} }

func (w *wire) level() gpio.Level {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, low := range w.pulling {
		if low {
			return gpio.Low
		}
	}
	return gpio.High
}

func (w *wire) set(p *wirePin, low bool) {
	w.mu.Lock()
	w.pulling[p] = low
	w.mu.Unlock()
}

func (p *wirePin) String() string                  { return p.name }
func (p *wirePin) Halt() error                      { return nil }
func (p *wirePin) Name() string                     { return p.name }
func (p *wirePin) Number() int                      { return -1 }
func (p *wirePin) Function() string                 { return "GPIB" }
func (p *wirePin) Read() gpio.Level                 { return p.w.level() }
func (p *wirePin) Pull() gpio.Pull                   { return gpio.PullUp }
func (p *wirePin) DefaultPull() gpio.Pull            { return gpio.PullUp }
func (p *wirePin) WaitForEdge(time.Duration) bool    { return false }

func (p *wirePin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.w.set(p, false)
	return nil
}

func (p *wirePin) Out(l gpio.Level) error {
	p.w.set(p, l == gpio.Low)
	return nil
}

func (p *wirePin) PWM(d gpio.Duty, f physic.Frequency) error { return errNotSupported }

var _ gpio.PinIO = (*wirePin)(nil)

// newWiredPins returns n independently-driveable ends of a single shared
// wire (one per bus participant), all starting released (High).
func newWiredPins(name string, n int) []*wirePin {
	w := newWire()
	out := make([]*wirePin, n)
	for i := range out {
		out[i] = &wirePin{name: name, w: w}
		w.pulling[out[i]] = false
	}
	return out
}

// NewLinesPair returns two Lines sharing the same wires, e.g. a controller
// side and a single-device side, for use in tests and the simulated bridge
// exercised by cmd/gpibctl -simulate.
func NewLinesPair() (controller, device *Lines) {
	names := []string{SignalATN, SignalREN, SignalIFC, SignalEOI, SignalDAV, SignalNRFD, SignalNDAC, SignalSRQ}
	wires := make([][]*wirePin, len(names))
	for i, n := range names {
		wires[i] = newWiredPins(n, 2)
	}
	dataWires := make([][]*wirePin, 8)
	for i := range dataWires {
		dataWires[i] = newWiredPins("DIO"+string(rune('1'+i)), 2)
	}

	build := func(side int) *Lines {
		l := &Lines{
			ATN:  wires[0][side],
			REN:  wires[1][side],
			IFC:  wires[2][side],
			EOI:  wires[3][side],
			DAV:  wires[4][side],
			NRFD: wires[5][side],
			NDAC: wires[6][side],
			SRQ:  wires[7][side],
		}
		for i := range l.Data {
			l.Data[i] = dataWires[i][side]
		}
		return l
	}
	return build(0), build(1)
}

var errNotSupported = &notSupportedError{}

type notSupportedError struct{}

func (*notSupportedError) Error() string { return "gpib: operation not supported on this pin" }
