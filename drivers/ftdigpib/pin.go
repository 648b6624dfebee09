// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdigpib

import (
	"errors"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// pin is one bit of the Bus's ADBUS or ACBUS byte. It is stateless beyond
// its bit position; all actual state (direction, value) lives in the Bus.
type pin struct {
	name string
	bus  *Bus
	bit  int
	high bool // true: ACBUS (control lines), false: ADBUS (data lines)
}

func (p *pin) String() string  { return p.name }
func (p *pin) Halt() error     { return nil }
func (p *pin) Name() string    { return p.name }
func (p *pin) Number() int     { return p.bit }
func (p *pin) Function() string {
	if p.high {
		return "GPIB_CTRL"
	}
	return "GPIB_DATA"
}

// DefaultPull reflects the adapter board's external pull-up on every GPIB
// line (open-collector bus).
func (p *pin) DefaultPull() gpio.Pull { return gpio.PullUp }
func (p *pin) Pull() gpio.Pull        { return gpio.PullUp }

func (p *pin) WaitForEdge(time.Duration) bool { return false }

// In releases the line: direction input, relying on the bus pull-up to
// read High.
func (p *pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return errors.New("ftdigpib: edge triggering is not supported")
	}
	if p.high {
		return p.bus.setHigh(p.bit, false, false)
	}
	return p.bus.setLow(p.bit, false, false)
}

// Out drives the line. GPIB is open-collector; callers only ever assert
// Low or release via In, but High is handled too for interface completeness.
func (p *pin) Out(l gpio.Level) error {
	if p.high {
		return p.bus.setHigh(p.bit, true, l == gpio.High)
	}
	return p.bus.setLow(p.bit, true, l == gpio.High)
}

func (p *pin) Read() gpio.Level {
	var (
		v   bool
		err error
	)
	if p.high {
		v, err = p.bus.readHigh(p.bit)
	} else {
		v, err = p.bus.readLow(p.bit)
	}
	if err != nil {
		// The bus went away; report the line as asserted (Low) so a caller
		// blocked on a handshake sees a change rather than spinning forever.
		return gpio.Low
	}
	if v {
		return gpio.High
	}
	return gpio.Low
}

func (p *pin) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("ftdigpib: PWM is not supported")
}

var _ gpio.PinIO = (*pin)(nil)
