// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hw

import "periph.io/x/periph/conn/gpio"

// LEDMode is the status LED's blink pattern: off, slow blink, or fast
// blink.
type LEDMode int

const (
	LEDOff LEDMode = iota
	LEDSlow
	LEDFast
)

const (
	ledSlowPeriodMs = 1000
	ledFastPeriodMs = 200
)

// LED drives a status indicator from the millisecond timebase. Its state
// is advanced by Tick, called once per main-loop iteration to update the
// blink state -- mirrored here as an explicit call rather than a second
// interrupt source, since Go has no direct analog of a bare-metal 1 kHz
// timer ISR.
type LED struct {
	Pin  gpio.PinOut
	mode LEDMode
	on   bool
	last uint32
}

// NewLED wraps pin as a status LED, initially off.
func NewLED(pin gpio.PinOut) *LED { return &LED{Pin: pin} }

// SetMode changes the blink pattern.
func (l *LED) SetMode(m LEDMode) { l.mode = m }

// Tick advances the blink state given the current millisecond count.
func (l *LED) Tick(nowMs uint32) error {
	switch l.mode {
	case LEDOff:
		l.on = false
		return l.Pin.Out(gpio.Low)
	case LEDSlow:
		return l.blink(nowMs, ledSlowPeriodMs)
	case LEDFast:
		return l.blink(nowMs, ledFastPeriodMs)
	default:
		return nil
	}
}

func (l *LED) blink(nowMs uint32, periodMs uint32) error {
	if nowMs-l.last >= periodMs/2 {
		l.last = nowMs
		l.on = !l.on
		lvl := gpio.Low
		if l.on {
			lvl = gpio.High
		}
		return l.Pin.Out(lvl)
	}
	return nil
}
