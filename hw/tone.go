// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hw

import (
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// Tone is a PWM-driven buzzer: set a period and duty cycle, or silence it.
// It is built directly on gpio.PinOut's PWM method, like any other
// periph.io pin.
type Tone struct {
	Pin gpio.PinOut
}

// NewTone wraps pin as a Tone generator.
func NewTone(pin gpio.PinOut) *Tone { return &Tone{Pin: pin} }

// Set starts the buzzer at the given period with the given duty cycle,
// expressed as parts out of 255, matching the u8 buzzer-duty option.
func (t *Tone) Set(period time.Duration, duty255 uint8) error {
	f := physic.PeriodToFrequency(period)
	d := gpio.Duty(int(duty255) * int(gpio.DutyMax) / 255)
	return t.Pin.PWM(d, f)
}

// Off silences the buzzer.
func (t *Tone) Off() error {
	return t.Pin.Out(gpio.Low)
}

// Interpolate linearly interpolates the buzzer period between two
// configured break-points by reading value, used by the continuity
// sub-mode. Only the period is interpolated; the duty cycle is not.
func Interpolate(value, loBreak, hiBreak int32, loPeriod, hiPeriod time.Duration) time.Duration {
	if hiBreak == loBreak {
		return loPeriod
	}
	if value <= loBreak {
		return loPeriod
	}
	if value >= hiBreak {
		return hiPeriod
	}
	span := int64(hiBreak - loBreak)
	frac := int64(value - loBreak)
	return loPeriod + time.Duration(int64(hiPeriod-loPeriod)*frac/span)
}
