// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hw

import (
	"testing"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
	"periph.io/x/periph/conn/physic"
)

func TestToneSetProgramsFrequencyAndDuty(t *testing.T) {
	pin := &gpiotest.Pin{N: "buzzer"}
	tone := NewTone(pin)
	if err := tone.Set(time.Millisecond, 128); err != nil {
		t.Fatal(err)
	}
	if pin.F != physic.KiloHertz {
		t.Fatalf("frequency = %v, want 1kHz for a 1ms period", pin.F)
	}
	if pin.D == 0 {
		t.Fatalf("duty should be non-zero for duty255=128")
	}
}

func TestToneOffDrivesLow(t *testing.T) {
	pin := &gpiotest.Pin{N: "buzzer", L: gpio.High}
	tone := NewTone(pin)
	if err := tone.Off(); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.Low {
		t.Fatalf("pin level = %v after Off, want Low", pin.L)
	}
}

func TestInterpolateClampsAtBreakpoints(t *testing.T) {
	lo, hi := time.Millisecond, 10*time.Millisecond
	if got := Interpolate(-5, 0, 100, lo, hi); got != lo {
		t.Fatalf("below lo break: got %v, want %v", got, lo)
	}
	if got := Interpolate(200, 0, 100, lo, hi); got != hi {
		t.Fatalf("above hi break: got %v, want %v", got, hi)
	}
	mid := Interpolate(50, 0, 100, lo, hi)
	if mid <= lo || mid >= hi {
		t.Fatalf("midpoint interpolation out of range: got %v, want between %v and %v", mid, lo, hi)
	}
}
