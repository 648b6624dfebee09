// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hw

import (
	"testing"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
)

func TestLEDOffHoldsLow(t *testing.T) {
	pin := &gpiotest.Pin{N: "led"}
	led := NewLED(pin)
	led.SetMode(LEDOff)
	if err := led.Tick(0); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.Low {
		t.Fatalf("pin level = %v, want Low", pin.L)
	}
}

func TestLEDFastBlinksFasterThanSlow(t *testing.T) {
	fastPin := &gpiotest.Pin{N: "fast"}
	fast := NewLED(fastPin)
	fast.SetMode(LEDFast)

	slowPin := &gpiotest.Pin{N: "slow"}
	slow := NewLED(slowPin)
	slow.SetMode(LEDSlow)

	fastToggles, slowToggles := 0, 0
	prevFast, prevSlow := fastPin.L, slowPin.L
	for ms := uint32(0); ms <= ledSlowPeriodMs; ms += 50 {
		if err := fast.Tick(ms); err != nil {
			t.Fatal(err)
		}
		if err := slow.Tick(ms); err != nil {
			t.Fatal(err)
		}
		if fastPin.L != prevFast {
			fastToggles++
			prevFast = fastPin.L
		}
		if slowPin.L != prevSlow {
			slowToggles++
			prevSlow = slowPin.L
		}
	}
	if fastToggles <= slowToggles {
		t.Fatalf("fast LED toggled %d times, slow toggled %d times; want fast > slow", fastToggles, slowToggles)
	}
}
