// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "testing"

func TestRTDTemperatureAtR0(t *testing.T) {
	// r == R0 is the RTD's 0C calibration point.
	got := rtdTemperature(ctdR0)
	if got < -0.01 || got > 0.01 {
		t.Fatalf("rtdTemperature(R0) = %v, want ~0", got)
	}
}

func TestRTDTemperaturePositive(t *testing.T) {
	// A higher resistance than R0 must read out as a positive temperature.
	got := rtdTemperature(1100)
	if got <= 0 {
		t.Fatalf("rtdTemperature(1100) = %v, want > 0", got)
	}
}
