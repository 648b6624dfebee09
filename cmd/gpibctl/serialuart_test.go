// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/gpib-tools/hp3478x/hw"
)

func TestBaudSpeedKnownRates(t *testing.T) {
	for _, bps := range []int{hw.Baud115200, hw.Baud500k, hw.Baud1M, hw.Baud2M} {
		if _, ok := baudSpeed(bps); !ok {
			t.Fatalf("baudSpeed(%d): not ok, want a mapped CFlag", bps)
		}
	}
}

func TestBaudSpeedUnknownRate(t *testing.T) {
	if _, ok := baudSpeed(1234); ok {
		t.Fatal("baudSpeed(1234): ok, want unmapped")
	}
}
