// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hw

import "testing"

func TestTimebaseAdvance(t *testing.T) {
	var tb Timebase
	if tb.Now() != 0 {
		t.Fatalf("Now() = %d, want 0", tb.Now())
	}
	tb.Advance(5)
	tb.Advance(3)
	if tb.Now() != 8 {
		t.Fatalf("Now() = %d, want 8", tb.Now())
	}
}

func TestMs16AfterWraps(t *testing.T) {
	// now just past a 16-bit wrap, deadline just before it; a naive
	// now >= deadline compare would get this backwards.
	if !Ms16After(1, 65535) {
		t.Fatal("Ms16After(1, 65535) should be true across the wrap")
	}
	if Ms16After(65534, 65535) {
		t.Fatal("Ms16After(65534, 65535) should be false, deadline not yet reached")
	}
	if !Ms16After(100, 100) {
		t.Fatal("Ms16After(100, 100) should be true, deadline reached exactly")
	}
}

func TestMs8AfterWraps(t *testing.T) {
	if !Ms8After(5, 250, 10) {
		t.Fatal("Ms8After(5, 250, 10) should be true: 11ms elapsed across the 8-bit wrap")
	}
	if Ms8After(255, 250, 10) {
		t.Fatal("Ms8After(255, 250, 10) should be false: only 5ms elapsed")
	}
}
