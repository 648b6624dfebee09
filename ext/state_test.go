// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "testing"

func TestErrorTrailString(t *testing.T) {
	var e errorTrail
	e[0] = ErrTransportTimeout
	e[1] = ErrProtocolViolation
	got := e.String()
	want := "E:01020000"
	if got != want {
		t.Fatalf("errorTrail.String() = %q, want %q", got, want)
	}
}

func TestModeString(t *testing.T) {
	if ModeIdle.String() != "idle" {
		t.Fatalf("ModeIdle.String() = %q, want %q", ModeIdle.String(), "idle")
	}
	if Mode(999).String() != "unknown" {
		t.Fatalf("out-of-range Mode.String() = %q, want %q", Mode(999).String(), "unknown")
	}
}

func TestContextRecordErrorBounds(t *testing.T) {
	c := &Context{}
	c.recordError(-1, ErrNone) // must not panic
	c.recordError(len(c.trail), ErrNone)
	c.recordError(0, ErrBadStatusLength)
	if c.trail[0] != ErrBadStatusLength {
		t.Fatalf("trail[0] = %v, want ErrBadStatusLength", c.trail[0])
	}
}
