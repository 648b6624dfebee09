// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hp3478a

import "testing"

func TestParseStatus(t *testing.T) {
	// function=DCV(0), range=3, digits=5.5 (Digits5Half=2) -> b0 = (0<<5)|(3<<2)|2
	b0 := byte(3<<2) | byte(Digits5Half)
	raw := []byte{b0, 0, 0x0f, StatusDREADY | StatusFRPSRQ, 0}
	s, err := ParseStatus(raw)
	if err != nil {
		t.Fatal(err)
	}
	if s.Function != FuncDCV {
		t.Fatalf("Function = %v, want FuncDCV", s.Function)
	}
	if s.Range != 3 {
		t.Fatalf("Range = %d, want 3", s.Range)
	}
	if s.Digits != Digits5Half {
		t.Fatalf("Digits = %v, want Digits5Half", s.Digits)
	}
	if !s.DataReady() {
		t.Fatalf("expected DataReady")
	}
	if !s.FrontPanelSRQ() {
		t.Fatalf("expected FrontPanelSRQ")
	}
	if s.SyntaxError() || s.PowerOnSRQ() {
		t.Fatalf("unexpected status bits set: %#x", s.Status)
	}
}

func TestParseStatusModes(t *testing.T) {
	raw := []byte{0, ModeExternalTrigger | ModeAutoZero, 0, 0, 0}
	s, err := ParseStatus(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !s.ExternalTrigger() {
		t.Fatal("expected ExternalTrigger")
	}
	if s.InternalTrigger() {
		t.Fatal("did not expect InternalTrigger")
	}
	if !s.HasMode(ModeAutoZero) {
		t.Fatal("expected ModeAutoZero set")
	}
}

func TestParseStatusWrongLength(t *testing.T) {
	if _, err := ParseStatus([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short status")
	}
}
