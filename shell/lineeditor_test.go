// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"testing"
)

func TestLineEditorCompletesOnCR(t *testing.T) {
	var out bytes.Buffer
	e := NewLineEditor(NewHistory(), &out, true)
	for _, b := range []byte("R") {
		if _, ready := e.Feed(b); ready {
			t.Fatal("completed before the terminator")
		}
	}
	line, ready := e.Feed('\r')
	if !ready || line != "R" {
		t.Fatalf("Feed('\\r') = %q, %v, want %q, true", line, ready, "R")
	}
}

func TestLineEditorBackspace(t *testing.T) {
	var out bytes.Buffer
	e := NewLineEditor(NewHistory(), &out, false)
	e.Feed('O')
	e.Feed('X')
	e.Feed(0x08) // backspace removes the X
	e.Feed('1')
	line, ready := e.Feed('\n')
	if !ready || line != "O1" {
		t.Fatalf("line = %q, want %q", line, "O1")
	}
}

func TestLineEditorUpArrowRecallsHistory(t *testing.T) {
	h := NewHistory()
	h.Add("R")
	var out bytes.Buffer
	e := NewLineEditor(h, &out, false)
	e.Feed(0x1b)
	e.Feed('[')
	line, ready := e.Feed('A')
	if ready {
		t.Fatal("arrow key should not complete a line")
	}
	_ = line
	// The recalled line is only delivered once the operator hits CR.
	got, ready := e.Feed('\r')
	if !ready || got != "R" {
		t.Fatalf("after up-arrow recall, CR should submit %q, got %q", "R", got)
	}
}

func TestLineEditorEchoesOnlyWhenEnabled(t *testing.T) {
	var out bytes.Buffer
	e := NewLineEditor(NewHistory(), &out, false)
	e.Feed('X')
	if out.Len() != 0 {
		t.Fatalf("expected no echo output, got %q", out.String())
	}
}
