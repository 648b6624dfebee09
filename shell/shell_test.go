// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gpib-tools/hp3478x/config"
	"github.com/gpib-tools/hp3478x/gpib"
)

func newTestShell(t *testing.T) (*Shell, *gpib.Transport) {
	t.Helper()
	cl, dl := gpib.NewLinesPair()
	ct := gpib.NewTransport(cl)
	dt := gpib.NewTransport(dl)
	ct.HandshakeTimeout, ct.ReceiveTimeout = 20*time.Millisecond, 20*time.Millisecond
	dt.HandshakeTimeout, dt.ReceiveTimeout = 20*time.Millisecond, 20*time.Millisecond
	s := gpib.NewSession(ct, 21)
	store := config.NewStore(config.NewMemNVRAM(64), config.DefaultOptions)
	var out bytes.Buffer
	return New(s, store, &out, false), dt
}

func TestDispatchR_L_I(t *testing.T) {
	sh, _ := newTestShell(t)
	if got := sh.Dispatch("R"); got != "OK" {
		t.Fatalf("R -> %q, want OK", got)
	}
	if !sh.Session.RENAsserted() {
		t.Fatal("expected REN asserted after R")
	}
	if got := sh.Dispatch("L"); got != "OK" {
		t.Fatalf("L -> %q, want OK", got)
	}
	if sh.Session.RENAsserted() {
		t.Fatal("expected REN released after L")
	}
	if got := sh.Dispatch("I"); got != "OK" {
		t.Fatalf("I -> %q, want OK", got)
	}
}

func TestDispatchS(t *testing.T) {
	sh, _ := newTestShell(t)
	sh.Dispatch("R")
	got := sh.Dispatch("S")
	if len(got) != 3 {
		t.Fatalf("S -> %q, want a 3-digit status", got)
	}
	if got[0] != '1' {
		t.Fatalf("S -> %q, want REN bit set", got)
	}
}

func TestDispatchOptionGetSet(t *testing.T) {
	sh, _ := newTestShell(t)
	if got := sh.Dispatch("OE"); got != "1" {
		t.Fatalf("OE -> %q, want the factory default %q", got, "1")
	}
	if got := sh.Dispatch("OE0"); got != "OK" {
		t.Fatalf("OE0 -> %q, want OK", got)
	}
	if got := sh.Dispatch("OE"); got != "0" {
		t.Fatalf("OE after set -> %q, want %q", got, "0")
	}
}

func TestDispatchOptionOutOfRangeIsError(t *testing.T) {
	sh, _ := newTestShell(t)
	if got := sh.Dispatch("OE7"); got != "ERROR" {
		t.Fatalf("out-of-range option set -> %q, want ERROR", got)
	}
}

func TestDispatchUnknownOptionIsError(t *testing.T) {
	sh, _ := newTestShell(t)
	if got := sh.Dispatch("OZ"); got != "ERROR" {
		t.Fatalf("unknown option -> %q, want ERROR", got)
	}
}

func TestDispatchFactoryResetShortcuts(t *testing.T) {
	sh, _ := newTestShell(t)
	sh.Dispatch("OE0")
	if got := sh.Dispatch("O0"); got != "OK" {
		t.Fatalf("O0 -> %q, want OK", got)
	}
	if got := sh.Dispatch("OE"); got != "1" {
		t.Fatalf("OE after O0 reset -> %q, want factory default %q", got, "1")
	}
}

// TestDispatchExtensionEnableScenario is scenario 3's option step: OX1
// enables the extension.
func TestDispatchExtensionEnableScenario(t *testing.T) {
	sh, _ := newTestShell(t)
	if got := sh.Dispatch("OX1"); got != "OK" {
		t.Fatalf("OX1 -> %q, want OK", got)
	}
	v, err := sh.Store.Get(config.OptExtEnable)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("ext_enable = %d, want 1", v)
	}
}

// TestDispatchFactoryOptionRoundTrip is scenario 6: OC25w persists the
// converter address, OC reads it back after a simulated power cycle, and
// O0 resets it to the factory default.
func TestDispatchFactoryOptionRoundTrip(t *testing.T) {
	nv := config.NewMemNVRAM(64)
	store := config.NewStore(nv, config.DefaultOptions)
	var out bytes.Buffer
	cl, _ := gpib.NewLinesPair()
	ct := gpib.NewTransport(cl)
	s := gpib.NewSession(ct, 21)
	sh := New(s, store, &out, false)

	if got := sh.Dispatch("OC25w"); got != "OK" {
		t.Fatalf("OC25w -> %q, want OK", got)
	}

	store2 := config.NewStore(nv, config.DefaultOptions)
	if err := store2.Load(); err != nil {
		t.Fatal(err)
	}
	sh2 := New(s, store2, &out, false)
	if got := sh2.Dispatch("OC"); got != "25" {
		t.Fatalf("OC after power-cycle -> %q, want %q", got, "25")
	}

	if got := sh2.Dispatch("O0"); got != "OK" {
		t.Fatalf("O0 -> %q, want OK", got)
	}
	def, _ := store2.Def(config.OptConverterAddr)
	if got := sh2.Dispatch("OC"); got != strconv.Itoa(int(def.Default)) {
		t.Fatalf("OC after O0 reset -> %q, want factory default %d", got, def.Default)
	}
}

func TestDispatchUnknownCommandIsError(t *testing.T) {
	sh, _ := newTestShell(t)
	if got := sh.Dispatch("Z"); got != "ERROR" {
		t.Fatalf("Z -> %q, want ERROR", got)
	}
}

func TestDispatchHistoryListing(t *testing.T) {
	sh, _ := newTestShell(t)
	sh.History.Add("R")
	sh.History.Add("L")
	got := sh.Dispatch("H")
	if !strings.Contains(got, "0: R") || !strings.Contains(got, "1: L") {
		t.Fatalf("H -> %q, want both recorded lines", got)
	}
}

func TestDispatchHelp(t *testing.T) {
	sh, _ := newTestShell(t)
	got := sh.Dispatch("?")
	if !strings.Contains(got, "assert REN") {
		t.Fatalf("? -> missing expected help text: %q", got)
	}
}

func TestDispatchCSendsCommandBytes(t *testing.T) {
	sh, dt := newTestShell(t)
	done := make(chan []byte, 1)
	go func() {
		_ = dt.Lines.ConfigureListener()
		buf := make([]byte, 16)
		n, _ := dt.Receive(buf, 0)
		done <- buf[:n]
	}()
	got := sh.Dispatch("C Q9")
	received := <-done
	if got != "OK" {
		t.Fatalf("C -> %q, want OK", got)
	}
	if string(received) != "Q9" {
		t.Fatalf("device received %q, want %q", received, "Q9")
	}
}
