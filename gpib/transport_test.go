// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import (
	"sync"
	"testing"
	"time"

	"periph.io/x/periph/conn/gpio"
)

func pairTransports(t *testing.T) (ctl, dev *Transport) {
	t.Helper()
	cl, dl := NewLinesPair()
	ctl = NewTransport(cl)
	dev = NewTransport(dl)
	ctl.HandshakeTimeout, ctl.ReceiveTimeout = 20*time.Millisecond, 20*time.Millisecond
	dev.HandshakeTimeout, dev.ReceiveTimeout = 20*time.Millisecond, 20*time.Millisecond
	return ctl, dev
}

func TestSendReceiveRoundTrip(t *testing.T) {
	ctl, dev := pairTransports(t)
	if err := ctl.Lines.ConfigureTalker(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Lines.ConfigureListener(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var got []byte
	var gotReason StopReason
	buf := make([]byte, 16)
	wg.Add(1)
	go func() {
		defer wg.Done()
		n, reason := dev.Receive(buf, TermLF|TermEOI)
		got = buf[:n]
		gotReason = reason
	}()

	n, err := ctl.Send([]byte("3F"), TermLF|TermEOI)
	if err != nil {
		t.Fatal(err)
	}
	wg.Wait()
	if n != 3 {
		t.Fatalf("Send returned %d, want 3 (2 data + LF)", n)
	}
	if string(got) != "3F\n" {
		t.Fatalf("got %q, want %q", got, "3F\n")
	}
	if gotReason&StopLF == 0 {
		t.Fatalf("expected StopLF in reason, got %#x", gotReason)
	}
}

func TestSendTimesOutWithoutListener(t *testing.T) {
	ctl, _ := pairTransports(t)
	if err := ctl.Lines.ConfigureTalker(); err != nil {
		t.Fatal(err)
	}
	// Simulate a listener that never becomes ready: the controller's own end
	// of the shared NRFD wire is pulled low and never released, so NRFD
	// never releases for the talker.
	if err := ctl.Lines.NRFD.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	n, err := ctl.Send([]byte("X"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("Send returned %d, want 0 on timeout", n)
	}
}

func TestReceiveBufferFull(t *testing.T) {
	ctl, dev := pairTransports(t)
	if err := ctl.Lines.ConfigureTalker(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Lines.ConfigureListener(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	buf := make([]byte, 2)
	var gotReason StopReason
	var n int
	wg.Add(1)
	go func() {
		defer wg.Done()
		n, gotReason = dev.Receive(buf, TermLF|TermEOI)
	}()
	if _, err := ctl.Send([]byte("abc"), 0); err != nil {
		t.Fatal(err)
	}
	wg.Wait()
	if n != 2 {
		t.Fatalf("got n=%d, want 2", n)
	}
	if gotReason != StopBufferFull {
		t.Fatalf("got reason %#x, want StopBufferFull", gotReason)
	}
}
