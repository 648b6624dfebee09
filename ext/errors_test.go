// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import (
	"testing"
	"time"

	"github.com/gpib-tools/hp3478x/devices/hp3478a"
	"github.com/gpib-tools/hp3478x/gpib"
)

func pairDeviceForTest(t *testing.T) *hp3478a.Device {
	t.Helper()
	cl, _ := gpib.NewLinesPair()
	ct := gpib.NewTransport(cl)
	ct.HandshakeTimeout, ct.ReceiveTimeout = 5*time.Millisecond, 5*time.Millisecond
	s := gpib.NewSession(ct, 21)
	return hp3478a.New(s, 9)
}

func TestNoteInitFailureGoesQuiescentAfterMax(t *testing.T) {
	c := &Context{Device: pairDeviceForTest(t)}
	for i := 0; i < maxInitFailures-1; i++ {
		if c.noteInitFailure(ErrTransportTimeout) {
			t.Fatalf("went quiescent early at failure %d", i+1)
		}
	}
	if !c.noteInitFailure(ErrTransportTimeout) {
		t.Fatal("expected quiescent after maxInitFailures failures")
	}
	if !c.quiescent() {
		t.Fatal("quiescent() should report true")
	}
}

func TestClearInitFailuresResets(t *testing.T) {
	c := &Context{Device: pairDeviceForTest(t)}
	c.initFailures = maxInitFailures
	c.clearInitFailures()
	if c.quiescent() {
		t.Fatal("quiescent() should report false after clearInitFailures")
	}
}
