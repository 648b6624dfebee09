// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import (
	"testing"

	"github.com/gpib-tools/hp3478x/devices/hp3478a"
)

func TestAutoholdFloorByFunction(t *testing.T) {
	if autoholdFloor(hp3478a.FuncDCV) <= 0 {
		t.Fatal("expected a positive noise floor for DCV")
	}
	if autoholdFloor(hp3478a.Func2WOhm) <= autoholdFloor(hp3478a.FuncDCV) {
		t.Fatal("resistance floor should be coarser than a voltage floor")
	}
	if autoholdFloor(hp3478a.FuncDCA) <= 0 {
		t.Fatal("expected a positive noise floor for DC current")
	}
}

func TestAutoholdStableWindowConstants(t *testing.T) {
	if autoholdStableCount != 5 {
		t.Fatalf("autoholdStableCount = %d, want 5", autoholdStableCount)
	}
	if autoholdStableWindow != 3 {
		t.Fatalf("autoholdStableWindow = %d, want 3", autoholdStableWindow)
	}
}

func TestWithinStableWindowIsStrictlyLessThan(t *testing.T) {
	a := hp3478a.Reading{Value: 10000, Dot: 4, Exp: 0}
	within := hp3478a.Reading{Value: 10002, Dot: 4, Exp: 0}
	if !withinStableWindow(a, within) {
		t.Fatal("diff of 2 should be within the stability window")
	}
	atBoundary := hp3478a.Reading{Value: 10003, Dot: 4, Exp: 0}
	if withinStableWindow(a, atBoundary) {
		t.Fatal("diff of exactly autoholdStableWindow (3) should not count as stable")
	}
	outside := hp3478a.Reading{Value: 10004, Dot: 4, Exp: 0}
	if withinStableWindow(a, outside) {
		t.Fatal("diff of 4 should not be within the stability window")
	}
}
