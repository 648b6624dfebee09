// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import (
	"testing"

	"github.com/gpib-tools/hp3478x/devices/hp3478a"
)

func TestMenuStartEntry2WOhmOverload(t *testing.T) {
	st := hp3478a.Status{Function: hp3478a.Func2WOhm}
	if got := menuStartEntry(st, true); got != menuExtOhm {
		t.Fatalf("2WOhm overload entry = %v, want menuExtOhm", got)
	}
}

func TestMenuStartEntry2WOhmNormal(t *testing.T) {
	st := hp3478a.Status{Function: hp3478a.Func2WOhm}
	if got := menuStartEntry(st, false); got != menuContinuity {
		t.Fatalf("2WOhm entry = %v, want menuContinuity", got)
	}
}

func TestMenuStartEntryExtOhm(t *testing.T) {
	st := hp3478a.Status{Function: hp3478a.FuncExtOhm}
	if got := menuStartEntry(st, false); got != menuExtOhm {
		t.Fatalf("extended-ohm entry = %v, want menuExtOhm", got)
	}
}

func TestMenuStartEntryDefault(t *testing.T) {
	st := hp3478a.Status{Function: hp3478a.FuncDCV}
	if got := menuStartEntry(st, false); got != menuAutohold {
		t.Fatalf("DCV entry = %v, want menuAutohold", got)
	}
}

func TestMenuEntryLabels(t *testing.T) {
	for e := menuContinuity; e < menuCount; e++ {
		if e.label() == "?" {
			t.Fatalf("menuEntry %d has no label", e)
		}
	}
}
