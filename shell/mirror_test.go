// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shell

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisplayMirrorShowsText(t *testing.T) {
	var out bytes.Buffer
	m := NewDisplayMirror(&out)
	m.Show("1.234567", false)
	if !strings.Contains(out.String(), "1.234567") {
		t.Fatalf("mirror output %q missing the displayed text", out.String())
	}
}

func TestDisplayMirrorErrorColorDiffersFromNormal(t *testing.T) {
	var normal, errored bytes.Buffer
	NewDisplayMirror(&normal).Show("OK", false)
	NewDisplayMirror(&errored).Show("OK", true)
	if normal.String() == errored.String() {
		t.Fatal("expected the error-state mirror output to differ from normal")
	}
}
