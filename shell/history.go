// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package shell implements the line-edited ASCII command protocol the
// bridge exposes on its UART.
package shell

// historyDepth is how many past command lines the `H` command and the
// up/down arrow recall remember.
const historyDepth = 16

// History is a fixed-depth ring of past command lines, oldest evicted
// first.
type History struct {
	lines []string
	next  int
	full  bool
}

// NewHistory returns an empty History with room for historyDepth lines.
func NewHistory() *History {
	return &History{lines: make([]string, historyDepth)}
}

// Add appends a command line, evicting the oldest if the ring is full.
// Blank lines are not recorded.
func (h *History) Add(line string) {
	if line == "" {
		return
	}
	h.lines[h.next] = line
	h.next = (h.next + 1) % len(h.lines)
	if h.next == 0 {
		h.full = true
	}
}

// Len returns the number of recorded lines.
func (h *History) Len() int {
	if h.full {
		return len(h.lines)
	}
	return h.next
}

// At returns the i-th most recent line (0 = most recent), and whether i
// was in range.
func (h *History) At(i int) (string, bool) {
	n := h.Len()
	if i < 0 || i >= n {
		return "", false
	}
	idx := (h.next - 1 - i + len(h.lines)) % len(h.lines)
	return h.lines[idx], true
}

// All returns every recorded line, oldest first, for the `H` command.
func (h *History) All() []string {
	n := h.Len()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[n-1-i], _ = h.At(i)
	}
	return out
}
