// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hw implements the ambient hardware surfaces the extension layer
// drives directly: the millisecond timebase, the UART, the tone generator
// and the status LED.
package hw

import "sync/atomic"

// Timebase is a free-running millisecond counter, the Go analog of a
// 1 kHz timer interrupt driving a scheduling tick. It only moves when
// Advance is called: cmd/gpibctl advances it from its main loop by the
// poll period after each sleep; tests drive it directly.
//
// The counter is kept as an atomic cell rather than a plain field so it
// may be advanced from a goroutine other than the one reading it -- the Go
// equivalent of "read/written with interrupts briefly disabled" guidance
// for globals shared with an ISR.
type Timebase struct {
	ms uint32
}

// Now returns the current millisecond count, wrapping at 2^32.
func (t *Timebase) Now() uint32 { return atomic.LoadUint32(&t.ms) }

// Advance adds d milliseconds to the counter. cmd/gpibctl calls it once
// per main-loop iteration; tests call it directly to simulate time
// passing without sleeping.
func (t *Timebase) Advance(d uint32) { atomic.AddUint32(&t.ms, d) }

// Ms16After reports whether now has reached or passed deadline, using a
// 16-bit wrap-safe signed comparison: it is NOT a naive now >= deadline
// compare, which breaks across a counter wrap.
func Ms16After(now, deadline uint16) bool {
	return int16(now-deadline) >= 0
}

// Ms8After reports whether the elapsed time since ts has exceeded
// thresholdMs, using 8-bit modular arithmetic:
// "(uint8_t)(now - ts) > thresholdMs", which wraps correctly and must
// not be replaced by a signed compare.
func Ms8After(now, ts, thresholdMs uint8) bool {
	return uint8(now-ts) > thresholdMs
}
