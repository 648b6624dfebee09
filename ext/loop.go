// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

// Timeout sentinels a mode handler returns alongside its next Mode: the
// deadline is either never (infinite), continue (use the previous
// deadline), or an absolute millisecond count -- expressed here as a
// relative-milliseconds return value plus two sentinels.
const (
	TimeoutNever    int32 = -1
	TimeoutContinue int32 = -2
)

// handler is a per-mode event handler: given the context (already
// reflecting any mode transition made by the caller) and the fired event
// mask, it does the mode's work and returns the next mode plus its next
// timeout.
type handler func(c *Context, ev Event) (Mode, int32)

var handlers = map[Mode]handler{
	ModeInit:             handleInit,
	ModeIdle:             handleIdle,
	ModeRelSettle:        handleRelSettle,
	ModeRelActive:        handleRelActive,
	ModeMenu:             handleMenu,
	ModeExtOhm:           handleExtOhm,
	ModeContinuity:       handleContinuity,
	ModeMinMax:           handleMinMax,
	ModeAutoholdTracking: handleAutoholdTracking,
	ModeAutoholdLocked:   handleAutoholdLocked,
	ModeDiode:            handleDiode,
	ModeTemperature:      handleTemperature,
}

// Step runs one iteration of the event loop given the already-computed
// event mask. It is the unit the main loop drives, wrapped there in the
// blocking wait for the next UART byte, SRQ edge, or timeout.
//
// EXT_ENABLE/EXT_DISABLE are handled here rather than by a per-mode
// handler, since they apply uniformly regardless of the current mode.
func (c *Context) Step(ev Event) {
	if ev&EventExtDisable != 0 {
		c.mode = ModeDisabled
		c.haveDeadline = false
		return
	}
	if ev&EventExtEnable != 0 && c.mode == ModeDisabled {
		c.mode = ModeInit
		c.initFailures = 0
		c.setTimeout(0)
	}
	if c.mode == ModeDisabled {
		return
	}
	if ev&(EventSRQ|EventTimeout|EventExtEnable) == 0 {
		return
	}
	h, ok := handlers[c.mode]
	if !ok {
		return
	}
	next, timeout := h(c, ev)
	c.mode = next
	c.applyTimeout(timeout)
}

func (c *Context) setTimeout(relMs uint32) {
	c.deadline = c.Clock.Now() + relMs
	c.haveDeadline = true
}

func (c *Context) applyTimeout(t int32) {
	switch t {
	case TimeoutNever:
		c.haveDeadline = false
	case TimeoutContinue:
		// leave c.deadline/haveDeadline untouched
	default:
		c.setTimeout(uint32(t))
	}
}

// Deadline returns the current absolute deadline and whether one is set,
// for the caller's event computation (ComputeEvents' Inputs.Deadline/
// HaveDeadline).
func (c *Context) Deadline() (ms uint32, have bool) { return c.deadline, c.haveDeadline }
