// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

// Error codes recorded in the trail.
const (
	ErrNone byte = iota
	ErrTransportTimeout
	ErrProtocolViolation
	ErrBadStatusLength
)

// maxInitFailures is the number of consecutive INIT failures that leave
// the machine quiescent, the sticky-failure threshold.
const maxInitFailures = 3

// quiescent is a pseudo-mode: the machine has given up reinitialising and
// is simply holding the error trail on the display. It is encoded as
// ModeInit with initFailures >= maxInitFailures rather than a separate
// Mode value, since recovery (EXT_ENABLE) re-enters exactly the same
// state INIT starts from.
func (c *Context) quiescent() bool { return c.initFailures >= maxInitFailures }

// noteInitFailure records a failure at nesting level 0 (outermost, the
// init handler itself) and reports whether the machine has now gone
// quiescent.
func (c *Context) noteInitFailure(code byte) bool {
	c.recordError(0, code)
	c.initFailures++
	if c.quiescent() {
		_ = c.Device.Display(c.trail.String(), false)
		return true
	}
	return false
}

// clearInitFailures resets the failure counter on a successful INIT.
func (c *Context) clearInitFailures() { c.initFailures = 0 }
