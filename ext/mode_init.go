// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

// handleInit probes the instrument with a status read; on success the
// machine moves to idle, on failure it retries after 250ms up to
// maxInitFailures times before going quiescent ( Protocol
// violation / Sticky failure).
func handleInit(c *Context, ev Event) (Mode, int32) {
	if c.quiescent() && ev&EventExtEnable == 0 {
		return ModeInit, TimeoutNever
	}
	_, err := c.Device.GetStatus()
	if err != nil {
		if c.noteInitFailure(ErrProtocolViolation) {
			return ModeInit, TimeoutNever
		}
		return ModeInit, 250
	}
	c.clearInitFailures()
	return ModeIdle, TimeoutNever
}
