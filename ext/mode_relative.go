// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "github.com/gpib-tools/hp3478x/devices/hp3478a"

// handleRelSettle waits up to 1.8s for a pending reading to become ready,
// then enters auto-hold, whether a reading arrived or the wait timed out.
// A front-panel SRQ press while settling cancels back to idle.
func handleRelSettle(c *Context, ev Event) (Mode, int32) {
	if ev&EventTimeout != 0 {
		return ModeAutoholdTracking, TimeoutNever
	}
	if ev&EventSRQ == 0 {
		return ModeRelSettle, TimeoutContinue
	}
	_, pwrsrq, frpsrq, err := c.dispatchUniversalSRQ()
	if err != nil {
		return ModeInit, 250
	}
	if pwrsrq {
		return c.handlePowerOnReset()
	}
	if frpsrq {
		return ModeIdle, TimeoutNever
	}
	st, err := c.Device.GetStatus()
	if err != nil {
		return ModeInit, 250
	}
	if !st.DataReady() {
		return ModeRelSettle, TimeoutContinue
	}
	if _, err := c.Device.GetReading(); err != nil {
		return ModeInit, 250
	}
	c.sc.stableCount = 0
	c.sc.haveLast = false
	return ModeAutoholdTracking, TimeoutNever
}

// handleRelActive redisplays each new reading relative to the captured
// reference, with a trailing '*' mark, until a second front-panel SRQ
// press returns to idle.
func handleRelActive(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeRelActive, TimeoutNever
	}
	_, pwrsrq, frpsrq, err := c.dispatchUniversalSRQ()
	if err != nil {
		return ModeInit, 250
	}
	if pwrsrq {
		return c.handlePowerOnReset()
	}
	if frpsrq {
		return ModeIdle, TimeoutNever
	}
	st, err := c.Device.GetStatus()
	if err != nil {
		return ModeInit, 250
	}
	if !st.DataReady() {
		return ModeRelActive, TimeoutNever
	}
	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		_ = c.Device.Display("OVLD", false)
		return ModeRelActive, TimeoutNever
	}
	rel := hp3478a.Sub(reading, c.sc.refReading)
	_ = c.Device.Display(rel.Display()+"*", false)
	return ModeRelActive, TimeoutNever
}
