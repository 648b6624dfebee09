// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

// handleIdle waits for the front-panel SRQ key:
// external-trigger mode means the user wants relative (capture the
// reference reading); internal-trigger with no reading pending waits up
// to 1.8s for one in rel-settle (see handleRelSettle), then enters
// auto-hold; an overload reading skips relative straight to auto-hold;
// anything else opens the menu.
func handleIdle(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeIdle, TimeoutNever
	}
	sb, pwrsrq, frpsrq, err := c.dispatchUniversalSRQ()
	if err != nil {
		return ModeInit, 250
	}
	if pwrsrq {
		return c.handlePowerOnReset()
	}
	if !frpsrq {
		return ModeIdle, TimeoutNever
	}
	_ = sb

	st, err := c.Device.GetStatus()
	if err != nil {
		return ModeInit, 250
	}
	c.sc.savedStatus = st

	if !st.DataReady() {
		if st.InternalTrigger() {
			return ModeRelSettle, 1800
		}
		return ModeMenu, enterMenuTimeout
	}

	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		return ModeAutoholdTracking, TimeoutNever
	}
	if st.ExternalTrigger() {
		c.sc.refReading = reading
		return ModeRelActive, TimeoutNever
	}
	return ModeMenu, enterMenuTimeout
}
