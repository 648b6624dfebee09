// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "fmt"

// diodeRange is the DCV range forced on diode-test entry.
const diodeRange = -1

// enterDiode forces the instrument into DCV 3 V range with DREADY-SRQ
// armed, mirroring enterContinuity's forced-mode entry.
func enterDiode(c *Context) (Mode, int32) {
	if err := c.Device.Cmd(fmt.Sprintf("F1R%dN3Z0M21", diodeRange)); err != nil {
		return ModeInit, 250
	}
	return ModeDiode, TimeoutNever
}

// handleDiode reads the forced-DCV-3V-range measurement and shows it as a
// forward-voltage-drop reading: display the reading as x.xxx V, show
// ">3 V" on overload.
func handleDiode(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeDiode, TimeoutNever
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
		return ModeDiode, TimeoutNever
	}
	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		_ = c.Device.Display(">3 V", false)
		return ModeDiode, TimeoutNever
	}
	_ = c.Device.Display(fmt.Sprintf("%.3f V", reading.Float64()), false)
	return ModeDiode, TimeoutNever
}
