// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "fmt"

// handleExtOhm calibrates against the first reading after entry (assumed
// to be a known ~10 MΩ reference resistor) and thereafter computes the
// resistance under test from the parallel-divider relationship:
// R = ref*r / (ref - r); if ref <= r + 100, show OVLD GOHM; else display
// with auto-selected decade.
func handleExtOhm(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeExtOhm, TimeoutNever
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
		return ModeExtOhm, TimeoutNever
	}
	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		return ModeExtOhm, TimeoutNever
	}
	if !c.sc.haveExtRef {
		c.sc.extOhmRef = reading
		c.sc.haveExtRef = true
		_ = c.Device.Display("CAL 10M", false)
		return ModeExtOhm, TimeoutNever
	}

	ref := c.sc.extOhmRef.Float64()
	r := reading.Float64()
	if ref <= r+100 {
		_ = c.Device.Display("OVLD GOHM", false)
		return ModeExtOhm, TimeoutNever
	}
	ohms := ref * r / (ref - r)
	_ = c.Device.Display(formatOhms(ohms), false)
	return ModeExtOhm, TimeoutNever
}

// formatOhms auto-selects Ω/kΩ/MΩ "display with
// auto-selected decade".
func formatOhms(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.2fMOHM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fKOHM", v/1e3)
	default:
		return fmt.Sprintf("%.2fOHM", v)
	}
}
