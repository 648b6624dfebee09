// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "github.com/gpib-tools/hp3478x/devices/hp3478a"

// handleMinMax tracks the minimum and maximum of incoming readings,
// ignoring overloads, and cycles the display live -> min -> max on each
// front-panel SRQ press.
func handleMinMax(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeMinMax, TimeoutNever
	}
	_, pwrsrq, frpsrq, err := c.dispatchUniversalSRQ()
	if err != nil {
		return ModeInit, 250
	}
	if pwrsrq {
		return c.handlePowerOnReset()
	}
	if frpsrq {
		c.sc.minMaxDisplay = (c.sc.minMaxDisplay + 1) % 3
		c.showMinMax()
		return ModeMinMax, TimeoutNever
	}

	st, err := c.Device.GetStatus()
	if err != nil {
		return ModeInit, 250
	}
	if !st.DataReady() {
		return ModeMinMax, TimeoutNever
	}
	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		return ModeMinMax, TimeoutNever
	}

	if !c.sc.haveMinMax {
		c.sc.minReading = reading
		c.sc.maxReading = reading
		c.sc.haveMinMax = true
	} else {
		if hp3478a.Cmp(reading, c.sc.minReading) < 0 {
			c.sc.minReading = reading
		}
		if hp3478a.Cmp(reading, c.sc.maxReading) > 0 {
			c.sc.maxReading = reading
		}
	}
	if c.sc.minMaxDisplay == 0 {
		_ = c.Device.Display(reading.Display(), false)
	}
	return ModeMinMax, TimeoutNever
}

// showMinMax redraws the currently-selected min/max/live slot.
func (c *Context) showMinMax() {
	switch c.sc.minMaxDisplay {
	case 1:
		_ = c.Device.Display(c.sc.minReading.Display()+" MIN", false)
	case 2:
		_ = c.Device.Display(c.sc.maxReading.Display()+" MAX", false)
	}
}
