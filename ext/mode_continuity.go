// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import (
	"fmt"
	"time"

	"github.com/gpib-tools/hp3478x/config"
	"github.com/gpib-tools/hp3478x/devices/hp3478a"
	"github.com/gpib-tools/hp3478x/hw"
)

// durationMs converts a millisecond option value to a time.Duration.
func durationMs(ms uint16) time.Duration { return time.Duration(ms) * time.Millisecond }

// continuityRevisit is the tight 2ms timeout continuity returns after
// processing a reading, to keep up with the instrument's ~78 rdg/s
// throughput.
const continuityRevisit int32 = 2

// enterContinuity forces the instrument into 3½-digit, autozero-off,
// DREADY-SRQ-armed continuity mode at the configured range.
func enterContinuity(c *Context) (Mode, int32) {
	rng, _ := c.Store.Get(config.OptContRange)
	if err := c.Device.Cmd(fmt.Sprintf("R%dN3Z0M21", rng)); err != nil {
		return ModeInit, 250
	}
	c.sc.lockedFunc = hp3478a.Func2WOhm
	c.sc.lockedRange = int(rng)
	c.sc.continuityLatch = 0
	c.sc.continuityBuzzerOn = false
	return ModeContinuity, TimeoutNever
}

// handleContinuity buzzes when the reading is at or below the configured
// threshold, with a latch so brief opens don't chop the tone, and exits to
// idle on a front-panel SRQ press or a detected function/range change.
func handleContinuity(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeContinuity, TimeoutNever
	}
	_, pwrsrq, frpsrq, err := c.dispatchUniversalSRQ()
	if err != nil {
		return ModeInit, 250
	}
	if pwrsrq {
		_ = c.Tone.Off()
		return c.handlePowerOnReset()
	}
	if frpsrq {
		_ = c.Tone.Off()
		return ModeIdle, TimeoutNever
	}

	st, err := c.Device.GetStatus()
	if err != nil {
		return ModeInit, 250
	}
	if st.Function != c.sc.lockedFunc || st.Range != c.sc.lockedRange {
		_ = c.Tone.Off()
		return ModeIdle, TimeoutNever
	}
	if !st.DataReady() {
		return ModeContinuity, TimeoutNever
	}

	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}

	thresh, _ := c.Store.Get(config.OptContThreshold)
	latchMax, _ := c.Store.Get(config.OptContLatch)
	loBreak, _ := c.Store.Get(config.OptContBreakLo)
	hiBreak, _ := c.Store.Get(config.OptContBreakHi)
	period, _ := c.Store.Get(config.OptBuzzerPeriod)
	duty, _ := c.Store.Get(config.OptBuzzerDuty)

	if int64(reading.Value) <= int64(thresh)*100 {
		c.sc.continuityLatch = int(latchMax)
		p := hw.Interpolate(reading.Value, int32(loBreak), int32(hiBreak),
			durationMs(period/4), durationMs(period))
		_ = c.Tone.Set(p, uint8(duty))
		c.sc.continuityBuzzerOn = true
	} else if c.sc.continuityBuzzerOn {
		c.sc.continuityLatch--
		if c.sc.continuityLatch <= 0 {
			_ = c.Tone.Off()
			c.sc.continuityBuzzerOn = false
			_ = c.Device.Display(fmt.Sprintf("THR %d", thresh), false)
		}
	}
	return ModeContinuity, continuityRevisit
}
