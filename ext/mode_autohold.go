// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import (
	"fmt"

	"github.com/gpib-tools/hp3478x/devices/hp3478a"
)

// autoholdStableCount and autoholdStableWindow are the "N consecutive
// readings within D LSBs" lock criteria: lock after 5 consecutive readings
// whose pairwise difference is strictly less than 3 LSBs of each other,
// above a function-dependent noise floor.
const (
	autoholdStableCount  = 5
	autoholdStableWindow = 3
)

// withinStableWindow reports whether two readings' raw values differ by
// strictly less than autoholdStableWindow LSBs.
func withinStableWindow(a, b hp3478a.Reading) bool {
	diff := hp3478a.Sub(a, b).Value
	if diff < 0 {
		diff = -diff
	}
	return diff < autoholdStableWindow
}

// autoholdFloor is the minimum absolute reading, per function, below which
// auto-hold will not lock -- guards against locking onto residual noise
// around zero.
func autoholdFloor(fn hp3478a.Function) float64 {
	switch fn {
	case hp3478a.FuncDCV, hp3478a.FuncACV:
		return 0.0005
	case hp3478a.FuncDCA, hp3478a.FuncACA:
		return 0.00005
	case hp3478a.Func2WOhm, hp3478a.Func4WOhm:
		return 1.0
	case hp3478a.FuncExtOhm:
		return 100.0
	default:
		return 0
	}
}

// handleAutoholdTracking watches incoming readings for the stability
// window and transitions to the locked state once it's satisfied.
func handleAutoholdTracking(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeAutoholdTracking, TimeoutNever
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
		return ModeAutoholdTracking, TimeoutNever
	}
	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		c.sc.stableCount = 0
		c.sc.haveLast = false
		return ModeAutoholdTracking, TimeoutNever
	}

	floor := autoholdFloor(st.Function)
	v := reading.Float64()
	if v < 0 {
		v = -v
	}
	if v < floor {
		c.sc.stableCount = 0
		c.sc.haveLast = false
		_ = c.Device.Display(reading.Display(), false)
		return ModeAutoholdTracking, TimeoutNever
	}

	if c.sc.haveLast && withinStableWindow(reading, c.sc.lastStable) {
		c.sc.stableCount++
	} else {
		c.sc.stableCount = 1
	}
	c.sc.lastStable = reading
	c.sc.haveLast = true

	if c.sc.stableCount >= autoholdStableCount {
		c.sc.lockedFunc = st.Function
		c.sc.lockedRange = st.Range
		_ = c.Device.Display(fmt.Sprintf("%s=", reading.Display()), false)
		_ = c.Tone.Set(durationMs(100), 128)
		return ModeAutoholdLocked, 150
	}
	_ = c.Device.Display(reading.Display(), false)
	return ModeAutoholdTracking, TimeoutNever
}

// handleAutoholdLocked holds the last locked display until the function or
// range changes, or a fresh reading falls outside the lock window, at
// which point it resumes tracking.
func handleAutoholdLocked(c *Context, ev Event) (Mode, int32) {
	if ev&EventTimeout != 0 {
		_ = c.Tone.Off()
	}
	if ev&EventSRQ == 0 {
		return ModeAutoholdLocked, TimeoutNever
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
		c.sc.stableCount = 0
		c.sc.haveLast = false
		return ModeAutoholdTracking, TimeoutNever
	}
	if !st.DataReady() {
		return ModeAutoholdLocked, TimeoutNever
	}
	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		c.sc.stableCount = 0
		c.sc.haveLast = false
		return ModeAutoholdTracking, TimeoutNever
	}
	if !withinStableWindow(reading, c.sc.lastStable) {
		c.sc.stableCount = 0
		c.sc.haveLast = false
		return ModeAutoholdTracking, TimeoutNever
	}
	return ModeAutoholdLocked, TimeoutNever
}
