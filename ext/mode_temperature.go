// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import (
	"fmt"
	"math"
)

// Callendar-Van Dusen coefficients for the standard Pt1000 RTD probe:
// R(T) = R0*(1 + A*T + B*T^2) for T >= 0.
const (
	ctdA  = 3.908e-3
	ctdB  = -5.8019e-7
	ctdR0 = 1000.0
)

// rtdTemperature inverts the Callendar-Van Dusen quadratic for T given a
// measured resistance r: "T = (-R0*A + sqrt(R0^2*A^2 -
// 4*R0*B*(R0 - r))) / (2*R0*B)".
func rtdTemperature(r float64) float64 {
	disc := ctdR0*ctdR0*ctdA*ctdA - 4*ctdR0*ctdB*(ctdR0-r)
	return (-ctdR0*ctdA + math.Sqrt(disc)) / (2 * ctdR0 * ctdB)
}

// handleTemperature takes each reading as the RTD probe's resistance in
// ohms and displays the inverted Callendar-Van Dusen temperature. Entering
// this mode sends no function/range command; the instrument is read in
// whatever function the user has selected. Unlike the
// original firmware, which reports the mode's display update as always
// succeeding regardless of what the display() call actually returned,
// the outcome here is taken from Display's own error.
func handleTemperature(c *Context, ev Event) (Mode, int32) {
	if ev&EventSRQ == 0 {
		return ModeTemperature, TimeoutNever
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
		return ModeTemperature, TimeoutNever
	}
	reading, err := c.Device.GetReading()
	if err != nil {
		return ModeInit, 250
	}
	if reading.Overload() {
		if err := c.Device.Display("OPEN", false); err != nil {
			return ModeInit, 250
		}
		return ModeTemperature, TimeoutNever
	}

	t := rtdTemperature(reading.Float64())
	if err := c.Device.Display(fmt.Sprintf("%.1f C", t), false); err != nil {
		return ModeInit, 250
	}
	return ModeTemperature, TimeoutNever
}
