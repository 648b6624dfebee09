// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "github.com/gpib-tools/hp3478x/devices/hp3478a"

const (
	menuPollInterval int32 = 200
	menuTimeoutMs    int32 = 30000
	enterMenuTimeout int32 = 200
)

// menuStartEntry picks the menu's entry point from the instrument's
// function/range at the moment the menu was opened: a 2WΩ overload enters
// at the extended-Ω entry (the measured resistance is beyond the 2WΩ range,
// the same condition extended-Ω mode exists to handle), a 2WΩ non-overload
// starts at continuity, extended-Ω starts there, everything else starts at
// auto-hold.
func menuStartEntry(st hp3478a.Status, lastOverload bool) menuEntry {
	switch {
	case st.Function == hp3478a.Func2WOhm && lastOverload:
		return menuExtOhm
	case st.Function == hp3478a.Func2WOhm:
		return menuContinuity
	case st.Function == hp3478a.FuncExtOhm:
		return menuExtOhm
	default:
		return menuAutohold
	}
}

func (c *Context) armMenuProbe() {
	_ = c.Device.Display("M: "+c.sc.menuPos.label(), false)
	_ = c.Device.InduceSyntaxError()
	c.sc.lastSYNERR = true
}

// handleMenu shows the current entry, advances the cursor on FRPSRQ, and
// selects the highlighted entry when a SYNERR probe is silently rejected
// by LOCAL.
func handleMenu(c *Context, ev Event) (Mode, int32) {
	if !c.sc.menuArmed {
		c.sc.menuPos = menuStartEntry(c.sc.savedStatus, false)
		c.sc.menuElapsedMs = 0
		c.sc.menuArmed = true
		c.armMenuProbe()
		return ModeMenu, menuPollInterval
	}

	if ev&EventTimeout != 0 {
		c.sc.menuElapsedMs += menuPollInterval
	}

	if ev&EventSRQ != 0 {
		sb, pwrsrq, frpsrq, err := c.dispatchUniversalSRQ()
		_ = sb
		if err == nil {
			if pwrsrq {
				c.sc.menuArmed = false
				return c.handlePowerOnReset()
			}
			if frpsrq {
				c.sc.menuPos = (c.sc.menuPos + 1) % menuCount
				c.sc.menuElapsedMs = 0
				c.armMenuProbe()
				return ModeMenu, menuPollInterval
			}
		}
	}

	st, err := c.Device.GetStatus()
	if err == nil {
		if c.sc.lastSYNERR && !st.SyntaxError() {
			c.sc.menuArmed = false
			return c.enterSelectedMenuEntry()
		}
		c.sc.lastSYNERR = st.SyntaxError()
	}

	if c.sc.menuElapsedMs >= menuTimeoutMs {
		c.sc.menuArmed = false
		return ModeIdle, TimeoutNever
	}
	return ModeMenu, menuPollInterval
}

// enterSelectedMenuEntry dispatches to the mode the highlighted menu entry
// names
func (c *Context) enterSelectedMenuEntry() (Mode, int32) {
	switch c.sc.menuPos {
	case menuContinuity:
		return enterContinuity(c)
	case menuExtOhm:
		c.sc.haveExtRef = false
		return ModeExtOhm, TimeoutNever
	case menuDiode:
		return enterDiode(c)
	case menuAutohold:
		c.sc.stableCount = 0
		c.sc.haveLast = false
		return ModeAutoholdTracking, TimeoutNever
	case menuMinMax:
		c.sc.haveMinMax = false
		c.sc.minMaxDisplay = 0
		return ModeMinMax, TimeoutNever
	case menuTemperature:
		return ModeTemperature, TimeoutNever
	case menuPresetSave:
		m := statusToMode(c.sc.savedStatus)
		c.persistedInitialMode = &m
		return ModeIdle, TimeoutNever
	case menuPresetLoad:
		if c.persistedInitialMode != nil {
			_ = c.Device.SetMode(*c.persistedInitialMode)
		}
		return ModeIdle, TimeoutNever
	default:
		return ModeIdle, TimeoutNever
	}
}

// statusToMode converts an observed Status back into the Mode value
// SetMode accepts, used by the menu's preset-save entry.
func statusToMode(st hp3478a.Status) hp3478a.Mode {
	trig := hp3478a.TriggerInternal
	if st.ExternalTrigger() {
		trig = hp3478a.TriggerExternal
	}
	return hp3478a.Mode{
		Function:  st.Function,
		Range:     st.Range,
		Digits:    st.Digits,
		Trigger:   trig,
		AutoZero:  st.HasMode(hp3478a.ModeAutoZero),
		AutoRange: st.HasMode(hp3478a.ModeAutoRange),
	}
}
