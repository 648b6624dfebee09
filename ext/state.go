// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ext implements the HP-3478A extension-mode event loop and its
// nested per-mode state machines.
package ext

import (
	"github.com/gpib-tools/hp3478x/config"
	"github.com/gpib-tools/hp3478x/devices/hp3478a"
	"github.com/gpib-tools/hp3478x/hw"
)

// Mode is the extension machine's single enumerated state
type Mode int

const (
	ModeDisabled Mode = iota
	ModeInit
	ModeIdle
	ModeRelSettle
	ModeRelActive
	ModeMenu
	ModeExtOhm
	ModeContinuity
	ModeMinMax
	ModeAutoholdTracking
	ModeAutoholdLocked
	ModeDiode
	ModeTemperature
)

func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeInit:
		return "init"
	case ModeIdle:
		return "idle"
	case ModeRelSettle:
		return "rel-settle"
	case ModeRelActive:
		return "rel-active"
	case ModeMenu:
		return "menu"
	case ModeExtOhm:
		return "ext-ohm"
	case ModeContinuity:
		return "continuity"
	case ModeMinMax:
		return "minmax"
	case ModeAutoholdTracking:
		return "autohold-tracking"
	case ModeAutoholdLocked:
		return "autohold-locked"
	case ModeDiode:
		return "diode"
	case ModeTemperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// menuEntry is one stop of the front-panel menu cycle
type menuEntry int

const (
	menuContinuity menuEntry = iota
	menuExtOhm
	menuDiode
	menuAutohold
	menuMinMax
	menuTemperature
	menuPresetSave
	menuPresetLoad
	menuCount
)

func (e menuEntry) label() string {
	switch e {
	case menuContinuity:
		return "CONT"
	case menuExtOhm:
		return "XOHM"
	case menuDiode:
		return "DIODE"
	case menuAutohold:
		return "AUTOHOLD"
	case menuMinMax:
		return "MINMAX"
	case menuTemperature:
		return "TEMP"
	case menuPresetSave:
		return "SAVE"
	case menuPresetLoad:
		return "LOAD"
	default:
		return "?"
	}
}

// scratch holds the per-mode working state that exists only while its
// owning mode is active.
type scratch struct {
	savedStatus hp3478a.Status

	refReading hp3478a.Reading

	minReading, maxReading hp3478a.Reading
	haveMinMax             bool
	minMaxDisplay          int // 0=live, 1=min, 2=max

	stableCount int
	lastStable  hp3478a.Reading
	haveLast    bool

	extOhmRef  hp3478a.Reading
	haveExtRef bool

	menuPos       menuEntry
	menuArmed     bool // a syntax-error probe command was sent, awaiting SYNERR clear
	lastSYNERR    bool
	menuElapsedMs int32

	continuityLatch    int
	continuityBuzzerOn bool

	// lockedFunc/lockedRange record the function/range a mode entered
	// with, so it can detect a front-panel function/range change and
	// exit; shared by continuity and auto-hold-locked, never both at once.
	lockedFunc  hp3478a.Function
	lockedRange int
}

// errorTrail encodes the last error code at each of four nesting levels,
// for the sticky-failure display "E:HHHHHHHH".
type errorTrail [4]byte

func (e errorTrail) String() string {
	const hex = "0123456789ABCDEF"
	b := make([]byte, 0, 10)
	b = append(b, 'E', ':')
	for _, v := range e {
		b = append(b, hex[v>>4], hex[v&0xf])
	}
	return string(b)
}

// Context is the extension machine's long-lived state: the instrument
// handle, configuration store, hardware surfaces and the single mode
// enum plus its scratch, all threaded through the event loop as one value.
type Context struct {
	Device *hp3478a.Device
	Store  *config.Store
	Tone   *hw.Tone
	LED    *hw.LED
	Clock  *hw.Timebase

	mode         Mode
	sc           scratch
	deadline     uint32
	haveDeadline bool

	initFailures int
	trail        errorTrail

	persistedInitialMode *hp3478a.Mode
}

// NewContext returns a Context in the disabled state.
func NewContext(dev *hp3478a.Device, store *config.Store, tone *hw.Tone, led *hw.LED, clock *hw.Timebase) *Context {
	return &Context{Device: dev, Store: store, Tone: tone, LED: led, Clock: clock, mode: ModeDisabled}
}

// Mode returns the current extension mode.
func (c *Context) Mode() Mode { return c.mode }

// recordError appends code to the trail at level (0 = outermost), for the
// sticky-failure display.
func (c *Context) recordError(level int, code byte) {
	if level < 0 || level >= len(c.trail) {
		return
	}
	c.trail[level] = code
}
