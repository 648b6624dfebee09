// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "github.com/gpib-tools/hp3478x/hw"

// Event is a bitmask of the sources the main loop multiplexes.
type Event int

const (
	EventUART Event = 1 << iota
	EventSRQ
	EventTimeout
	EventExtEnable
	EventExtDisable
)

// Inputs is the snapshot of raw signals ComputeEvents reduces to an Event
// mask.
type Inputs struct {
	UARTPending   bool
	SRQEdgeLatched bool // set by the SRQ pin-change interrupt
	SRQAsserted   bool // current level, used to debounce the latched edge
	Now           uint32
	Deadline      uint32
	HaveDeadline  bool // false means "never": timeout can't fire
	ExtEnableReq  bool
	ExtDisableReq bool
}

// ComputeEvents reduces raw inputs to the event mask for one iteration: SRQ
// if the SRQ edge latch is set and SRQ is currently asserted (rising-edge
// filtering debounces ribbon-cable cross-talk), TIMEOUT if now >= deadline
// (16-bit wrap-safe signed comparison).
func ComputeEvents(in Inputs) Event {
	var e Event
	if in.UARTPending {
		e |= EventUART
	}
	if in.SRQEdgeLatched && in.SRQAsserted {
		e |= EventSRQ
	}
	if in.HaveDeadline && hw.Ms16After(uint16(in.Now), uint16(in.Deadline)) {
		e |= EventTimeout
	}
	if in.ExtEnableReq {
		e |= EventExtEnable
	}
	if in.ExtDisableReq {
		e |= EventExtDisable
	}
	return e
}
