// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import (
	"time"
)

// Terminator is a bitmask of end-of-message conditions a Send or Receive
// call may use.
type Terminator uint8

const (
	TermCR  Terminator = 1 << 0
	TermLF  Terminator = 1 << 1
	TermEOI Terminator = 1 << 2
)

// popcount returns the number of terminator bits set, used to compute the
// expected transmitted length.
func (t Terminator) popcount() int {
	n := 0
	for t != 0 {
		n += int(t & 1)
		t >>= 1
	}
	return n
}

// StopReason is the disjunction of conditions that ended a Receive call.
type StopReason uint8

const (
	StopEOI        StopReason = 1 << 0
	StopLF         StopReason = 1 << 1
	StopCR         StopReason = 1 << 2
	StopBufferFull StopReason = 1 << 3
	StopTimeout    StopReason = 1 << 4
)

// Transport implements the byte-level IEEE-488 handshake on top of a
// Lines signal I/O layer. It has no notion of addressing; Session layers
// that on top.
type Transport struct {
	Lines *Lines

	// Now returns the current time. Overridable in tests; defaults to
	// time.Now via NewTransport.
	Now func() time.Time

	// Sleep blocks for d. Overridable in tests to avoid slowing them down;
	// defaults to time.Sleep via NewTransport.
	Sleep func(d time.Duration)

	// HandshakeTimeout bounds the NRFD/NDAC release wait on Send.
	// Defaults to HandshakeTimeoutMax.
	HandshakeTimeout time.Duration

	// ReceiveTimeout bounds the DAV wait on Receive. Defaults to the
	// package ReceiveTimeout constant.
	ReceiveTimeout time.Duration
}

// NewTransport returns a Transport wired to real time.
func NewTransport(l *Lines) *Transport {
	return &Transport{
		Lines:            l,
		Now:              time.Now,
		Sleep:            time.Sleep,
		HandshakeTimeout: HandshakeTimeoutMax,
		ReceiveTimeout:   ReceiveTimeout,
	}
}

func (t *Transport) waitFor(cond func() bool, timeout time.Duration) bool {
	deadline := t.Now().Add(timeout)
	for !cond() {
		if t.Now().After(deadline) {
			return false
		}
	}
	return true
}

// Send transmits buf over the bus, optionally appending CR and/or LF and
// asserting EOI on the last byte.
//
// Preconditions: the transport must already be configured as talker
// (Lines.ConfigureTalker) and at least one listener must be holding NRFD or
// NDAC asserted.
//
// Send returns the number of bytes successfully transmitted. On success
// this equals len(buf) plus the number of CR/LF terminator bytes appended;
// callers detect a partial send (timeout) by comparing the return value
// against that expected count.
func (t *Transport) Send(buf []byte, end Terminator) (int, error) {
	stream := make([]byte, 0, len(buf)+2)
	stream = append(stream, buf...)
	if end&TermCR != 0 {
		stream = append(stream, '\r')
	}
	if end&TermLF != 0 {
		stream = append(stream, '\n')
	}
	wantEOI := end&TermEOI != 0

	for i, b := range stream {
		last := i == len(stream)-1
		if err := t.Lines.DataPut(b); err != nil {
			return i, err
		}
		if last && wantEOI {
			if err := t.Lines.SetEOI(true); err != nil {
				return i, err
			}
		}
		t.Sleep(SettleT1)
		if !t.waitFor(func() bool { return !t.Lines.ReadNRFD() }, t.HandshakeTimeout) {
			t.abort()
			return i, nil
		}
		if err := t.Lines.SetDAV(true); err != nil {
			t.abort()
			return i, err
		}
		if !t.waitFor(func() bool { return !t.Lines.ReadNDAC() }, t.HandshakeTimeout) {
			t.abort()
			return i, nil
		}
		if err := t.Lines.SetDAV(false); err != nil {
			t.abort()
			return i, err
		}
	}
	return len(stream), nil
}

// abort releases EOI and DAV and reconfigures the data lines as inputs, the
// cleanup a timed-out Send performs before returning.
func (t *Transport) abort() {
	_ = t.Lines.SetEOI(false)
	_ = t.Lines.SetDAV(false)
	_ = t.Lines.ConfigureListener()
}

// Receive reads bytes into buf until it is full or a requested stop
// condition is observed.
//
// Precondition: the transport must already be configured as listener
// (Lines.ConfigureListener).
//
// It returns the number of bytes written into buf and the disjunction of
// stop reasons that ended the read.
func (t *Transport) Receive(buf []byte, end Terminator) (int, StopReason) {
	n := 0
	for n < len(buf) {
		if err := t.Lines.SetNRFD(false); err != nil {
			return n, StopTimeout
		}
		if !t.waitFor(t.Lines.ReadDAV, t.ReceiveTimeout) {
			return n, StopTimeout
		}
		var reason StopReason
		if err := t.Lines.SetNRFD(true); err != nil {
			return n, StopTimeout
		}
		if t.Lines.ReadEOI() && end&TermEOI != 0 {
			reason |= StopEOI
		}
		b := t.Lines.DataGet()
		buf[n] = b
		n++
		if err := t.Lines.SetNDAC(false); err != nil {
			return n, StopTimeout
		}
		if (b == '\n' && end&TermLF != 0) || (b == '\r' && end&TermCR != 0) {
			reason |= func() StopReason {
				if b == '\n' {
					return StopLF
				}
				return StopCR
			}()
		}
		if !t.waitFor(func() bool { return !t.Lines.ReadDAV() }, t.ReceiveTimeout) {
			return n, reason | StopTimeout
		}
		if err := t.Lines.SetNDAC(true); err != nil {
			return n, StopTimeout
		}
		if reason != 0 {
			return n, reason
		}
	}
	return n, StopBufferFull
}
