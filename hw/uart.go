// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hw

import "sync"

// UART is a byte-oriented FIFO serial port: non-blocking reads of a
// pending byte and non-blocking writes "UART driver
// (byte-oriented FIFO with TX/RX, escape-char detection)". A real backend
// wraps a host serial device (see cmd/gpibctl's serialUART, built on
// github.com/daedaluz/goserial); FakeUART backs tests and cmd/gpibctl when
// no -serial device is given.
type UART interface {
	// Pending reports whether a received byte is available.
	Pending() bool
	// ReadByte returns the next received byte. It must only be called when
	// Pending reports true.
	ReadByte() byte
	// WriteByte queues b for transmission.
	WriteByte(b byte) error
	// SetBaud reconfigures the line rate; requires callers to
	// settle at least BaudRateSettle after this before trusting the link.
	SetBaud(bps int) error
}

// FakeUART is an in-memory UART backed by two byte queues, for tests and
// the simulated bridge.
type FakeUART struct {
	mu  sync.Mutex
	rx  []byte
	tx  []byte
	baud int
}

// NewFakeUART returns an empty FakeUART.
func NewFakeUART() *FakeUART { return &FakeUART{baud: Baud115200} }

// Baud rate codes in bits per second, mirroring config.Baud115200 etc.
const (
	Baud115200 = 115200
	Baud500k   = 500000
	Baud1M     = 1000000
	Baud2M     = 2000000
)

func (f *FakeUART) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rx) > 0
}

func (f *FakeUART) ReadByte() byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.rx[0]
	f.rx = f.rx[1:]
	return b
}

func (f *FakeUART) WriteByte(b byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tx = append(f.tx, b)
	return nil
}

func (f *FakeUART) SetBaud(bps int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.baud = bps
	return nil
}

// Baud returns the last configured baud rate.
func (f *FakeUART) Baud() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.baud
}

// Feed appends bytes as if received from the host, for tests driving the
// shell layer.
func (f *FakeUART) Feed(b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rx = append(f.rx, b...)
}

// Written drains and returns everything written so far, for test
// assertions.
func (f *FakeUART) Written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.tx
	f.tx = nil
	return out
}

var _ UART = (*FakeUART)(nil)
