// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config implements the named-option configuration store and its
// flat byte-addressed persistent layout.
package config

import "fmt"

// NVRAM is a flat byte-addressed nonvolatile store with bounded reads and
// writes, generalized from a fixed EEPROM struct layout to an arbitrary
// byte-addressed region so any option table can be laid over it.
//
// An unwritten byte reads as 0xFF.
type NVRAM interface {
	ReadByte(addr int) (byte, error)
	WriteByte(addr int, v byte) error
	Size() int
}

// memNVRAM is an in-memory NVRAM, used by cmd/gpibctl and by
// tests; a real backend would read/write a hardware EEPROM over the
// FTDI/GPIB link instead.
type memNVRAM struct {
	data []byte
}

// NewMemNVRAM returns an in-memory NVRAM of the given size, every byte
// starting unwritten (0xFF).
func NewMemNVRAM(size int) NVRAM {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return &memNVRAM{data: data}
}

func (m *memNVRAM) Size() int { return len(m.data) }

func (m *memNVRAM) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr >= len(m.data) {
		return 0, fmt.Errorf("config: nvram read: address %d out of range [0,%d)", addr, len(m.data))
	}
	return m.data[addr], nil
}

func (m *memNVRAM) WriteByte(addr int, v byte) error {
	if addr < 0 || addr >= len(m.data) {
		return fmt.Errorf("config: nvram write: address %d out of range [0,%d)", addr, len(m.data))
	}
	m.data[addr] = v
	return nil
}
