// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import "fmt"

// Width is the wire width of an option's stored value
type Width int

const (
	Width8 Width = iota
	Width16
)

func (w Width) bytes() int {
	if w == Width16 {
		return 2
	}
	return 1
}

// Option is a named configuration option: declared type, maximum, factory
// default, and NVRAM address. NVAddr is -1 for an option that
// is never persisted.
type Option struct {
	Name    string
	Width   Width
	Max     uint16
	Default uint16
	NVAddr  int
}

// Names of the options for the O command. Each is the single uppercase
// letter that follows O on the wire (O<opt>[val[w]]), e.g. OX1 enables the
// extension and OC25w sets and persists the converter address. X and C are
// fixed by the command grammar's own worked examples; the rest are chosen
// to be distinct and mnemonic.
const (
	OptExtEnable      = "X"
	OptEcho           = "E"
	OptConverterAddr  = "C"
	OptInstrumentAddr = "A"
	OptEOLMask        = "M"
	OptBaudRate       = "B"
	OptInitialMode    = "N"
	OptBuzzerPeriod   = "P"
	OptBuzzerDuty     = "Y"
	OptContThreshold  = "T"
	OptContRange      = "R"
	OptContLatch      = "L"
	OptContBreakLo    = "G"
	OptContBreakHi    = "H"
)

// EOL mask bits
const (
	EOLBitCR  = 1 << 0
	EOLBitLF  = 1 << 1
	EOLBitEOI = 1 << 2
)

// Baud rate codes: 0,2,3,4 map to 115200/500k/1M/2M.
const (
	Baud115200 = 0
	Baud500k   = 2
	Baud1M     = 3
	Baud2M     = 4
)

// DefaultOptions is the factory option table NVRAM
// addresses are assigned densely in declaration order; widths follow the
// option's declared maximum.
var DefaultOptions = buildDefaultOptions()

func buildDefaultOptions() []Option {
	defs := []struct {
		name    string
		width   Width
		max     uint16
		deflt   uint16
	}{
		{OptExtEnable, Width8, 1, 0},
		{OptEcho, Width8, 1, 1},
		{OptConverterAddr, Width8, 30, 21},
		{OptInstrumentAddr, Width8, 31, 9},
		{OptEOLMask, Width8, 7, EOLBitLF},
		{OptBaudRate, Width8, 4, Baud115200},
		{OptInitialMode, Width16, 0xFFFF, 0},
		{OptBuzzerPeriod, Width16, 0xFFFF, 100},
		{OptBuzzerDuty, Width8, 255, 128},
		{OptContThreshold, Width16, 0xFFFF, 100},
		{OptContRange, Width8, 7, 1},
		{OptContLatch, Width8, 255, 10},
		{OptContBreakLo, Width16, 0xFFFF, 10},
		{OptContBreakHi, Width16, 0xFFFF, 1000},
	}
	out := make([]Option, len(defs))
	addr := 0
	for i, d := range defs {
		out[i] = Option{Name: d.name, Width: d.width, Max: d.max, Default: d.deflt, NVAddr: addr}
		addr += d.width.bytes()
	}
	return out
}

// Store holds the live value of every option, backed by an NVRAM for
// persistence.
type Store struct {
	defs  map[string]Option
	order []string
	live  map[string]uint16
	nv    NVRAM
}

// NewStore returns a Store with every option at its factory default and
// not yet loaded from nv.
func NewStore(nv NVRAM, opts []Option) *Store {
	s := &Store{defs: map[string]Option{}, nv: nv, live: map[string]uint16{}}
	for _, o := range opts {
		s.defs[o.Name] = o
		s.order = append(s.order, o.Name)
		s.live[o.Name] = o.Default
	}
	return s
}

// Names returns the option names in declaration order.
func (s *Store) Names() []string { return s.order }

// Def returns the declaration of a named option.
func (s *Store) Def(name string) (Option, bool) {
	o, ok := s.defs[name]
	return o, ok
}

// Get returns an option's current live value.
func (s *Store) Get(name string) (uint16, error) {
	o, ok := s.defs[name]
	if !ok {
		return 0, fmt.Errorf("config: unknown option %q", name)
	}
	return s.live[o.Name], nil
}

// Set validates v against the option's maximum and updates the live value.
// A write that falls outside [0, max] is rejected and the live value is
// left unchanged. When persist is true the value is additionally written
// to NVRAM.
func (s *Store) Set(name string, v uint16, persist bool) error {
	o, ok := s.defs[name]
	if !ok {
		return fmt.Errorf("config: unknown option %q", name)
	}
	if v > o.Max {
		return fmt.Errorf("config: value %d for %q exceeds max %d", v, name, o.Max)
	}
	s.live[o.Name] = v
	if persist {
		return s.writeNV(o, v)
	}
	return nil
}

func (s *Store) writeNV(o Option, v uint16) error {
	if o.Width == Width16 {
		if err := s.nv.WriteByte(o.NVAddr, byte(v)); err != nil {
			return err
		}
		return s.nv.WriteByte(o.NVAddr+1, byte(v>>8))
	}
	return s.nv.WriteByte(o.NVAddr, byte(v))
}

func (s *Store) readNV(o Option) (uint16, bool, error) {
	lo, err := s.nv.ReadByte(o.NVAddr)
	if err != nil {
		return 0, false, err
	}
	if o.Width == Width8 {
		if lo == 0xFF {
			return 0, false, nil
		}
		return uint16(lo), true, nil
	}
	hi, err := s.nv.ReadByte(o.NVAddr + 1)
	if err != nil {
		return 0, false, err
	}
	if lo == 0xFF && hi == 0xFF {
		return 0, false, nil
	}
	return uint16(lo) | uint16(hi)<<8, true, nil
}

// Load reads every option from NVRAM, falling back to the factory default
// when the stored bytes are all-0xFF (unwritten) or the decoded value
// exceeds the option's maximum.
func (s *Store) Load() error {
	for _, name := range s.order {
		o := s.defs[name]
		v, present, err := s.readNV(o)
		if err != nil {
			return fmt.Errorf("config: load %q: %w", name, err)
		}
		if !present || v > o.Max {
			s.live[name] = o.Default
			continue
		}
		s.live[name] = v
	}
	return nil
}

// ResetFactoryDefaults applies every option's factory default, optionally
// persisting them -- the O0/O1 shortcuts' implementation.
func (s *Store) ResetFactoryDefaults(persist bool) error {
	for _, name := range s.order {
		o := s.defs[name]
		s.live[name] = o.Default
		if persist {
			if err := s.writeNV(o, o.Default); err != nil {
				return fmt.Errorf("config: reset %q: %w", name, err)
			}
		}
	}
	return nil
}
