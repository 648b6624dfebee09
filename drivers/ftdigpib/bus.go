// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdigpib

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
)

// MPSSE command bytes, from FTDI AN_108/AN_135, issued over gousb's bulk
// endpoints rather than a vendor driver library.
const (
	mpsseClock30MHz   byte = 0x8A
	mpsseClockNormal  byte = 0x97
	mpsseClock2Phase  byte = 0x8D
	mpsseLoopbackOff  byte = 0x85
	mpsseSetLowBits   byte = 0x80 // <op>, <value>, <direction>: ADBUS (data lines)
	mpsseGetLowBits   byte = 0x81
	mpsseSetHighBits  byte = 0x82 // <op>, <value>, <direction>: ACBUS (control lines)
	mpsseGetHighBits  byte = 0x83
	mpsseSendImmed    byte = 0x87
)

// bitModeMPSSE is the bit-mode value, sent in the high byte of wValue of
// FTDI's SET_BITMODE vendor request (0x0B), that switches the chip from
// UART mode into MPSSE mode (FT232H only).
const bitModeMPSSE = 0x02

const (
	vendorFTDI  = 0x0403
	productFT232H = 0x6014
)

// Bus is a bit-banged IEEE-488 bus driven through an FT232H's MPSSE engine.
// ADBUS holds the 8 GPIB data lines; ACBUS holds the 8 control lines. Both
// bytes are maintained as (direction, value) pairs and only ever written as
// a whole byte, since the MPSSE GPIO opcodes address all 8 bits of a byte at
// once; individual Pin.Out/In calls read-modify-write the shared byte under
// mu.
type Bus struct {
	mu   sync.Mutex
	dev  *gousb.Device
	done func()
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint

	lowDir, lowVal   byte
	highDir, highVal byte
}

// openBus opens d, claims its default interface, and brings the MPSSE
// engine up with both GPIO bytes fully released (inputs), the bus's idle
// state.
func openBus(d *gousb.Device) (*Bus, error) {
	if err := d.SetAutoDetach(true); err != nil {
		return nil, fmt.Errorf("ftdigpib: auto-detach: %w", err)
	}
	intf, done, err := d.DefaultInterface()
	if err != nil {
		return nil, fmt.Errorf("ftdigpib: default interface: %w", err)
	}
	in, err := intf.InEndpoint(2)
	if err != nil {
		done()
		return nil, fmt.Errorf("ftdigpib: in endpoint: %w", err)
	}
	out, err := intf.OutEndpoint(1)
	if err != nil {
		done()
		return nil, fmt.Errorf("ftdigpib: out endpoint: %w", err)
	}
	if _, err := d.Control(0x40, 0x0B, 0, 1, nil); err != nil {
		done()
		return nil, fmt.Errorf("ftdigpib: reset bitmode: %w", err)
	}
	if _, err := d.Control(0x40, 0x0B, uint16(bitModeMPSSE)<<8, 1, nil); err != nil {
		done()
		return nil, fmt.Errorf("ftdigpib: set MPSSE bitmode: %w", err)
	}

	b := &Bus{dev: d, done: done, in: in, out: out}
	init := []byte{
		mpsseClock30MHz, mpsseClockNormal, mpsseClock2Phase, mpsseLoopbackOff,
		mpsseSetHighBits, 0x00, 0x00,
		mpsseSetLowBits, 0x00, 0x00,
	}
	if _, err := b.out.Write(init); err != nil {
		done()
		return nil, fmt.Errorf("ftdigpib: MPSSE init: %w", err)
	}
	return b, nil
}

// Close releases the underlying USB interface.
func (b *Bus) Close() error {
	b.done()
	return b.dev.Close()
}

// Descriptor returns the USB device descriptor of the adapter backing b,
// for diagnostic tools that want to report which physical adapter a
// gpib.Lines came from.
func (b *Bus) Descriptor() *gousb.DeviceDesc { return b.dev.Desc }

func (b *Bus) setLow(bit int, output, high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	mask := byte(1) << uint(bit)
	if output {
		b.lowDir |= mask
	} else {
		b.lowDir &^= mask
	}
	if high {
		b.lowVal |= mask
	} else {
		b.lowVal &^= mask
	}
	_, err := b.out.Write([]byte{mpsseSetLowBits, b.lowVal, b.lowDir})
	return err
}

func (b *Bus) setHigh(bit int, output, high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	mask := byte(1) << uint(bit)
	if output {
		b.highDir |= mask
	} else {
		b.highDir &^= mask
	}
	if high {
		b.highVal |= mask
	} else {
		b.highVal &^= mask
	}
	_, err := b.out.Write([]byte{mpsseSetHighBits, b.highVal, b.highDir})
	return err
}

func (b *Bus) readLow(bit int) (bool, error) {
	v, err := b.readByte(mpsseGetLowBits)
	if err != nil {
		return false, err
	}
	return v&(1<<uint(bit)) != 0, nil
}

func (b *Bus) readHigh(bit int) (bool, error) {
	v, err := b.readByte(mpsseGetHighBits)
	if err != nil {
		return false, err
	}
	return v&(1<<uint(bit)) != 0, nil
}

// readByte issues a GET_BITS opcode followed by SEND_IMMEDIATE and reads
// the one-byte reply back, per AN_135's synchronous GPIO read sequence.
func (b *Bus) readByte(op byte) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.out.Write([]byte{op, mpsseSendImmed}); err != nil {
		return 0, err
	}
	var buf [1]byte
	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		n, err := b.in.Read(buf[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return buf[0], nil
		}
	}
	return 0, fmt.Errorf("ftdigpib: timed out reading GPIO byte")
}
