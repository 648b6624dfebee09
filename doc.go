// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hp3478x is the root of a GPIB bridge and HP-3478A extension
// firmware, built on top of periph.io/x/periph's gpio abstractions.
//
// The module bridges a host serial line to an IEEE-488 (GPIB) bus and, when
// enabled, drives an HP-3478A multimeter through a menu of extended
// measurement modes (continuity, extended-range resistance, diode test, RTD
// temperature, relative, auto-hold, min/max) in response to the instrument's
// front-panel SRQ key.
//
// Package layout mirrors the hardware stack it models:
//
//   - gpib: the byte-level IEEE-488 transport and session layer (bit-banged
//     handshake, addressing, serial poll).
//   - devices/hp3478a: the typed 3478A protocol (commands, status, readings,
//     display, mode selection).
//   - ext: the extension event loop and its per-mode state machines.
//   - shell: the line-oriented serial command language.
//   - config: the named configuration option table and its NVRAM backing.
//   - hw: ambient peripherals (millisecond timebase, UART, buzzer, status LED).
//   - drivers/ftdigpib: a real hardware backend bit-banging the GPIB lines
//     over a USB FTDI adapter.
package hp3478x
