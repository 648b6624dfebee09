// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdigpib is a periph.Driver backend that drives an IEEE-488 bus
// bit-banged through an FTDI FT232H's MPSSE engine over USB, using
// github.com/google/gousb in place of the vendor d2xx library. It registers
// the 8 GPIB control lines and the 8 data lines as gpio.PinIO so gpib.Lines
// can be built the same way regardless of whether the backend is this
// hardware driver or gpib.NewLinesPair's in-memory simulation.
//
// ADBUS (the MPSSE "low byte") carries the 8 data lines D1-D8; ACBUS (the
// "high byte") carries the 8 control lines, in the order ATN, REN, IFC, EOI,
// DAV, NRFD, NDAC, SRQ.
package ftdigpib
