// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sync"
	"time"

	serial "github.com/daedaluz/goserial"

	"github.com/gpib-tools/hp3478x/hw"
)

// serialUART adapts a real serial port (the bridge's operator-facing link,
// distinct from the GPIB bus itself) to hw.UART's non-blocking
// Pending/ReadByte contract. A background goroutine drains the port into
// an internal buffer, the same split hw.FakeUART uses between its queue
// and Feed.
type serialUART struct {
	port *serial.Port

	mu sync.Mutex
	rx []byte
}

// openSerialUART opens path (e.g. "/dev/ttyUSB1") as the bridge's UART.
func openSerialUART(path string) (*serialUART, error) {
	opts := serial.NewOptions().SetReadTimeout(5 * time.Millisecond)
	p, err := serial.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("gpibctl: open serial %s: %w", path, err)
	}
	if err := p.MakeRaw(); err != nil {
		p.Close()
		return nil, fmt.Errorf("gpibctl: configure serial %s: %w", path, err)
	}
	u := &serialUART{port: p}
	go u.readLoop()
	return u, nil
}

func (u *serialUART) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := u.port.Read(buf)
		if err != nil {
			if err == serial.ErrClosed {
				return
			}
			continue
		}
		if n > 0 {
			u.mu.Lock()
			u.rx = append(u.rx, buf[:n]...)
			u.mu.Unlock()
		}
	}
}

func (u *serialUART) Pending() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.rx) > 0
}

func (u *serialUART) ReadByte() byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	b := u.rx[0]
	u.rx = u.rx[1:]
	return b
}

func (u *serialUART) WriteByte(b byte) error {
	_, err := u.port.Write([]byte{b})
	return err
}

// baudSpeed maps the bits-per-second values hw.UART.SetBaud receives
// (hw.Baud115200 etc) onto the termios CFlag constants goserial expects.
func baudSpeed(bps int) (serial.CFlag, bool) {
	switch bps {
	case hw.Baud115200:
		return serial.B115200, true
	case hw.Baud500k:
		// No exact B500000 constant; 921600 is the closest standard rate
		// goserial exposes, used as an approximation for the 500k option.
		return serial.B921600, true
	case hw.Baud1M:
		return serial.B1000000, true
	case hw.Baud2M:
		return serial.B2000000, true
	default:
		return 0, false
	}
}

func (u *serialUART) SetBaud(bps int) error {
	speed, ok := baudSpeed(bps)
	if !ok {
		return fmt.Errorf("gpibctl: unsupported baud rate %d", bps)
	}
	attrs, err := u.port.GetAttr()
	if err != nil {
		return err
	}
	attrs.SetSpeed(speed)
	return u.port.SetAttr(serial.TCSANOW, attrs)
}

func (u *serialUART) Close() error { return u.port.Close() }

var _ hw.UART = (*serialUART)(nil)
