// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gpibterm is a minimal serial terminal for talking to a gpibctl bridge's
// UART from a workstation. It is a development aid, not part of the core
// protocol: it just copies bytes between the serial port and the
// operator's own stdio.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	serial "github.com/daedaluz/goserial"
)

var baudRates = map[int]serial.CFlag{
	115200:  serial.B115200,
	921600:  serial.B921600,
	1000000: serial.B1000000,
	2000000: serial.B2000000,
}

func mainImpl() error {
	baud := flag.Int("baud", 115200, "baud rate (115200, 921600, 1000000 or 2000000)")
	flag.Parse()
	if flag.NArg() != 1 {
		return errors.New("usage: gpibterm [-baud rate] <serial-device>")
	}
	speed, ok := baudRates[*baud]
	if !ok {
		return fmt.Errorf("gpibterm: unsupported baud rate %d", *baud)
	}

	port, err := serial.Open(flag.Arg(0), nil)
	if err != nil {
		return fmt.Errorf("gpibterm: open %s: %w", flag.Arg(0), err)
	}
	defer port.Close()
	if err := port.MakeRaw(); err != nil {
		return fmt.Errorf("gpibterm: configure %s: %w", flag.Arg(0), err)
	}
	attrs, err := port.GetAttr()
	if err != nil {
		return err
	}
	attrs.SetSpeed(speed)
	if err := port.SetAttr(serial.TCSANOW, attrs); err != nil {
		return fmt.Errorf("gpibterm: set baud: %w", err)
	}

	fmt.Fprintf(os.Stderr, "gpibterm: connected to %s at %d baud, Ctrl-C to exit\n", flag.Arg(0), *baud)

	done := make(chan error, 2)
	go func() {
		_, err := io.Copy(port, os.Stdin)
		done <- err
	}()
	go func() {
		_, err := io.Copy(os.Stdout, port)
		done <- err
	}()
	return <-done
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "gpibterm: %s.\n", err)
		os.Exit(1)
	}
}
