// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gpibctl bridges a real GPIB bus (bit-banged through an FTDI FT232H via
// drivers/ftdigpib) to the HP-3478A extension-mode protocol on a UART, the
// Go rebuild of the original firmware's main loop. With
// -simulate it instead runs against an in-memory loopback bus, for
// development without the hardware attached. Without -serial the operator
// UART is this process's own stdio.
package main

import (
	"bufio"
	"errors"
	"flag"
	"io/ioutil"
	"log"
	"os"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/gpio/gpiotest"
	"periph.io/x/periph/host"

	"github.com/gpib-tools/hp3478x/config"
	"github.com/gpib-tools/hp3478x/devices/hp3478a"
	"github.com/gpib-tools/hp3478x/drivers/ftdigpib"
	"github.com/gpib-tools/hp3478x/ext"
	"github.com/gpib-tools/hp3478x/gpib"
	"github.com/gpib-tools/hp3478x/hw"
	"github.com/gpib-tools/hp3478x/shell"
)

// pollPeriod is how often the main loop samples the UART/SRQ/timeout
// sources when nothing else wakes it, the Go stand-in for the original
// firmware's do-while that blocks on a hardware wait.
const pollPeriod = 2 * time.Millisecond

func mainImpl() error {
	simulate := flag.Bool("simulate", false, "run against an in-memory loopback bus instead of real hardware")
	verbose := flag.Bool("v", false, "verbose logging")
	serialPort := flag.String("serial", "", "serial device for the operator UART (defaults to this process's own stdio)")
	nvramSize := flag.Int("nvram-size", 64, "size in bytes of the in-memory NVRAM")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	var lines *gpib.Lines
	if *simulate {
		lines, _ = gpib.NewLinesPair()
	} else {
		all := ftdigpib.All()
		if len(all) == 0 {
			return errors.New("gpibctl: no FTDI GPIB adapter found, try -simulate")
		}
		lines = all[0].Lines
	}

	transport := gpib.NewTransport(lines)
	store := config.NewStore(config.NewMemNVRAM(*nvramSize), config.DefaultOptions)
	if err := store.Load(); err != nil {
		log.Printf("gpibctl: config load: %v, using factory defaults", err)
	}
	convAddr, _ := store.Get(config.OptConverterAddr)
	instrAddr, _ := store.Get(config.OptInstrumentAddr)

	session := gpib.NewSession(transport, int(convAddr))
	dev := hp3478a.New(session, int(instrAddr))
	tone := hw.NewTone(namedPinOrFake("TONE"))
	led := hw.NewLED(namedPinOrFake("LED"))
	clock := &hw.Timebase{}
	ctx := ext.NewContext(dev, store, tone, led, clock)

	var uart hw.UART
	interactive := *serialPort == ""
	if interactive {
		fu := hw.NewFakeUART()
		go pumpStdin(fu)
		uart = fu
	} else {
		su, err := openSerialUART(*serialPort)
		if err != nil {
			return err
		}
		defer su.Close()
		uart = su
	}

	sh := shell.New(session, store, os.Stdout, interactive)
	sh.SRQAsserted = func() bool { return lines.ReadSRQ() }

	extEnable, _ := store.Get(config.OptExtEnable)
	if extEnable != 0 {
		ctx.Step(ext.EventExtEnable)
	}
	runMainLoop(ctx, sh, uart, clock, led)
	return nil
}

// namedPinOrFake looks up a periph pin registered under name -- wired by
// the operator's own board configuration, outside drivers/ftdigpib's
// scope, which only registers the 16 GPIB bus lines -- and falls back to
// an inert test pin so the bridge still runs with the tone generator or
// status LED unconnected.
func namedPinOrFake(name string) gpio.PinIO {
	if p := gpioreg.ByName(name); p != nil {
		return p
	}
	log.Printf("gpibctl: no pin named %q registered, %s is disabled", name, name)
	return &gpiotest.Pin{N: name}
}

// pumpStdin feeds the bridge's own stdin into fu one byte at a time, so an
// interactive operator at the terminal plays the role of the UART host
// when no real serial link is configured.
func pumpStdin(fu *hw.FakeUART) {
	r := bufio.NewReader(os.Stdin)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		fu.Feed([]byte{b})
	}
}

// runMainLoop is the bridge's event loop: compute events from the current
// UART/SRQ/timeout state and from changes of the extension-enable option,
// service the shell on UART and the extension state machine on
// SRQ/TIMEOUT/EXT_ENABLE/EXT_DISABLE, tick the status LED, and repeat. It
// never returns under normal operation.
func runMainLoop(ctx *ext.Context, sh *shell.Shell, uart hw.UART, clock *hw.Timebase, led *hw.LED) {
	var srqLatched bool
	extOn := ctx.Mode() != ext.ModeDisabled
	for {
		now := clock.Now()
		deadline, haveDeadline := ctx.Deadline()
		extOpt, _ := ctx.Store.Get(config.OptExtEnable)
		extWant := extOpt != 0
		ev := ext.ComputeEvents(ext.Inputs{
			UARTPending:    uart.Pending(),
			SRQEdgeLatched: srqLatched,
			SRQAsserted:    sh.SRQAsserted(),
			Now:            now,
			Deadline:       deadline,
			HaveDeadline:   haveDeadline,
			ExtEnableReq:   extWant && !extOn,
			ExtDisableReq:  !extWant && extOn,
		})
		extOn = extWant
		srqLatched = false

		if uart.Pending() {
			sh.Feed(uart.ReadByte())
		}
		if ev != 0 {
			ctx.Step(ev)
		}
		_ = led.Tick(now)

		time.Sleep(pollPeriod)
		clock.Advance(uint32(pollPeriod / time.Millisecond))
		if sh.SRQAsserted() {
			srqLatched = true
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("gpibctl: %s.", err)
		os.Exit(1)
	}
}
