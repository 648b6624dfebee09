// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gpibinfo prints out information about the FTDI GPIB adapters found on
// the USB bus, scoped to drivers/ftdigpib's one adapter family.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"periph.io/x/periph/host"

	"github.com/gpib-tools/hp3478x/drivers/ftdigpib"
)

func mainImpl() error {
	verbose := flag.Bool("v", false, "verbose mode")
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

	all := ftdigpib.All()
	plural := ""
	if len(all) != 1 {
		plural = "s"
	}
	fmt.Printf("Found %d GPIB adapter%s\n", len(all), plural)
	for i, d := range all {
		desc := d.Bus.Descriptor()
		fmt.Printf("- Device #%d: %s\n", i, d)
		fmt.Printf("  Vendor ID:  %#04x\n", uint16(desc.Vendor))
		fmt.Printf("  Product ID: %#04x\n", uint16(desc.Product))
		fmt.Printf("  Bus:        %d\n", desc.Bus)
		fmt.Printf("  Address:    %d\n", desc.Address)
		fmt.Printf("  Speed:      %s\n", desc.Speed)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "gpibinfo: %s.\n", err)
		os.Exit(1)
	}
}
