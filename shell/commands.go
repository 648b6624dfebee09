// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shell

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/gpib-tools/hp3478x/gpib"
)

// Dispatch parses and runs one command line grammar,
// and returns the response line (without its trailing CRLF -- Shell.Feed
// appends that). It never panics or propagates an error: "the shell never
// throws -- wrong commands are local UI errors" ( Policy).
func (sh *Shell) Dispatch(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	upper := strings.ToUpper(line)
	switch {
	case strings.HasPrefix(upper, "THC"):
		return sh.cmdTHC(line[3:])
	case strings.HasPrefix(upper, "THD"):
		return sh.cmdTHD(line[3:])
	case strings.HasPrefix(upper, "TBD"):
		return sh.cmdTBD()
	case upper == "?":
		return sh.cmdHelp()
	case upper[0] == 'C':
		return sh.cmdC(line[1:])
	case upper[0] == 'D':
		return sh.cmdD(line[1:])
	case upper[0] == 'P':
		return sh.cmdP()
	case upper[0] == 'R':
		return sh.cmdR()
	case upper[0] == 'L':
		return sh.cmdL()
	case upper[0] == 'I':
		return sh.cmdI()
	case upper[0] == 'S':
		return sh.cmdS()
	case upper[0] == 'O':
		return sh.cmdO(line[1:])
	case upper[0] == 'H':
		return sh.cmdH()
	default:
		return "ERROR"
	}
}

// trimLeadingSpace strips exactly one separating space, the convention
// between a command letter and its argument ("C <ascii>").
func trimLeadingSpace(s string) string {
	if len(s) > 0 && s[0] == ' ' {
		return s[1:]
	}
	return s
}

func (sh *Shell) cmdC(arg string) string {
	arg = trimLeadingSpace(arg)
	n, err := sh.Session.SendBusCommand([]byte(arg))
	if err != nil {
		return fmt.Sprintf("TIMEOUT %d", n)
	}
	return "OK"
}

func (sh *Shell) cmdD(arg string) string {
	arg = trimLeadingSpace(arg)
	if sh.Session.Phase() == gpib.PhaseControllerIsListener {
		buf := make([]byte, 256)
		n, reason := sh.Session.ReceiveDataRaw(buf, gpib.TermLF|gpib.TermEOI)
		if reason&gpib.StopTimeout != 0 {
			return fmt.Sprintf("TIMEOUT %d", n)
		}
		return string(buf[:n])
	}
	n, err := sh.Session.SendDataRaw([]byte(arg), gpib.TermLF)
	if err != nil {
		return fmt.Sprintf("TIMEOUT %d", n)
	}
	return "OK"
}

func (sh *Shell) cmdTHC(arg string) string {
	raw, err := hex.DecodeString(strings.TrimSpace(arg))
	if err != nil {
		return "ERROR"
	}
	n, err := sh.Session.SendBusCommand(raw)
	if err != nil {
		return fmt.Sprintf("TIMEOUT %d", n)
	}
	return "OK"
}

func (sh *Shell) cmdTHD(arg string) string {
	arg = strings.TrimSpace(arg)
	suppressEOI := strings.HasSuffix(arg, ";")
	if suppressEOI {
		arg = arg[:len(arg)-1]
	}
	if sh.Session.Phase() == gpib.PhaseControllerIsListener {
		buf := make([]byte, 256)
		n, reason := sh.Session.ReceiveDataRaw(buf, gpib.TermLF|gpib.TermEOI)
		if reason&gpib.StopTimeout != 0 {
			return fmt.Sprintf("TIMEOUT %d", n)
		}
		return strings.ToUpper(hex.EncodeToString(buf[:n]))
	}
	raw, err := hex.DecodeString(arg)
	if err != nil {
		return "ERROR"
	}
	end := gpib.Terminator(0)
	if !suppressEOI {
		end = gpib.TermEOI
	}
	n, err := sh.Session.SendDataRaw(raw, end)
	if err != nil {
		return fmt.Sprintf("TIMEOUT %d", n)
	}
	return "OK"
}

// tbdFrameMax is the largest single-frame payload TBD can tag, since the
// length byte's high bit is reserved for the EOI flag.
const tbdFrameMax = 0x7f

// cmdTBD streams the bus as length-prefixed binary frames until EOI (or a
// read error) ends the transfer, terminated by a zero-length frame
// ( `TBD`).
func (sh *Shell) cmdTBD() string {
	var out strings.Builder
	buf := make([]byte, tbdFrameMax)
	for {
		n, reason := sh.Session.ReceiveDataRaw(buf, gpib.TermEOI)
		if n > 0 {
			lenByte := byte(n)
			if reason&gpib.StopEOI != 0 {
				lenByte |= 0x80
			}
			out.WriteByte(lenByte)
			out.Write(buf[:n])
		}
		if reason&(gpib.StopEOI|gpib.StopTimeout) != 0 || n == 0 {
			break
		}
	}
	out.WriteByte(0)
	return out.String()
}

// cmdP streams single bytes from the bus to the UART until EOI, ESC from
// the operator, or an error ( `P`).
func (sh *Shell) cmdP() string {
	var out strings.Builder
	buf := make([]byte, 1)
	for {
		if sh.StopRequested != nil && sh.StopRequested() {
			break
		}
		n, reason := sh.Session.ReceiveDataRaw(buf, gpib.TermEOI)
		if n == 0 {
			break
		}
		out.WriteByte(buf[0])
		if reason&(gpib.StopEOI|gpib.StopTimeout) != 0 {
			break
		}
	}
	return out.String()
}

func (sh *Shell) cmdR() string {
	if err := sh.Session.SetREN(true); err != nil {
		return "ERROR"
	}
	return "OK"
}

func (sh *Shell) cmdL() string {
	if err := sh.Session.SetREN(false); err != nil {
		return "ERROR"
	}
	return "OK"
}

func (sh *Shell) cmdI() string {
	if err := sh.Session.PulseIFC(); err != nil {
		return "ERROR"
	}
	return "OK"
}

// cmdS prints three ASCII digits: REN asserted, SRQ asserted, and whether
// the controller currently holds the listener role ( `S`).
func (sh *Shell) cmdS() string {
	ren := 0
	if sh.Session.RENAsserted() {
		ren = 1
	}
	srq := 0
	if sh.SRQAsserted != nil && sh.SRQAsserted() {
		srq = 1
	}
	listening := 0
	if sh.Session.Phase() == gpib.PhaseControllerIsListener {
		listening = 1
	}
	return fmt.Sprintf("%d%d%d", ren, srq, listening)
}

// cmdO implements the `O<opt>[val[w]]` option get/set grammar, where
// `<opt>` is the option's single-letter code (X=ext enable, C=converter
// address, ...; see the Opt* constants in config). `O0`/`O1` with no value
// are the factory-default shortcuts: O0 resets the live values only
// (interactive use, re-entered by hand), O1 also persists them
// (non-interactive/unattended boot).
func (sh *Shell) cmdO(arg string) string {
	if arg == "0" || arg == "1" {
		if err := sh.Store.ResetFactoryDefaults(arg == "1"); err != nil {
			return "ERROR"
		}
		return "OK"
	}
	name, val, hasVal, persist, ok := parseOptionArg(strings.ToUpper(arg))
	if !ok {
		return "ERROR"
	}
	if _, ok := sh.Store.Def(name); !ok {
		return "ERROR"
	}
	if !hasVal {
		v, err := sh.Store.Get(name)
		if err != nil {
			return "ERROR"
		}
		return strconv.Itoa(int(v))
	}
	if err := sh.Store.Set(name, val, persist); err != nil {
		return "ERROR"
	}
	return "OK"
}

// parseOptionArg splits "<name>[<digits>[w]]" into its parts.
func parseOptionArg(arg string) (name string, val uint16, hasVal, persist, ok bool) {
	i := 0
	for i < len(arg) && (arg[i] < '0' || arg[i] > '9') {
		i++
	}
	name = arg[:i]
	if name == "" {
		return "", 0, false, false, false
	}
	rest := arg[i:]
	if rest == "" {
		return name, 0, false, false, true
	}
	if last := rest[len(rest)-1]; last == 'w' || last == 'W' {
		persist = true
		rest = rest[:len(rest)-1]
	}
	n, err := strconv.ParseUint(rest, 10, 16)
	if err != nil {
		return "", 0, false, false, false
	}
	return name, uint16(n), true, persist, true
}

func (sh *Shell) cmdH() string {
	var out strings.Builder
	for i, line := range sh.History.All() {
		fmt.Fprintf(&out, "%d: %s\r\n", i, line)
	}
	return strings.TrimSuffix(out.String(), "\r\n")
}

func (sh *Shell) cmdHelp() string {
	return strings.Join([]string{
		"C <ascii>       send GPIB command bytes",
		"D <ascii>       send/receive data",
		"THC <hex>       send GPIB command from hex",
		"THD <hex>[;]    send/receive data as hex",
		"TBD             receive as length-prefixed binary frames",
		"P               plotter-mode continuous receive, ESC exits",
		"R               assert REN",
		"L               release REN",
		"I               pulse IFC",
		"S               print REN/SRQ/listener-state bits",
		"O<opt>[val[w]]  get or set a configuration option (X,E,C,A,M,B,N,P,Y,T,R,L,G,H)",
		"H               list command history",
		"?               this text",
	}, "\r\n")
}
