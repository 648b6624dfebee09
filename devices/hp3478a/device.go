// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hp3478a

import (
	"fmt"
	"strings"

	"github.com/gpib-tools/hp3478x/gpib"
)

// DisplayWidth is the instrument's front-panel display field width.
const DisplayWidth = 12

// Device is the typed HP-3478A protocol layer on top of a gpib.Session.
// It corresponds to the instrument's own command set: cmd, read,
// get_srq_status, get_status, get_reading, display and set_mode.
type Device struct {
	Session *gpib.Session
	Addr    int
}

// New returns a Device talking to the instrument at addr over s.
func New(s *gpib.Session, addr int) *Device {
	return &Device{Session: s, Addr: addr}
}

// Cmd sends a raw ASCII command string to the instrument, for command
// forms the typed API above doesn't model.
func (d *Device) Cmd(s string) error { return d.cmd(s) }

// cmd sends an ASCII command string to the instrument.
func (d *Device) cmd(s string) error {
	_, err := d.Session.SendCommand(d.Addr, []byte(s), gpib.TermLF)
	if err != nil {
		return fmt.Errorf("hp3478a: cmd %q: %w", s, err)
	}
	return nil
}

// read reads up to len(buf) bytes of ASCII response from the instrument.
func (d *Device) read(buf []byte) (int, error) {
	n, _, err := d.Session.Read(d.Addr, buf, gpib.TermLF|gpib.TermEOI)
	if err != nil {
		return 0, fmt.Errorf("hp3478a: read: %w", err)
	}
	return n, nil
}

// GetSRQStatus serial-polls the instrument and returns the status byte.
func (d *Device) GetSRQStatus() (byte, error) {
	b, err := d.Session.SerialPoll(d.Addr)
	if err != nil {
		return 0, fmt.Errorf("hp3478a: get_srq_status: %w", err)
	}
	return b, nil
}

// GetStatus issues B and reads the 5-byte status record.
func (d *Device) GetStatus() (Status, error) {
	if err := d.cmd("B"); err != nil {
		return Status{}, err
	}
	var buf [5]byte
	n, err := d.read(buf[:])
	if err != nil {
		return Status{}, err
	}
	if n != 5 {
		return Status{}, fmt.Errorf("hp3478a: get_status: expected 5 bytes, got %d", n)
	}
	return ParseStatus(buf[:])
}

// GetReading reads and parses one ASCII reading.
func (d *Device) GetReading() (Reading, error) {
	var buf [32]byte
	n, err := d.read(buf[:])
	if err != nil {
		return Reading{}, err
	}
	return ParseReading(string(buf[:n]))
}

// Display writes s to the instrument's display.
// hideAnnunciators selects the D3 form, which blanks the annunciator row;
// D2 is used otherwise. s is space-padded to DisplayWidth; longer strings
// are rejected.
func (d *Device) Display(s string, hideAnnunciators bool) error {
	if len(s) > DisplayWidth {
		return fmt.Errorf("hp3478a: display string %q longer than %d chars", s, DisplayWidth)
	}
	s = s + strings.Repeat(" ", DisplayWidth-len(s))
	verb := "D2"
	if hideAnnunciators {
		verb = "D3"
	}
	return d.cmd(verb + s)
}

// Trigger selects the source the instrument acts on for triggering.
type Trigger int

const (
	TriggerInternal Trigger = iota
	TriggerExternal
	TriggerSingle
	TriggerHold
)

// Mode is the desired instrument configuration set by SetMode, the Go
// analog of the 3478A status byte 0/1 pair that set_mode()
// translates into a textual command.
type Mode struct {
	Function Function
	Range    int // meaning is Function-dependent, see rangeLetter
	Digits   Digits
	Trigger  Trigger
	AutoZero bool
	AutoRange bool
}

// rangeLetter translates (function, range) into the 3478A's R command
// argument: the range letter depends on the function (current uses -1, 0;
// ACV uses -1, 0..3; DCV uses -3..-1, 0..2; resistance uses 0..7).
func rangeLetter(fn Function, autoRange bool, rng int) (string, error) {
	if autoRange {
		return "A", nil
	}
	switch fn {
	case FuncDCA, FuncACA:
		if rng < -1 || rng > 0 {
			return "", fmt.Errorf("hp3478a: range %d out of bounds for current function", rng)
		}
		return fmt.Sprintf("%d", rng), nil
	case FuncACV:
		if rng < -1 || rng > 3 {
			return "", fmt.Errorf("hp3478a: range %d out of bounds for ACV", rng)
		}
		return fmt.Sprintf("%d", rng), nil
	case FuncDCV:
		if rng < -3 || rng > 2 {
			return "", fmt.Errorf("hp3478a: range %d out of bounds for DCV", rng)
		}
		return fmt.Sprintf("%d", rng), nil
	case Func2WOhm, Func4WOhm, FuncExtOhm:
		if rng < 0 || rng > 7 {
			return "", fmt.Errorf("hp3478a: range %d out of bounds for resistance", rng)
		}
		return fmt.Sprintf("%d", rng), nil
	default:
		return "", fmt.Errorf("hp3478a: unknown function %d", fn)
	}
}

func functionDigit(fn Function) (byte, error) {
	switch fn {
	case FuncDCV:
		return '1', nil
	case FuncACV:
		return '2', nil
	case Func2WOhm:
		return '3', nil
	case Func4WOhm:
		return '4', nil
	case FuncDCA:
		return '5', nil
	case FuncACA:
		return '6', nil
	case FuncExtOhm:
		return '7', nil
	default:
		return 0, fmt.Errorf("hp3478a: unknown function %d", fn)
	}
}

func digitsLetter(d Digits) byte {
	switch d {
	case Digits5Half:
		return '5'
	case Digits4Half:
		return '4'
	default:
		return '3'
	}
}

func triggerDigit(t Trigger) byte {
	switch t {
	case TriggerExternal:
		return '2'
	case TriggerSingle:
		return '3'
	case TriggerHold:
		return '4'
	default:
		return '1'
	}
}

func boolDigit(b bool) byte {
	if b {
		return '1'
	}
	return '0'
}

// command translates m into the "F_ R__ N_ Z_ T_" command string the
// instrument accepts; SetMode sends it.
func (m Mode) command() (string, error) {
	rl, err := rangeLetter(m.Function, m.AutoRange, m.Range)
	if err != nil {
		return "", err
	}
	fd, err := functionDigit(m.Function)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "F%c", fd)
	fmt.Fprintf(&b, "R%s", rl)
	fmt.Fprintf(&b, "N%c", digitsLetter(m.Digits))
	fmt.Fprintf(&b, "Z%c", boolDigit(m.AutoZero))
	fmt.Fprintf(&b, "T%c", triggerDigit(m.Trigger))
	return b.String(), nil
}

// SetMode configures the instrument's function, range, digits, trigger and
// autozero in one command.
func (d *Device) SetMode(m Mode) error {
	cmd, err := m.command()
	if err != nil {
		return fmt.Errorf("hp3478a: set_mode: %w", err)
	}
	return d.cmd(cmd)
}

// InduceSyntaxError sends a deliberately invalid command so that the next
// status read shows SYNERR, the menu machine's LOCAL-key detection probe:
// issue a syntactically invalid command so that the next B will show
// SYNERR; if a later poll shows SYNERR cleared, LOCAL was pressed.
func (d *Device) InduceSyntaxError() error {
	return d.cmd("Q9")
}

// SetSRQMask sends the M command configuring which status bits assert SRQ.
func (d *Device) SetSRQMask(mask byte) error {
	return d.cmd(fmt.Sprintf("M%02d", mask))
}

// ClearSRQ sends K, clearing SRQ. This is slower than a serial poll but
// deterministic: callers must wait SRQClearSettle before trusting a
// subsequent SRQ sample.
func (d *Device) ClearSRQ() error {
	return d.cmd("K")
}
