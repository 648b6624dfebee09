// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpib

import (
	"fmt"
)

// Bus command bytes (sent under ATN).
const (
	cmdUNL byte = '_' // Unlisten
	cmdUNT byte = '?' // Untalk
	cmdSPE byte = 0x18
	cmdSPD byte = 0x19
)

// Phase is the GPIB session phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseControllerIsTalker
	PhaseControllerIsListener
)

// Session manages addressing, ATN/REN and serial poll on top of a
// Transport.
//
// Invariant: addressing is recomputed lazily on every operation and a
// re-address is skipped when the bus is already addressed correctly.
type Session struct {
	Transport *Transport

	phase        Phase
	renAsserted  bool
	talker       int // currently addressed talker, -1 if none
	listener     int // currently addressed listener, -1 if none
	myAddr       int // the controller's own GPIB address, used for serial poll
}

// NewSession returns a Session with nothing addressed and REN released.
func NewSession(t *Transport, myAddr int) *Session {
	return &Session{Transport: t, phase: PhaseIdle, talker: -1, listener: -1, myAddr: myAddr}
}

// Phase returns the current session phase.
func (s *Session) Phase() Phase { return s.phase }

// RENAsserted reports whether REN is currently asserted.
func (s *Session) RENAsserted() bool { return s.renAsserted }

// SetREN asserts or releases REN.
func (s *Session) SetREN(assertIt bool) error {
	if err := s.Transport.Lines.SetREN(assertIt); err != nil {
		return fmt.Errorf("gpib: set REN: %w", err)
	}
	s.renAsserted = assertIt
	return nil
}

// PulseIFC asserts IFC for IFCPulse then releases it, resetting all
// devices' bus state, the shell's I command.
func (s *Session) PulseIFC() error {
	if err := s.Transport.Lines.SetIFC(true); err != nil {
		return err
	}
	s.Transport.Sleep(IFCPulse)
	if err := s.Transport.Lines.SetIFC(false); err != nil {
		return err
	}
	s.talker, s.listener = -1, -1
	s.phase = PhaseIdle
	return nil
}

// release tears the session down to untalked state with ATN and REN
// released, on any failure path.
func (s *Session) release() {
	_ = s.Transport.Lines.SetATN(false)
	_ = s.SetREN(false)
	s.phase = PhaseIdle
	s.talker, s.listener = -1, -1
}

// withATN asserts ATN, waits T7, runs fn, and always releases ATN
// afterwards -- a scoped-acquisition wrapper in place of the original
// firmware's goto-based cleanup.
func (s *Session) withATN(fn func() error) error {
	if err := s.Transport.Lines.SetATN(true); err != nil {
		return err
	}
	s.Transport.Sleep(SettleT7)
	err := fn()
	if e2 := s.Transport.Lines.SetATN(false); err == nil {
		err = e2
	}
	return err
}

func (s *Session) sendCommandBytes(b ...byte) error {
	if err := s.Transport.Lines.ConfigureTalker(); err != nil {
		return err
	}
	n, err := s.Transport.Send(b, 0)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("gpib: command byte handshake timed out after %d/%d bytes", n, len(b))
	}
	return nil
}

// AddressTalkListen addresses talker and listener under ATN, skipping the
// bus command phase entirely when the bus is already correctly addressed.
func (s *Session) AddressTalkListen(talker, listener int) error {
	if s.talker == talker && s.listener == listener {
		return nil
	}
	err := s.withATN(func() error {
		if err := s.sendCommandBytes(talkAddress(talker), listenAddress(listener)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.release()
		return fmt.Errorf("gpib: address talk=%d listen=%d: %w", talker, listener, err)
	}
	s.talker, s.listener = talker, listener
	return nil
}

// Untalk sends UNT under ATN, invalidating the cached talker address.
func (s *Session) Untalk() error {
	err := s.withATN(func() error { return s.sendCommandBytes(cmdUNT) })
	if err != nil {
		s.release()
		return err
	}
	s.talker = -1
	return nil
}

// Unlisten sends UNL under ATN, invalidating the cached listener address.
func (s *Session) Unlisten() error {
	err := s.withATN(func() error { return s.sendCommandBytes(cmdUNL) })
	if err != nil {
		s.release()
		return err
	}
	s.listener = -1
	return nil
}

// SendBusCommand asserts ATN, sends data as raw bus-command bytes with no
// terminator, and releases ATN, the shell's `C`/`THC` commands: send
// bytes as a GPIB command (ATN asserted), no EOI. This bypasses
// addressing entirely -- the caller is responsible for constructing valid
// talk/listen/secondary address bytes themselves, since the shell's C/THC
// commands are a raw escape hatch, not the typed SendCommand/Read path.
func (s *Session) SendBusCommand(data []byte) (int, error) {
	var n int
	err := s.withATN(func() error {
		if e := s.Transport.Lines.ConfigureTalker(); e != nil {
			return e
		}
		var e error
		n, e = s.Transport.Send(data, 0)
		if e == nil && n != len(data) {
			e = fmt.Errorf("gpib: bus command handshake timed out after %d/%d bytes", n, len(data))
		}
		return e
	})
	if err != nil {
		s.release()
		return n, err
	}
	return n, nil
}

// SendDataRaw writes data on the bus without addressing, for the shell's
// `D`/`THD` commands when the controller is currently the talker:
// "otherwise send as data". The caller must have already addressed
// the bus (e.g. via SendBusCommand or a prior SendCommand/Read).
func (s *Session) SendDataRaw(data []byte, end Terminator) (int, error) {
	if err := s.Transport.Lines.ConfigureTalker(); err != nil {
		return 0, err
	}
	n, err := s.Transport.Send(data, end)
	if err != nil {
		s.release()
		return n, err
	}
	s.phase = PhaseControllerIsTalker
	return n, nil
}

// ReceiveDataRaw reads data off the bus without addressing, for the
// shell's `D`/`THD` commands when the controller is currently the
// listener: "if controller is listener, read until EOL/EOI and echo".
// The caller must have already addressed the bus.
func (s *Session) ReceiveDataRaw(buf []byte, end Terminator) (int, StopReason) {
	if err := s.Transport.Lines.ConfigureListener(); err != nil {
		return 0, StopTimeout
	}
	n, reason := s.Transport.Receive(buf, end)
	s.phase = PhaseControllerIsListener
	return n, reason
}

// talkAddress/listenAddress compute the IEEE-488 talk/listen address bytes
// for primary address addr (0-30).
func talkAddress(addr int) byte   { return 0x40 | byte(addr&0x1f) }
func listenAddress(addr int) byte { return 0x20 | byte(addr&0x1f) }

// SendCommand sends an ASCII command to target as listener, with ATN
// asserted for addressing and released for the data. A trailing LF is
// appended unless suppressed by the caller via end.
func (s *Session) SendCommand(target int, data []byte, end Terminator) (int, error) {
	if err := s.AddressTalkListen(s.myAddr, target); err != nil {
		return 0, err
	}
	if err := s.Transport.Lines.ConfigureTalker(); err != nil {
		s.release()
		return 0, err
	}
	n, err := s.Transport.Send(data, end)
	if err != nil {
		s.release()
		return n, err
	}
	s.phase = PhaseControllerIsTalker
	return n, nil
}

// Read addresses target as talker and the controller as listener, then
// reads into buf until end or buf is full.
func (s *Session) Read(target int, buf []byte, end Terminator) (int, StopReason, error) {
	if err := s.AddressTalkListen(target, s.myAddr); err != nil {
		return 0, 0, err
	}
	if err := s.Transport.Lines.ConfigureListener(); err != nil {
		s.release()
		return 0, 0, err
	}
	n, reason := s.Transport.Receive(buf, end)
	s.phase = PhaseControllerIsListener
	return n, reason, nil
}

// SerialPoll performs a serial poll of target: SPE, talker=target,
// listener=controller (all under ATN), one status byte received, SPD,
// untalk.
func (s *Session) SerialPoll(target int) (byte, error) {
	err := s.withATN(func() error {
		if err := s.sendCommandBytes(cmdSPE); err != nil {
			return err
		}
		return s.sendCommandBytes(talkAddress(target), listenAddress(s.myAddr))
	})
	if err != nil {
		s.release()
		return 0, err
	}
	s.talker, s.listener = target, s.myAddr

	if err := s.Transport.Lines.ConfigureListener(); err != nil {
		s.release()
		return 0, err
	}
	var buf [1]byte
	n, reason := s.Transport.Receive(buf[:], TermEOI)
	if n != 1 {
		s.release()
		return 0, fmt.Errorf("gpib: serial poll: expected 1 status byte, got %d (stop=%#x)", n, reason)
	}

	if err := s.withATN(func() error {
		if err := s.sendCommandBytes(cmdSPD); err != nil {
			return err
		}
		return s.sendCommandBytes(cmdUNT)
	}); err != nil {
		s.release()
		return 0, err
	}
	s.talker = -1
	return buf[0], nil
}
