// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/gpib-tools/hp3478x/config"
	"github.com/gpib-tools/hp3478x/gpib"
)

// prompt is the interactive-mode prompt string: <GPIB>, with local echo
// and line editing (left/right, backspace, up/down history).
const prompt = "\033[36m<GPIB>\033[0m "

// Shell is the line-edited ASCII command protocol exposed on the
// firmware's UART. It owns no transport of its own: bytes arrive one at a
// time via Feed and responses are written to Out, so the caller is free
// to wire it to a real UART, a fake one, or (via NewConsoleShell) the
// operator's terminal for local testing.
type Shell struct {
	Session *gpib.Session
	Store   *config.Store
	History *History
	Editor  *LineEditor
	Out     io.Writer

	// Interactive selects the prompt/echo: non-interactive mode has
	// neither.
	Interactive bool

	// StopRequested, if set, lets the long-running P command exit on a
	// pending operator ESC instead of only on a bus stop condition.
	StopRequested func() bool
	// SRQAsserted, if set, supplies the live SRQ line level for the S
	// command's status bits.
	SRQAsserted func() bool
}

// New returns a Shell over the given GPIB session and configuration store,
// writing its responses (and, if interactive, its prompt and local echo)
// to out.
func New(s *gpib.Session, store *config.Store, out io.Writer, interactive bool) *Shell {
	h := NewHistory()
	echo, _ := store.Get(config.OptEcho)
	sh := &Shell{
		Session:     s,
		Store:       store,
		History:     h,
		Editor:      NewLineEditor(h, out, interactive && echo != 0),
		Out:         out,
		Interactive: interactive,
	}
	if interactive {
		fmt.Fprint(out, prompt)
	}
	return sh
}

// NewConsoleShell wires a Shell to the operator's own terminal, using
// go-colorable for Windows-safe ANSI output and go-isatty to decide
// whether interactive mode (prompt, echo) makes sense.
func NewConsoleShell(s *gpib.Session, store *config.Store) *Shell {
	out := colorable.NewColorableStdout()
	interactive := isatty.IsTerminal(os.Stdout.Fd())
	return New(s, store, out, interactive)
}

// Feed processes one byte received from the UART. When it completes a
// command line it dispatches the command, writes the response, and
// reprints the prompt in interactive mode.
func (sh *Shell) Feed(b byte) {
	line, ready := sh.Editor.Feed(b)
	if !ready {
		return
	}
	sh.History.Add(line)
	resp := sh.Dispatch(line)
	if resp != "" {
		fmt.Fprint(sh.Out, resp)
	}
	fmt.Fprint(sh.Out, "\r\n")
	if sh.Interactive {
		fmt.Fprint(sh.Out, prompt)
	}
}
