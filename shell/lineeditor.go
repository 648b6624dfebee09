// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shell

import "io"

// escape-sequence recognizer states (: "ESC followed by [ and
// one of A/B/C/D is an arrow key").
const (
	escNone = iota
	escSawESC
	escSawBracket
)

// LineEditor assembles UART bytes into CR-terminated command lines, with
// backspace, left/right cursor motion and up/down history recall. It is
// driven one byte at a time by Shell.Feed.
type LineEditor struct {
	History *History
	Out     io.Writer // nil disables local echo entirely
	Echo    bool

	buf     []byte
	cursor  int
	escSt   int
	histPos int // -1 = not currently browsing history
}

// NewLineEditor returns an editor backed by h, echoing to out when echo is
// true.
func NewLineEditor(h *History, out io.Writer, echo bool) *LineEditor {
	return &LineEditor{History: h, Out: out, Echo: echo, histPos: -1}
}

func (e *LineEditor) echo(b ...byte) {
	if e.Echo && e.Out != nil {
		_, _ = e.Out.Write(b)
	}
}

// Feed processes one received byte. It returns (line, true) once a
// terminator completes a command line; line never includes the terminator.
func (e *LineEditor) Feed(b byte) (string, bool) {
	if e.escSt == escSawESC {
		if b == '[' {
			e.escSt = escSawBracket
		} else {
			e.escSt = escNone
		}
		return "", false
	}
	if e.escSt == escSawBracket {
		e.escSt = escNone
		e.handleArrow(b)
		return "", false
	}

	switch {
	case b == '\r' || b == '\n':
		line := string(e.buf)
		e.reset()
		e.echo('\r', '\n')
		return line, true
	case b == 0x1b: // ESC
		e.escSt = escSawESC
		return "", false
	case b == 0x08 || b == 0x7f: // backspace/DEL
		e.backspace()
		return "", false
	default:
		e.insert(b)
		return "", false
	}
}

func (e *LineEditor) reset() {
	e.buf = e.buf[:0]
	e.cursor = 0
	e.histPos = -1
}

func (e *LineEditor) insert(b byte) {
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:len(e.buf)-1])
	e.buf[e.cursor] = b
	e.cursor++
	e.echo(b)
}

func (e *LineEditor) backspace() {
	if e.cursor == 0 {
		return
	}
	copy(e.buf[e.cursor-1:], e.buf[e.cursor:])
	e.buf = e.buf[:len(e.buf)-1]
	e.cursor--
	e.echo(0x08, ' ', 0x08)
}

// handleArrow dispatches the four arrow keys
func (e *LineEditor) handleArrow(code byte) {
	switch code {
	case 'A': // up
		e.recall(e.histPos + 1)
	case 'B': // down
		if e.histPos > 0 {
			e.recall(e.histPos - 1)
		} else if e.histPos == 0 {
			e.replaceBuf("")
			e.histPos = -1
		}
	case 'C': // right
		if e.cursor < len(e.buf) {
			e.cursor++
			e.echo(0x1b, '[', 'C')
		}
	case 'D': // left
		if e.cursor > 0 {
			e.cursor--
			e.echo(0x1b, '[', 'D')
		}
	}
}

func (e *LineEditor) recall(i int) {
	if e.History == nil {
		return
	}
	line, ok := e.History.At(i)
	if !ok {
		return
	}
	e.histPos = i
	e.replaceBuf(line)
}

// replaceBuf redraws the line in place: backspace over the old content,
// then print the new content.
func (e *LineEditor) replaceBuf(s string) {
	for range e.buf {
		e.echo(0x08, ' ', 0x08)
	}
	e.buf = []byte(s)
	e.cursor = len(e.buf)
	e.echo(e.buf...)
}
