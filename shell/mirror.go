// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
)

// DisplayMirror echoes the instrument's 12-character display to a console,
// for debugging over a plain serial link where the front panel isn't
// visible: a colored block (ansi256.Default.Block) framing plain text,
// redrawn in place with a carriage return rather than scrolling.
type DisplayMirror struct {
	w io.Writer
}

// NewDisplayMirror returns a mirror writing to w.
func NewDisplayMirror(w io.Writer) *DisplayMirror { return &DisplayMirror{w: w} }

// colorNormal and colorError are the block colors Show draws to the left
// of the mirrored text: green normally, amber when Show is told the
// display is in an error state.
var (
	colorNormal = color.NRGBA{R: 0, G: 200, B: 0, A: 255}
	colorError  = color.NRGBA{R: 220, G: 140, B: 0, A: 255}
)

// Show redraws the mirrored display text in place.
func (m *DisplayMirror) Show(text string, errored bool) {
	c := colorNormal
	if errored {
		c = colorError
	}
	fmt.Fprintf(m.w, "\r%s %-12s", ansi256.Default.Block(c), text)
}
