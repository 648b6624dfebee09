// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hp3478a implements the typed HP-3478A protocol layer on top of
// gpib.Session: commands, status, readings, display and mode selection.
package hp3478a

import (
	"fmt"
	"strconv"
	"strings"
)

// OverloadExp is the decimal exponent the instrument uses to signal an
// out-of-range reading, the overload sentinel.
const OverloadExp = 9

// width is the fixed digit width a Reading.Value is considered to occupy:
// the 3478A always reports 7 significant digits on the wire
// ("±d.ddddddE±e"), so Dot (0..6, from the MSD) plus this constant fully
// determines how many of those digits sit after the decimal point,
// independent of Value's actual magnitude.
const width = 7

// Reading is a signed integer value scaled by a decimal exponent, with a
// display decimal-point position.
//
// The represented number is Value * 10^(Dot+Exp-width). Invariant: Dot+Exp
// uniquely identifies the numeric scale and is the alignment key used for
// arithmetic between readings -- width is a fixed global constant so it
// drops out of any scale comparison between two Readings.
type Reading struct {
	Value int32 // -9,999,999 .. 9,999,999
	Dot   int8  // decimal point position, 0..6, counted from the MSD
	Exp   int8  // decimal exponent, typically one of -3, 0, 3, 6, 9
}

// Overload reports whether r is the overload sentinel.
func (r Reading) Overload() bool { return r.Exp == OverloadExp }

// scale returns Dot+Exp, the alignment key.
func (r Reading) scale() int8 { return r.Dot + r.Exp }

// Float64 returns the reading's numeric value. Overload readings have no
// well-defined numeric value; callers must check Overload() first.
func (r Reading) Float64() float64 {
	return float64(r.Value) * pow10(float64(r.Dot)+float64(r.Exp)-width)
}

func pow10(e float64) float64 {
	v := 1.0
	neg := e < 0
	if neg {
		e = -e
	}
	for i := 0.0; i < e; i++ {
		v *= 10
	}
	if neg {
		return 1 / v
	}
	return v
}

// ParseReading parses the ASCII format the 3478A emits for a reading,
// "±d.ddddddE±e".
func ParseReading(s string) (Reading, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reading{}, fmt.Errorf("hp3478a: empty reading")
	}
	ei := strings.IndexAny(s, "Ee")
	if ei < 0 {
		return Reading{}, fmt.Errorf("hp3478a: reading %q has no exponent", s)
	}
	mantissa := s[:ei]
	expPart := s[ei+1:]
	exp, err := strconv.Atoi(expPart)
	if err != nil {
		return Reading{}, fmt.Errorf("hp3478a: reading %q: bad exponent: %w", s, err)
	}

	neg := false
	m := mantissa
	if len(m) > 0 && (m[0] == '+' || m[0] == '-') {
		neg = m[0] == '-'
		m = m[1:]
	}
	dot := strings.IndexByte(m, '.')
	digits := m
	dotPos := len(m)
	if dot >= 0 {
		digits = m[:dot] + m[dot+1:]
		dotPos = dot
	}
	if digits == "" {
		return Reading{}, fmt.Errorf("hp3478a: reading %q has no digits", s)
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("hp3478a: reading %q: bad mantissa: %w", s, err)
	}
	if neg {
		v = -v
	}
	if dotPos < 0 || dotPos > 6 {
		return Reading{}, fmt.Errorf("hp3478a: reading %q: decimal point out of range (%d)", s, dotPos)
	}
	return Reading{Value: int32(v), Dot: int8(dotPos), Exp: int8(exp)}, nil
}

// alignedValues returns a.Value and b.Value rescaled to the coarser (larger)
// of the two scales, and that common scale.
func alignedValues(a, b Reading) (av, bv int64, scale int8) {
	if a.scale() == b.scale() {
		return int64(a.Value), int64(b.Value), a.scale()
	}
	// Rescale the finer-grained reading down to the coarser one by dividing
	// out the difference in scale: relative mode's result stays accurate to
	// within one LSD of the coarser scale.
	if a.scale() > b.scale() {
		diff := a.scale() - b.scale()
		return int64(a.Value), int64(b.Value) / pow10int(diff), a.scale()
	}
	diff := b.scale() - a.scale()
	return int64(a.Value) / pow10int(diff), int64(b.Value), b.scale()
}

func pow10int(n int8) int64 {
	v := int64(1)
	for i := int8(0); i < n; i++ {
		v *= 10
	}
	return v
}

// Sub returns a-b, aligned to the coarser scale of the two readings and
// displayed at that scale's Dot/Exp split, the arithmetic relative mode
// uses. Behavior is undefined if either reading is an overload.
func Sub(a, b Reading) Reading {
	av, bv, _ := alignedValues(a, b)
	d := av - bv
	dot, exp := a.Dot, a.Exp
	if b.scale() > a.scale() {
		dot, exp = b.Dot, b.Exp
	}
	return Reading{Value: int32(d), Dot: dot, Exp: exp}
}

// Cmp is a total order on non-overload readings, consistent with sign.
// Behavior is undefined if either reading is an overload.
func Cmp(a, b Reading) int {
	av, bv, _ := alignedValues(a, b)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

// Display formats r into the width-digit field the 3478A's display command
// accepts. Overload readings are not specially formatted here; callers
// that need "OVLD"/"OPEN"/">3 V" style text build it themselves from
// Overload().
func (r Reading) Display() string {
	neg := r.Value < 0
	v := r.Value
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(int64(v), 10)
	for len(digits) < width {
		digits = "0" + digits
	}
	dot := int(r.Dot)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	switch {
	case dot <= 0:
		b.WriteString("0.")
		b.WriteString(digits)
	case dot >= len(digits):
		b.WriteString(digits)
	default:
		b.WriteString(digits[:dot])
		b.WriteByte('.')
		b.WriteString(digits[dot:])
	}
	return b.String()
}
