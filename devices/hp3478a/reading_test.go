// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hp3478a

import (
	"math"
	"testing"
)

func TestParseReadingBasic(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		dot     int8
		exp     int8
		display string
	}{
		{"+1.234560E+0", 1.23456, 1, 0, "1.234560"},
		{"-1.000000E+3", -1000, 1, 3, "-1.000000"},
		{"+0.000005E+0", 0.000005, 1, 0, "0.000005"},
	}
	for _, c := range cases {
		r, err := ParseReading(c.in)
		if err != nil {
			t.Fatalf("ParseReading(%q): %v", c.in, err)
		}
		if r.Dot != c.dot || r.Exp != c.exp {
			t.Fatalf("ParseReading(%q) = {Dot:%d Exp:%d}, want {Dot:%d Exp:%d}", c.in, r.Dot, r.Exp, c.dot, c.exp)
		}
		if got := r.Float64(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParseReading(%q).Float64() = %v, want %v", c.in, got, c.want)
		}
		if got := r.Display(); got != c.display {
			t.Fatalf("ParseReading(%q).Display() = %q, want %q", c.in, got, c.display)
		}
	}
}

func TestParseReadingOverload(t *testing.T) {
	r, err := ParseReading("+9.999999E+9")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Overload() {
		t.Fatalf("expected overload reading to report Overload() == true, got Exp=%d", r.Exp)
	}
}

func TestParseReadingRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "abc", "1.5", "E+0"} {
		if _, err := ParseReading(s); err == nil {
			t.Fatalf("ParseReading(%q): expected error, got nil", s)
		}
	}
}

func TestSubSameScale(t *testing.T) {
	a, _ := ParseReading("+5.000000E+0")
	b, _ := ParseReading("+3.000000E+0")
	d := Sub(a, b)
	if math.Abs(d.Float64()-2) > 1e-9 {
		t.Fatalf("Sub(5,3).Float64() = %v, want 2", d.Float64())
	}
}

func TestSubDifferentScale(t *testing.T) {
	a, _ := ParseReading("+1.000000E+3") // 1000
	b, _ := ParseReading("+5.000000E+0") // 5
	d := Sub(a, b)
	if math.Abs(d.Float64()-995) > 1 {
		t.Fatalf("Sub(1000,5).Float64() = %v, want ~995", d.Float64())
	}
}

func TestCmpOrdering(t *testing.T) {
	small, _ := ParseReading("+1.000000E+0")
	big, _ := ParseReading("+1.000000E+3")
	if Cmp(small, big) >= 0 {
		t.Fatalf("Cmp(1, 1000) should be negative")
	}
	if Cmp(big, small) <= 0 {
		t.Fatalf("Cmp(1000, 1) should be positive")
	}
	if Cmp(small, small) != 0 {
		t.Fatalf("Cmp(x, x) should be 0")
	}
}

func TestDisplayNegative(t *testing.T) {
	r, err := ParseReading("-2.500000E+0")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := r.Display(), "-2.500000"; got != want {
		t.Fatalf("Display() = %q, want %q", got, want)
	}
}
