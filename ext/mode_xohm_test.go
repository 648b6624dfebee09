// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "testing"

func TestFormatOhmsDecades(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{500, "500.00OHM"},
		{1500, "1.50KOHM"},
		{2_500_000, "2.50MOHM"},
	}
	for _, c := range cases {
		if got := formatOhms(c.v); got != c.want {
			t.Fatalf("formatOhms(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}
