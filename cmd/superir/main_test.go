package main

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"corto", 40, "corto"},
		{"Norma de Carácter General sobre gobierno corporativo", 20, "Norma de Carácter..."},
		{"ñññññññññññ", 8, "ñññññ..."},
		{"exactamente diez", 16, "exactamente diez"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
