package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{"x", 5, 5},
		{" 42", 7, 7}, // no trimming
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestParseID(t *testing.T) {
	cases := []struct {
		s     string
		want  uint
		valid bool
	}{
		{"1", 1, true},
		{" 17 ", 17, true},
		{"0", 0, false},
		{"-4", 0, false},
		{"+4", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, valid := ParseID(tc.s)
		if got != tc.want || valid != tc.valid {
			t.Fatalf("ParseID(%q) = %d,%v; want %d,%v", tc.s, got, valid, tc.want, tc.valid)
		}
	}
}
