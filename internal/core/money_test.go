package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			want := decimal.RequireFromString(tc.out)
			if err != nil || !got.Equal(want) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseBalance(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"", "0", true},
		{"0", "0", true},
		{"-1500", "-1500", true},
		{"+20,5", "20.5", true},
		{"-", "", false},
		{"12a", "", false},
	}
	for _, tc := range cases {
		got, err := ParseBalance(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cur string
		in  string
		out string
	}{
		{"TWD", "1200", "TWD 1,200"},
		{"TWD", "-35", "TWD -35"},
		{"TWD", "999.6", "TWD 1,000"},
		{"", "1234567", "1,234,567"},
		{"TWD", "0", "TWD 0"},
	}
	for _, tc := range cases {
		got := FormatAmount(tc.cur, decimal.RequireFromString(tc.in))
		if got != tc.out {
			t.Fatalf("FormatAmount(%q, %s) = %q, want %q", tc.cur, tc.in, got, tc.out)
		}
	}
}
