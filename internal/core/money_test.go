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
		{"1.005", "1.01", true}, // half-up rounding
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.001", "", false}, // rounds to zero
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e2", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			want := decimal.RequireFromString(tc.out)
			if err != nil || !got.Equal(want) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, want, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	cases := []struct {
		cents int64
	}{
		{0}, {1}, {100}, {123456789}, {-250},
	}
	for _, tc := range cases {
		if got := Cents(FromCents(tc.cents)); got != tc.cents {
			t.Fatalf("round trip %d got %d", tc.cents, got)
		}
	}
}

func TestRoundCurrency(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"1.234", "1.23"},
		{"1.235", "1.24"},
		{"-1.235", "-1.24"},
		{"1.2", "1.2"},
	}
	for _, tc := range cases {
		got := RoundCurrency(decimal.RequireFromString(tc.in))
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("RoundCurrency(%s) = %s, want %s", tc.in, got, tc.out)
		}
	}
}
