package coerce

import (
	"math"
	"testing"
)

func TestToInt32(t *testing.T) {
	tests := []struct {
		in   float64
		want int32
	}{
		{640, 640},
		{640.7, 640},
		{480.2, 480},
		{1.9, 1},
		{0.9, 0},
		{-0.9, 0},
		{-10, -10},
		{-10.8, -10},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{2147483647, 2147483647},
		{2147483648, -2147483648},
		{4294967296, 0},
		{4294967296 + 5, 5},
		{-4294967296 - 5, -5},
		{4294967295, -1},
	}
	for _, tt := range tests {
		if got := ToInt32(tt.in); got != tt.want {
			t.Errorf("ToInt32(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{true, 1},
		{false, 0},
		{int(12), 12},
		{int8(-3), -3},
		{uint16(7), 7},
		{float32(2.5), 2.5},
		{"", 0},
		{"  ", 0},
		{"640", 640},
		{" 480.5 ", 480.5},
		{"-10", -10},
		{"1e3", 1000},
		{"0x10", 16},
		{"0b101", 5},
		{"0o17", 15},
		{[]byte("32"), 32},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNumberNonNumeric(t *testing.T) {
	for _, in := range []any{"abc", "12px", "nan", "inf", "1_000", "0xZZ", struct{}{}, []int{1}, map[string]int{}} {
		got := Number(in)
		if !math.IsNaN(got) {
			t.Errorf("Number(%#v) = %v, want NaN", in, got)
		}
		if n := ToInt32(got); n != 0 {
			t.Errorf("ToInt32(Number(%#v)) = %d, want 0", in, n)
		}
	}
}

func TestNumberInfinity(t *testing.T) {
	if got := Number("Infinity"); !math.IsInf(got, 1) {
		t.Errorf("Number(\"Infinity\") = %v", got)
	}
	if got := Number("-Infinity"); !math.IsInf(got, -1) {
		t.Errorf("Number(\"-Infinity\") = %v", got)
	}
	if got := Number("1e400"); !math.IsInf(got, 1) {
		t.Errorf("Number(\"1e400\") = %v", got)
	}
}
