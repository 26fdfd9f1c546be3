package core

import (
	"math"
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"plain integer", "5000", 5000},
		{"decimal point", "12.34", 12.34},
		{"decimal comma", "12,34", 12.34},
		{"thousands and decimal", "1,234.50", 1234.5},
		{"european thousands", "1.234,50", 1234.5},
		{"currency symbol", "€99.90", 99.9},
		{"whitespace", "  42  ", 42},
		{"negative", "-15.5", -15.5},
		{"empty", "", 0},
		{"garbage", "n/a", 0},
		{"letters mixed", "12abc", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeNumber(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"finite", 12.5, 12.5},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"negative inf", math.Inf(-1), 0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeNumber(tt.in); got != tt.want {
				t.Errorf("SafeNumber(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNonNegative(t *testing.T) {
	if got := NonNegative(-100); got != 0 {
		t.Errorf("NonNegative(-100) = %v, want 0", got)
	}
	if got := NonNegative(math.NaN()); got != 0 {
		t.Errorf("NonNegative(NaN) = %v, want 0", got)
	}
	if got := NonNegative(7); got != 7 {
		t.Errorf("NonNegative(7) = %v, want 7", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"iso date", "2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-01-05T10:30:00Z", time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "not-a-date", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDate(tt.in); !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
