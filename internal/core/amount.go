// Package core provides the domain value types shared by the analytics
// engine, the storage layer and the ledger sources.
//
// This file contains the defensive numeric coercion helpers. Ledger rows
// arrive from spreadsheets and imports with amounts as free-form strings;
// the policy is to coerce, never to fail: unparseable values become 0 and
// non-finite intermediates are zeroed before they reach any rule math.
package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseAmount converts a free-form amount string to a float64.
//
// It tolerates currency symbols, thousands separators and a decimal
// comma. Values that cannot be parsed yield 0; this function never
// returns an error by design.
//
// Examples:
//
//	ParseAmount("5000")     -> 5000
//	ParseAmount("1,234.50") -> 1234.5
//	ParseAmount("€12,34")   -> 12.34
//	ParseAmount("n/a")      -> 0
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Strip currency symbols and whitespace.
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			return r
		default:
			return -1
		}
	}, s)
	if s == "" {
		return 0
	}
	// Decide which separator is the decimal one: the rightmost of '.'
	// and ',' wins, everything else is a thousands separator.
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return SafeNumber(v)
}

// SafeNumber replaces NaN and ±Inf with 0 so aggregate math stays finite.
func SafeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NonNegative clamps v to be at least 0 after the finiteness guard.
func NonNegative(v float64) float64 {
	v = SafeNumber(v)
	if v < 0 {
		return 0
	}
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDate parses a ledger date string, trying the formats seen in
// imports. The zero time is returned when nothing matches; records with
// a zero date are skipped by date-sensitive rules rather than rejected.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
