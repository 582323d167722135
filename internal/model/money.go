package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned for amounts that are not plain decimals.
var ErrInvalidAmount = errors.New("invalid amount")

// DefaultCurrency is assumed when the commerce backend omits one.
const DefaultCurrency = "BRL"

// ParseMinor parses a decimal amount ("199.9", "-5", "12.345") into minor units
// (cents). Digits past the second decimal place are truncated.
func ParseMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	for _, part := range []string{whole, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
			}
		}
	}

	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	v := units*100 + cents
	if neg {
		v = -v
	}
	return v, nil
}

// ParseMinorJSON accepts an amount encoded either as a JSON string or a JSON number.
func ParseMinorJSON(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, ErrInvalidAmount
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrInvalidAmount
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, ErrInvalidAmount
		}
		s = n.String()
	}
	if strings.ContainsAny(s, "eE") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return ParseMinor(s)
}

// MajorUnits renders minor units as a float rounded to 2 decimals.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}
