package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in currency minor units (factor 100, e.g. paise or
// cents). Keeping amounts integral makes split-sum invariants exact.
type Money int64

// ParseMoney parses a decimal string like "100.00" or "33.3" into minor
// units. At most two fractional digits are accepted.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrValidation)
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: amount %q has more than two decimal places", ErrValidation, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	// The sign was consumed above; ParseUint rejects a stray sign inside
	// either part, so "1.-5" and "1.+5" fail instead of misparsing.
	w, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	f, err := strconv.ParseUint(frac, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	m := Money(w*100 + f)
	if neg {
		m = -m
	}
	return m, nil
}

// String formats the amount as a two-decimal string ("33.34").
func (m Money) String() string {
	neg := m < 0
	if neg {
		m = -m
	}
	s := fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
	if neg {
		return "-" + s
	}
	return s
}

// Minor returns the raw minor-unit value, the form payment gateways expect.
func (m Money) Minor() int64 { return int64(m) }
