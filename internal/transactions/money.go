package transactions

import (
	"errors"
	"fmt"
	"strings"
)

// Dollars is a currency amount in cents.
type Dollars int64

// ParseDollars parses a currency string such as "$12.34" or "$1,204". The
// leading "$" is required; a bare number is malformed, not a default.
func ParseDollars(s string) (Dollars, error) {
	fail := func(reason string) (Dollars, error) {
		return 0, NewFieldError(ErrDataError, "item_dollars", s, errors.New(reason))
	}

	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, "$") {
		return fail("missing currency symbol")
	}
	raw = raw[1:]

	whole, frac, hasFrac := strings.Cut(raw, ".")
	if whole == "" {
		return fail("missing amount")
	}

	var cents int64
	if strings.Contains(whole, ",") {
		groups := strings.Split(whole, ",")
		if len(groups[0]) == 0 || len(groups[0]) > 3 {
			return fail("misplaced thousands separator")
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return fail("misplaced thousands separator")
			}
		}
		whole = strings.Join(groups, "")
	}
	for _, c := range whole {
		if c < '0' || c > '9' {
			return fail("invalid digit")
		}
		cents = cents*10 + int64(c-'0')
		if cents > 1<<53 {
			return fail("amount out of range")
		}
	}
	cents *= 100

	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return fail("expected one or two decimal places")
		}
		if len(frac) == 1 {
			frac += "0"
		}
		for _, c := range frac {
			if c < '0' || c > '9' {
				return fail("invalid digit")
			}
		}
		cents += int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}

	return Dollars(cents), nil
}

// Float returns the amount in dollars.
func (d Dollars) Float() float64 {
	return float64(d) / 100
}

// String formats the amount as "$1,234.56".
func (d Dollars) String() string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	whole := int64(d) / 100
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), int64(d)%100)
}
