package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	brlDigits   = regexp.MustCompile(`^\d+$`)
	brlGrouped  = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	brlPrefixes = []string{"R$", "BRL"}
	thousand    = decimal.NewFromInt(1000)
)

// ParseBRL parses a Brazilian Real amount ("R$ 1.234,56", "152,44", "50") into a decimal.
// "." is only accepted as a thousands separator in groups of three and "," as the decimal
// separator, with at most two decimal places. Empty, non-numeric and negative input fail
// with *ParseError.
func ParseBRL(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ParseError{Input: raw, Reason: "empty value"}
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, &ParseError{Input: raw, Reason: "negative value"}
	}

	upper := strings.ToUpper(s)
	for _, p := range brlPrefixes {
		if strings.HasPrefix(upper, p) {
			s = s[len(p):]
			break
		}
	}
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return decimal.Zero, &ParseError{Input: raw, Reason: "no digits"}
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ",")
	if hasFrac && (fracPart == "" || !brlDigits.MatchString(fracPart)) {
		return decimal.Zero, &ParseError{Input: raw, Reason: "invalid decimal part"}
	}
	if len(fracPart) > 2 {
		return decimal.Zero, &ParseError{Input: raw, Reason: "more than two decimal places"}
	}
	switch {
	case brlDigits.MatchString(intPart):
	case brlGrouped.MatchString(intPart):
		intPart = strings.ReplaceAll(intPart, ".", "")
	default:
		return decimal.Zero, &ParseError{Input: raw, Reason: "invalid integer part"}
	}

	normalized := intPart
	if hasFrac {
		normalized += "." + fracPart
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &ParseError{Input: raw, Reason: err.Error()}
	}
	return d, nil
}

// FormatBRL renders d as "R$ 1.234,56". ParseBRL(FormatBRL(d)) equals d rounded to cents.
func FormatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)

	intPart := d.Truncate(0)
	cents := d.Sub(intPart).Shift(2).IntPart()

	var groups []string
	for intPart.GreaterThanOrEqual(thousand) {
		rem := intPart.Mod(thousand)
		groups = append([]string{fmt.Sprintf("%03d", rem.IntPart())}, groups...)
		intPart = intPart.Div(thousand).Truncate(0)
	}
	groups = append([]string{intPart.String()}, groups...)

	out := fmt.Sprintf("R$ %s,%02d", strings.Join(groups, "."), cents)
	if neg {
		out = "-" + out
	}
	return out
}
