package parser

import (
	"strconv"
	"strings"
)

// NumberContext selects the normalization rules for a raw cell.
type NumberContext string

const (
	// ContextCount is for unit counts: strict integer, no separators.
	ContextCount NumberContext = "count"
	// ContextMoney is for prices and revenue: smart separator detection.
	ContextMoney NumberContext = "money"
)

// Normalize converts a raw cell value into a canonical number. It never
// fails: unparseable input normalizes to 0. Normalizing an already-normalized
// number is a no-op.
func Normalize(raw string, ctx NumberContext) float64 {
	if ctx == ContextCount {
		return float64(NormalizeCount(raw))
	}
	return NormalizeMoney(raw)
}

// NormalizeCount parses a unit count by stripping every non-digit character.
// An empty result yields 0.
func NormalizeCount(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// NormalizeMoney parses a monetary amount, disambiguating Indonesian
// (1.165.992), international (1,165,992.50) and European (1.165.992,50)
// separator conventions. Currency symbols are stripped before classification.
func NormalizeMoney(raw string) float64 {
	s := stripCurrency(raw)
	if s == "" {
		return 0
	}

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 1 && commas == 0:
		// Indonesian thousands: 1.165.992
		s = strings.ReplaceAll(s, ".", "")
	case commas > 1 && dots == 0:
		// Grouped thousands: 1,165,992
		s = strings.ReplaceAll(s, ",", "")
	case dots == 1 && commas >= 1:
		// International: 1,165,992.50
		s = strings.ReplaceAll(s, ",", "")
	case commas == 1 && dots >= 1:
		// European: 1.165.992,50
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case dots+commas == 1:
		sep := "."
		if commas == 1 {
			sep = ","
		}
		idx := strings.LastIndex(s, sep)
		trailing := len(s) - idx - 1
		if trailing > 2 {
			// 50.000 is fifty thousand, not fifty
			s = strings.ReplaceAll(s, sep, "")
		} else if sep == "," {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// stripCurrency removes currency symbols, spaces and any other character
// that is not a digit, separator or sign.
func stripCurrency(raw string) string {
	s := strings.TrimSpace(raw)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
