package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NA is rendered for any value that is absent.
const NA = "N/A"

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// compactUnits are the suffixes used by FormatCurrencyCompact, largest first.
var compactUnits = []struct {
	scale  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
}

// FormatCurrencyCompact formats a dollar amount as $x.xxT, $x.xxB or $x.xxM.
// Amounts under a million are shown as whole dollars with comma grouping.
// A nil or non-finite value renders as "N/A".
func FormatCurrencyCompact(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NA
	}
	return currencyCompact(*v)
}

func currencyCompact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	for i, u := range compactUnits {
		if v < u.scale {
			continue
		}
		scaled := math.Round(v/u.scale*100) / 100
		// 999.995M rounds to 1000.00M; show it as 1.00B instead.
		if scaled >= 1000 && i > 0 {
			u = compactUnits[i-1]
			scaled = math.Round(v/u.scale*100) / 100
		}
		return fmt.Sprintf("%s$%.2f%s", sign, scaled, u.suffix)
	}
	whole := int(math.Round(v))
	if whole >= 1e6 {
		return sign + "$1.00M"
	}
	return sign + "$" + FormatInt(whole)
}

// FormatMillionsCompact formats a value already expressed in millions of
// dollars: $x.xB at or above 1000, otherwise $xM with no decimals. A nil
// value renders as "N/A".
func FormatMillionsCompact(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return NA
	}
	m := *v
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	if m >= 1000 || math.Round(m) >= 1000 {
		return fmt.Sprintf("%s$%.1fB", sign, m/1000)
	}
	return fmt.Sprintf("%s$%.0fM", sign, m)
}

// ParseAmount parses a display number such as "3,194,468,958,208" or
// "$150.00". It reports false for empty or non-numeric input.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.EqualFold(s, NA) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatMarketCapString compacts a comma-grouped market cap string. Values
// under a million, or strings that do not parse, are shown verbatim with a
// $ prefix. Empty input renders as "N/A".
func FormatMarketCapString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == NA {
		return NA
	}
	v, ok := ParseAmount(s)
	if !ok || math.Abs(v) < 1e6 {
		return "$" + strings.TrimPrefix(s, "$")
	}
	return currencyCompact(v)
}

// FormatPrice formats a price string as $X, or "N/A" when empty.
func FormatPrice(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == NA {
		return NA
	}
	return "$" + strings.TrimPrefix(p, "$")
}

// FormatPercent formats a percentage as "X.X%", or "N/A" when nil.
func FormatPercent(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// FormatSignedPercent formats a percentage with an explicit sign.
func FormatSignedPercent(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

// FormatEPS formats earnings per share as $X.XX, or "N/A" when nil.
func FormatEPS(v *float64) string {
	if v == nil {
		return NA
	}
	if *v < 0 {
		return fmt.Sprintf("-$%.2f", -*v)
	}
	return fmt.Sprintf("$%.2f", *v)
}

// FormatScore formats a sentiment score with one decimal, or "N/A" when nil.
func FormatScore(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.1f", *v)
}

// OrNA returns s, or "N/A" when s is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}
