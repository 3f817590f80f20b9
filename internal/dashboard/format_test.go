package dashboard

import (
	"math"
	"regexp"
	"strconv"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := FormatInt(tt.in); got != tt.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrencyCompact(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{ptr(0), "$0"},
		{ptr(950000), "$950,000"},
		{ptr(1e6), "$1.00M"},
		{ptr(2_500_000), "$2.50M"},
		{ptr(3.19446e12), "$3.19T"},
		{ptr(1.5e9), "$1.50B"},
		{ptr(999_999_000), "$1.00B"},
		{ptr(999_999_999_999), "$1.00T"},
		{ptr(999_999.7), "$1.00M"},
		{ptr(2.5e15), "$2500.00T"},
		{ptr(-4.2e9), "-$4.20B"},
		{ptr(math.NaN()), "N/A"},
	}
	for _, tt := range tests {
		if got := FormatCurrencyCompact(tt.in); got != tt.want {
			in := "nil"
			if tt.in != nil {
				in = strconv.FormatFloat(*tt.in, 'f', -1, 64)
			}
			t.Errorf("FormatCurrencyCompact(%s) = %q, want %q", in, got, tt.want)
		}
	}
}

// Every value at or above a million lands in [1.00, 1000.00) of its unit,
// except trillions which have no larger unit.
func TestFormatCurrencyCompactUnitRange(t *testing.T) {
	re := regexp.MustCompile(`^\$(\d+\.\d\d)([MBT])$`)
	for exp := 6.0; exp < 13; exp += 0.01 {
		for _, m := range []float64{0.99999, 1, 1.00001} {
			v := math.Pow(10, exp) * m
			if v < 1e6 {
				continue
			}
			got := FormatCurrencyCompact(&v)
			sub := re.FindStringSubmatch(got)
			if sub == nil {
				t.Fatalf("FormatCurrencyCompact(%v) = %q, not a compact amount", v, got)
			}
			n, _ := strconv.ParseFloat(sub[1], 64)
			if n < 1 {
				t.Errorf("FormatCurrencyCompact(%v) = %q, below 1.00", v, got)
			}
			if n >= 1000 && sub[2] != "T" {
				t.Errorf("FormatCurrencyCompact(%v) = %q, 1000 or more in unit %s", v, got, sub[2])
			}
		}
	}
}

func TestFormatMillionsCompact(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{ptr(0), "$0M"},
		{ptr(450.4), "$450M"},
		{ptr(999.4), "$999M"},
		{ptr(999.6), "$1.0B"},
		{ptr(1000), "$1.0B"},
		{ptr(94930), "$94.9B"},
		{ptr(-250), "-$250M"},
	}
	for _, tt := range tests {
		if got := FormatMillionsCompact(tt.in); got != tt.want {
			t.Errorf("FormatMillionsCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMillionsCompactUnitRange(t *testing.T) {
	re := regexp.MustCompile(`^\$(\d+(?:\.\d)?)([MB])$`)
	for v := 0.5; v < 1e6; v *= 1.013 {
		val := v
		got := FormatMillionsCompact(&val)
		sub := re.FindStringSubmatch(got)
		if sub == nil {
			t.Fatalf("FormatMillionsCompact(%v) = %q, unexpected shape", v, got)
		}
		n, _ := strconv.ParseFloat(sub[1], 64)
		if sub[2] == "M" && n >= 1000 {
			t.Errorf("FormatMillionsCompact(%v) = %q, 1000 or more millions", v, got)
		}
		if sub[2] == "B" && n < 1 {
			t.Errorf("FormatMillionsCompact(%v) = %q, below one billion", v, got)
		}
	}
}

func TestFormatMarketCapString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "N/A"},
		{"N/A", "N/A"},
		{"3,194,468,958,208", "$3.19T"},
		{"100000000000", "$100.00B"},
		{"12,500,000", "$12.50M"},
		{"950,000", "$950,000"},
		{"unknown", "$unknown"},
	}
	for _, tt := range tests {
		if got := FormatMarketCapString(tt.in); got != tt.want {
			t.Errorf("FormatMarketCapString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	if v, ok := ParseAmount("$1,234.50"); !ok || v != 1234.5 {
		t.Errorf("ParseAmount($1,234.50) = %v, %v", v, ok)
	}
	for _, in := range []string{"", "N/A", "abc", "NaN"} {
		if _, ok := ParseAmount(in); ok {
			t.Errorf("ParseAmount(%q) ok = true, want false", in)
		}
	}
}

func TestNAFormatters(t *testing.T) {
	checks := map[string]string{
		"FormatPercent":       FormatPercent(nil),
		"FormatSignedPercent": FormatSignedPercent(nil),
		"FormatEPS":           FormatEPS(nil),
		"FormatScore":         FormatScore(nil),
		"FormatPrice":         FormatPrice(""),
		"OrNA":                OrNA("  "),
	}
	for name, got := range checks {
		if got != NA {
			t.Errorf("%s(absent) = %q, want %q", name, got, NA)
		}
	}

	if got := FormatPercent(ptr(12.345)); got != "12.3%" {
		t.Errorf("FormatPercent = %q, want %q", got, "12.3%")
	}
	if got := FormatSignedPercent(ptr(2.5)); got != "+2.5%" {
		t.Errorf("FormatSignedPercent = %q, want %q", got, "+2.5%")
	}
	if got := FormatEPS(ptr(-0.42)); got != "-$0.42" {
		t.Errorf("FormatEPS = %q, want %q", got, "-$0.42")
	}
	if got := FormatPrice("226.51"); got != "$226.51" {
		t.Errorf("FormatPrice = %q, want %q", got, "$226.51")
	}
}
