package dashboard

import (
	"math"
	"strings"
)

// SentimentMix counts loaded scores per sentiment band for the overview
// header.
type SentimentMix struct {
	VeryPositive int
	Positive     int
	Neutral      int
	Negative     int
	VeryNegative int
	Missing      int
}

// Total returns the number of scores counted, missing ones included.
func (m SentimentMix) Total() int {
	return m.VeryPositive + m.Positive + m.Neutral + m.Negative + m.VeryNegative + m.Missing
}

// MixOf groups scores by sentiment band. A nil score counts as missing.
func MixOf(scores []*float64) SentimentMix {
	var m SentimentMix
	for _, s := range scores {
		if s == nil {
			m.Missing++
			continue
		}
		switch SentimentBand(*s).Severity {
		case SeverityVeryPositive:
			m.VeryPositive++
		case SeverityPositive:
			m.Positive++
		case SeverityNeutral:
			m.Neutral++
		case SeverityNegative:
			m.Negative++
		default:
			m.VeryNegative++
		}
	}
	return m
}

// SeriesRange returns the smallest and largest present values. ok is false
// when every value is missing.
func SeriesRange(values []*float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a one-line bar chart, one rune per value.
// Missing values render as a space; a flat series renders at mid height.
func Sparkline(values []*float64) string {
	lo, hi, ok := SeriesRange(values)
	var b strings.Builder
	for _, v := range values {
		if !ok || v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			b.WriteRune(' ')
			continue
		}
		idx := len(sparkLevels) / 2
		if hi > lo {
			idx = int(math.Round((*v - lo) / (hi - lo) * float64(len(sparkLevels)-1)))
		}
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}
