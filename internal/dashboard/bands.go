// Package dashboard classifies and formats earnings data for display. Every
// function is pure: styles are symbolic so the mapping rules can be tested
// without a renderer.
package dashboard

import "strings"

// Style is a symbolic display class. Renderers map each value to a colour.
type Style int

const (
	StyleNeutral Style = iota
	StyleStrongPositive
	StylePositive
	StyleCaution
	StyleWarning
	StyleNegative
	StyleStrongNegative
)

func (s Style) String() string {
	switch s {
	case StyleStrongPositive:
		return "strong-positive"
	case StylePositive:
		return "positive"
	case StyleCaution:
		return "caution"
	case StyleWarning:
		return "warning"
	case StyleNegative:
		return "negative"
	case StyleStrongNegative:
		return "strong-negative"
	default:
		return "neutral"
	}
}

// Severity orders sentiment bands from most negative to most positive.
type Severity int

const (
	SeverityVeryNegative Severity = iota - 2
	SeverityNegative
	SeverityNeutral
	SeverityPositive
	SeverityVeryPositive
)

// Band is a discrete display category derived from a sentiment score.
type Band struct {
	Label    string
	Severity Severity
}

// Style returns the display class for the band.
func (b Band) Style() Style {
	switch b.Severity {
	case SeverityVeryPositive:
		return StyleStrongPositive
	case SeverityPositive:
		return StylePositive
	case SeverityNegative:
		return StyleNegative
	case SeverityVeryNegative:
		return StyleStrongNegative
	default:
		return StyleNeutral
	}
}

// UnknownBand is the band shown when no score is available.
var UnknownBand = Band{Label: NA, Severity: SeverityNeutral}

// SentimentBand maps a sentiment score to its label. A score exactly on a
// breakpoint belongs to the higher band.
func SentimentBand(score float64) Band {
	switch {
	case score >= 1.5:
		return Band{Label: "Very Positive", Severity: SeverityVeryPositive}
	case score >= 0.5:
		return Band{Label: "Positive", Severity: SeverityPositive}
	case score >= -0.5:
		return Band{Label: "Neutral", Severity: SeverityNeutral}
	case score >= -1.5:
		return Band{Label: "Negative", Severity: SeverityNegative}
	default:
		return Band{Label: "Very Negative", Severity: SeverityVeryNegative}
	}
}

// SentimentBandOf is SentimentBand for an optional score.
func SentimentBandOf(score *float64) Band {
	if score == nil {
		return UnknownBand
	}
	return SentimentBand(*score)
}

// SentimentIntensity is the finer colour scale used for score text and
// compact badges, with breakpoints at 0 and ±1.
func SentimentIntensity(score float64) Style {
	switch {
	case score > 1:
		return StyleStrongPositive
	case score > 0:
		return StylePositive
	case score < -1:
		return StyleStrongNegative
	case score < 0:
		return StyleNegative
	default:
		return StyleNeutral
	}
}

// BadgeIntensity is the compact overview badge colour. An absent or zero
// score is neutral.
func BadgeIntensity(score *float64) Style {
	if score == nil || *score == 0 {
		return StyleNeutral
	}
	switch {
	case *score > 1:
		return StyleStrongPositive
	case *score > 0:
		return StylePositive
	default:
		return StyleNegative
	}
}

// recommendationOrder is checked in order; the first contained key wins.
var recommendationOrder = []struct {
	key   string
	style Style
}{
	{"STRONG_BUY", StyleStrongPositive},
	{"BUY", StylePositive},
	{"HOLD", StyleCaution},
	{"SELL", StyleNegative},
}

// RecommendationBand classifies analyst recommendation text by ordered,
// case-insensitive substring containment, so qualified values such as
// "strong_buy (consensus)" still match.
func RecommendationBand(text string) Style {
	upper := strings.ToUpper(text)
	for _, r := range recommendationOrder {
		if strings.Contains(upper, r.key) {
			return r.style
		}
	}
	return StyleNeutral
}

// RecommendationLabel upper-cases a recommendation and replaces underscores
// with spaces. Empty input renders as "N/A".
func RecommendationLabel(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return NA
	}
	return strings.ReplaceAll(strings.ToUpper(text), "_", " ")
}

var confidenceStyles = map[string]Style{
	"Very High": StyleStrongPositive,
	"High":      StylePositive,
	"Moderate":  StyleCaution,
	"Low":       StyleWarning,
	"Very Low":  StyleNegative,
}

// ConfidenceBand classifies a management confidence level by exact match.
func ConfidenceBand(level string) Style {
	if s, ok := confidenceStyles[level]; ok {
		return s
	}
	return StyleNeutral
}

// GuidanceConfidenceStyle classifies the summary's guidance confidence.
func GuidanceConfidenceStyle(level string) Style {
	switch level {
	case "High":
		return StylePositive
	case "Medium":
		return StyleCaution
	default:
		return StyleNeutral
	}
}

var severityStyles = map[string]Style{
	"High":   StyleStrongNegative,
	"Medium": StyleCaution,
	"Low":    StylePositive,
}

// SeverityStyle classifies a risk factor severity by exact match.
func SeverityStyle(severity string) Style {
	if s, ok := severityStyles[severity]; ok {
		return s
	}
	return StyleNeutral
}

var assessmentStyles = map[string]Style{
	"Highly Positive": StyleStrongPositive,
	"Positive":        StylePositive,
	"Neutral":         StyleNeutral,
	"Negative":        StyleWarning,
	"Highly Negative": StyleNegative,
}

// AssessmentStyle classifies an overall investment assessment by exact
// match.
func AssessmentStyle(assessment string) Style {
	if s, ok := assessmentStyles[assessment]; ok {
		return s
	}
	return StyleNeutral
}

// TrendArrow returns ↑ for a positive value, ↓ for a negative one and → for
// zero or an absent value.
func TrendArrow(v *float64) string {
	switch {
	case v == nil || *v == 0:
		return "→"
	case *v > 0:
		return "↑"
	default:
		return "↓"
	}
}

// TrendStyle colours a growth or surprise value.
func TrendStyle(v *float64) Style {
	switch {
	case v == nil || *v == 0:
		return StyleNeutral
	case *v > 0:
		return StylePositive
	default:
		return StyleNegative
	}
}

// TrendDirectionLabel capitalises a historical trend direction.
func TrendDirectionLabel(dir string) string {
	switch dir {
	case "growing":
		return "Growing"
	case "declining":
		return "Declining"
	case "mixed":
		return "Mixed"
	case "neutral":
		return "Neutral"
	case "":
		return NA
	default:
		return dir
	}
}

// TrendDirectionStyle colours a historical trend direction.
func TrendDirectionStyle(dir string) Style {
	switch dir {
	case "growing":
		return StylePositive
	case "declining":
		return StyleNegative
	case "mixed":
		return StyleCaution
	default:
		return StyleNeutral
	}
}
