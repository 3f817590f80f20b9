package dashboard

import "testing"

func TestSentimentBand(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{2.0, "Very Positive"},
		{1.5, "Very Positive"},
		{1.49, "Positive"},
		{0.5, "Positive"},
		{0.49, "Neutral"},
		{0, "Neutral"},
		{-0.5, "Neutral"},
		{-0.51, "Negative"},
		{-1.5, "Negative"},
		{-1.51, "Very Negative"},
		{-3, "Very Negative"},
	}
	for _, tt := range tests {
		if got := SentimentBand(tt.score).Label; got != tt.want {
			t.Errorf("SentimentBand(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSentimentBandMonotonic(t *testing.T) {
	prev := SentimentBand(-5).Severity
	for s := -5.0; s <= 5; s += 0.01 {
		sev := SentimentBand(s).Severity
		if sev < prev {
			t.Fatalf("SentimentBand(%v) severity %d below previous %d", s, sev, prev)
		}
		prev = sev
	}
}

func TestSentimentBandOf(t *testing.T) {
	if got := SentimentBandOf(nil); got.Label != NA {
		t.Errorf("SentimentBandOf(nil) = %q, want %q", got.Label, NA)
	}
	if got := SentimentBandOf(ptr(1.0)); got.Label != "Positive" {
		t.Errorf("SentimentBandOf(1.0) = %q, want Positive", got.Label)
	}
}

func TestBandStyle(t *testing.T) {
	if got := SentimentBand(2).Style(); got != StyleStrongPositive {
		t.Errorf("Style() = %v, want %v", got, StyleStrongPositive)
	}
	if got := SentimentBand(-2).Style(); got != StyleStrongNegative {
		t.Errorf("Style() = %v, want %v", got, StyleStrongNegative)
	}
	if got := UnknownBand.Style(); got != StyleNeutral {
		t.Errorf("Style() = %v, want %v", got, StyleNeutral)
	}
}

func TestSentimentIntensity(t *testing.T) {
	tests := []struct {
		score float64
		want  Style
	}{
		{1.2, StyleStrongPositive},
		{1, StylePositive},
		{0.1, StylePositive},
		{0, StyleNeutral},
		{-0.1, StyleNegative},
		{-1, StyleNegative},
		{-1.2, StyleStrongNegative},
	}
	for _, tt := range tests {
		if got := SentimentIntensity(tt.score); got != tt.want {
			t.Errorf("SentimentIntensity(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestBadgeIntensity(t *testing.T) {
	tests := []struct {
		score *float64
		want  Style
	}{
		{nil, StyleNeutral},
		{ptr(0), StyleNeutral},
		{ptr(1.5), StyleStrongPositive},
		{ptr(0.3), StylePositive},
		{ptr(-2), StyleNegative},
	}
	for _, tt := range tests {
		if got := BadgeIntensity(tt.score); got != tt.want {
			t.Errorf("BadgeIntensity(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestRecommendationBand(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"strong_buy", StyleStrongPositive},
		{"Strong_Buy (Consensus)", StyleStrongPositive},
		{"buy", StylePositive},
		{"Moderate Buy", StylePositive},
		{"hold", StyleCaution},
		{"underperform / sell", StyleNegative},
		{"strong_sell", StyleNegative},
		{"none", StyleNeutral},
		{"", StyleNeutral},
	}
	for _, tt := range tests {
		if got := RecommendationBand(tt.in); got != tt.want {
			t.Errorf("RecommendationBand(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRecommendationLabel(t *testing.T) {
	if got := RecommendationLabel("strong_buy"); got != "STRONG BUY" {
		t.Errorf("RecommendationLabel = %q, want %q", got, "STRONG BUY")
	}
	if got := RecommendationLabel(""); got != NA {
		t.Errorf("RecommendationLabel(\"\") = %q, want %q", got, NA)
	}
}

func TestConfidenceBand(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"Very High", StyleStrongPositive},
		{"High", StylePositive},
		{"Moderate", StyleCaution},
		{"Low", StyleWarning},
		{"Very Low", StyleNegative},
		{"high", StyleNeutral},
		{"Very High (management)", StyleNeutral},
		{"", StyleNeutral},
	}
	for _, tt := range tests {
		if got := ConfidenceBand(tt.in); got != tt.want {
			t.Errorf("ConfidenceBand(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLookupStyles(t *testing.T) {
	if got := SeverityStyle("High"); got != StyleStrongNegative {
		t.Errorf("SeverityStyle(High) = %v", got)
	}
	if got := SeverityStyle("Critical"); got != StyleNeutral {
		t.Errorf("SeverityStyle(Critical) = %v", got)
	}
	if got := AssessmentStyle("Highly Positive"); got != StyleStrongPositive {
		t.Errorf("AssessmentStyle(Highly Positive) = %v", got)
	}
	if got := AssessmentStyle("Mixed"); got != StyleNeutral {
		t.Errorf("AssessmentStyle(Mixed) = %v", got)
	}
	if got := GuidanceConfidenceStyle("Medium"); got != StyleCaution {
		t.Errorf("GuidanceConfidenceStyle(Medium) = %v", got)
	}
}

func TestTrendArrow(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "→"},
		{ptr(0), "→"},
		{ptr(3.2), "↑"},
		{ptr(-0.1), "↓"},
	}
	for _, tt := range tests {
		if got := TrendArrow(tt.in); got != tt.want {
			t.Errorf("TrendArrow(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := TrendStyle(ptr(-1)); got != StyleNegative {
		t.Errorf("TrendStyle(-1) = %v, want %v", got, StyleNegative)
	}
}

func TestTrendDirection(t *testing.T) {
	if got := TrendDirectionLabel("growing"); got != "Growing" {
		t.Errorf("TrendDirectionLabel(growing) = %q", got)
	}
	if got := TrendDirectionLabel(""); got != NA {
		t.Errorf("TrendDirectionLabel(\"\") = %q", got)
	}
	if got := TrendDirectionStyle("declining"); got != StyleNegative {
		t.Errorf("TrendDirectionStyle(declining) = %v", got)
	}
}
