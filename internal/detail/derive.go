package detail

import (
	"strings"

	"investoredge/internal/dashboard"
	"investoredge/pkg/investoredge"
)

// Derived holds the display values computed from a summary.
type Derived struct {
	Score          string
	Sentiment      dashboard.Band
	Intensity      dashboard.Style
	Recommendation dashboard.Style
	RecLabel       string
	Confidence     dashboard.Style
	MarketCap      string
	Price          string
	YearHigh       string
	YearLow        string
	PERatio        string
	TargetPrice    string
}

// Derive computes the display values for s. Nothing is cached; callers
// recompute on every render.
func Derive(s *investoredge.Summary) Derived {
	if s == nil {
		return Derived{
			Score:     dashboard.NA,
			Sentiment: dashboard.UnknownBand,
			RecLabel:  dashboard.NA,
			MarketCap: dashboard.NA, Price: dashboard.NA,
			YearHigh: dashboard.NA, YearLow: dashboard.NA,
			PERatio: dashboard.NA, TargetPrice: dashboard.NA,
		}
	}
	score := s.SentimentScore
	d := Derived{
		Score:       dashboard.FormatScore(&score),
		Sentiment:   dashboard.SentimentBand(score),
		Intensity:   dashboard.SentimentIntensity(score),
		RecLabel:    dashboard.NA,
		MarketCap:   dashboard.NA,
		Price:       dashboard.NA,
		YearHigh:    dashboard.NA,
		YearLow:     dashboard.NA,
		PERatio:     dashboard.NA,
		TargetPrice: dashboard.NA,
	}
	if fd := s.FinancialData; fd != nil {
		d.Recommendation = dashboard.RecommendationBand(fd.Recommendation.String())
		d.RecLabel = dashboard.RecommendationLabel(fd.Recommendation.String())
		d.MarketCap = dashboard.FormatMarketCapString(fd.MarketCap.String())
		d.Price = dashboard.FormatPrice(fd.CurrentPrice.String())
		d.YearHigh = dashboard.FormatPrice(fd.YearHigh.String())
		d.YearLow = dashboard.FormatPrice(fd.YearLow.String())
		d.PERatio = dashboard.OrNA(fd.PERatio.String())
		d.TargetPrice = dashboard.FormatPrice(fd.TargetPrice.String())
	}
	if g := s.Guidance; g != nil {
		d.Confidence = confidenceStyle(g.GuidanceConfidence)
	}
	return d
}

// confidenceStyle accepts both the five-level tone vocabulary and the
// High/Medium/Low guidance vocabulary.
func confidenceStyle(level string) dashboard.Style {
	if st := dashboard.ConfidenceBand(level); st != dashboard.StyleNeutral {
		return st
	}
	return dashboard.GuidanceConfidenceStyle(level)
}

// Section kinds of the free-text summary.
const (
	SectionPerformance = "Overall Performance"
	SectionOutlook     = "Guidance or Forward Outlook"
	SectionRisks       = "Risks or Concerns"
)

var sectionHeaders = []string{SectionPerformance, SectionOutlook, SectionRisks}

// Section is one paragraph of the summary text. Title is empty for lines
// without a known header.
type Section struct {
	Title string
	Body  string
}

// SummarySections splits the summary text into its headed paragraphs, one
// per non-blank line.
func SummarySections(text string) []Section {
	var out []Section
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sec := Section{Body: line}
		for _, h := range sectionHeaders {
			marker := h + ":"
			if i := strings.Index(line, marker); i >= 0 {
				sec.Title = h
				sec.Body = strings.TrimSpace(line[:i] + line[i+len(marker):])
				break
			}
		}
		out = append(out, sec)
	}
	return out
}

// LabeledValue is one row of the guidance panel.
type LabeledValue struct {
	Label string
	Value string
}

// GuidanceItems lists the populated guidance fields. Blank and "N/A" values
// are left out.
func GuidanceItems(g *investoredge.Guidance) []LabeledValue {
	if g == nil {
		return nil
	}
	var out []LabeledValue
	add := func(label, v string) {
		v = strings.TrimSpace(v)
		if v == "" || v == dashboard.NA {
			return
		}
		out = append(out, LabeledValue{Label: label, Value: v})
	}
	add("Revenue", g.RevenueGuidance)
	add("EPS", g.EPSGuidance)
	add("Full Year", g.FullYearGuidance)
	add("Growth", g.GrowthExpectations)
	return out
}

// Trends table and chart sizes.
const (
	TableQuarters = 4
	ChartQuarters = 8
)

// RecentQuarters returns up to n quarters, newest first.
func RecentQuarters(h *investoredge.HistoricalData, n int) []investoredge.QuarterRecord {
	if h == nil || n <= 0 {
		return nil
	}
	if n > len(h.Quarters) {
		n = len(h.Quarters)
	}
	return h.Quarters[:n]
}

// ChartSeries returns the newest n quarters reordered oldest first.
func ChartSeries(h *investoredge.HistoricalData, n int) []investoredge.QuarterRecord {
	recent := RecentQuarters(h, n)
	out := make([]investoredge.QuarterRecord, len(recent))
	for i, q := range recent {
		out[len(recent)-1-i] = q
	}
	return out
}

// Revenues extracts the revenue column of qs. Missing values stay nil.
func Revenues(qs []investoredge.QuarterRecord) []*float64 {
	out := make([]*float64, len(qs))
	for i := range qs {
		out[i] = qs[i].Revenue
	}
	return out
}

// EPS extracts the actual EPS column of qs.
func EPS(qs []investoredge.QuarterRecord) []*float64 {
	out := make([]*float64, len(qs))
	for i := range qs {
		out[i] = qs[i].EPSActual
	}
	return out
}
