package transcript

import "investoredge/pkg/investoredge"

// Tab is one page of the analysis modal.
type Tab int

const (
	TabOverview Tab = iota
	TabTone
	TabTopics
	TabGuidance
	TabRisks
	TabQA
	TabInvestment
	tabCount
)

var tabTitles = [...]string{
	TabOverview:   "Overview",
	TabTone:       "Tone Analysis",
	TabTopics:     "Key Topics",
	TabGuidance:   "Guidance Details",
	TabRisks:      "Risk Analysis",
	TabQA:         "Q&A Insights",
	TabInvestment: "Investment View",
}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "unknown"
	}
	return tabTitles[t]
}

// Tabs returns every tab in display order.
func Tabs() []Tab {
	out := make([]Tab, tabCount)
	for i := range out {
		out[i] = Tab(i)
	}
	return out
}

// HasSection reports whether a has content for t. Overview also covers the
// financial highlights and notable quotes; Investment View also covers the
// management insights.
func HasSection(a *investoredge.TranscriptAnalysis, t Tab) bool {
	if a == nil {
		return false
	}
	switch t {
	case TabOverview:
		return a.ExecutiveSummary != "" || a.FinancialHighlights != nil || len(a.NotableQuotes) > 0
	case TabTone:
		return a.ToneAnalysis != nil
	case TabTopics:
		return len(a.KeyTopics) > 0
	case TabGuidance:
		return a.ForwardGuidance != nil
	case TabRisks:
		return len(a.RiskFactors) > 0
	case TabQA:
		return a.QAInsights != nil
	case TabInvestment:
		return a.InvestmentImplications != nil || a.ManagementInsights != nil
	}
	return false
}
