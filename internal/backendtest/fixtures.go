package backendtest

import (
	"strings"

	"investoredge/pkg/investoredge"
)

func f64(v float64) *float64 { return &v }

// SampleCompanies returns a small fixed universe.
func SampleCompanies() []investoredge.Company {
	return []investoredge.Company{
		{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology", MarketCap: f64(3.0e12), IsSP500: true},
		{Ticker: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", MarketCap: f64(2.8e12), IsSP500: true},
		{Ticker: "GOOG", Name: "Alphabet Inc. Class C", Sector: "Communication Services", MarketCap: f64(1.8e12), IsSP500: true},
		{Ticker: "GOOGL", Name: "Alphabet Inc. Class A", Sector: "Communication Services", MarketCap: f64(1.8e12), IsSP500: true},
		{Ticker: "AMZN", Name: "Amazon.com Inc.", Sector: "Consumer Discretionary", MarketCap: f64(1.7e12), IsSP500: true},
		{Ticker: "JPM", Name: "JPMorgan Chase & Co.", Sector: "Financials", MarketCap: f64(5.0e11), IsSP500: true},
	}
}

// SampleSummary returns a fully populated summary for ticker.
func SampleSummary(ticker string, score float64) *investoredge.Summary {
	ticker = strings.ToUpper(ticker)
	return &investoredge.Summary{
		Ticker:  ticker,
		Quarter: "Q3 2024",
		Date:    "2024-10-31",
		Summary: "Overall Performance: Revenue beat expectations.\n" +
			"Guidance or Forward Outlook: Management raised full-year targets.\n" +
			"Risks or Concerns: Supply constraints persist.",
		SentimentScore: score,
		KPIs:           investoredge.KPIs{Revenue: "$94.9B", EPS: "$1.64", Guidance: "Raised"},
		FinancialData: &investoredge.FinancialData{
			CurrentPrice:   "226.51",
			MarketCap:      "3,442,179,915,776",
			YearHigh:       "237.49",
			YearLow:        "164.08",
			PERatio:        "34.42",
			Recommendation: "buy",
			TargetPrice:    "240.00",
		},
		Guidance: &investoredge.Guidance{
			RevenueGuidance:    "Low to mid single digit growth",
			EPSGuidance:        "N/A",
			KeyInitiatives:     []string{"Services expansion", "On-device AI"},
			GuidanceConfidence: "High",
		},
	}
}

// SampleHistorical returns eight quarters of history for ticker, newest
// first.
func SampleHistorical(ticker string) *investoredge.HistoricalData {
	ticker = strings.ToUpper(ticker)
	quarters := []investoredge.QuarterRecord{
		{Date: "2024-10-31", Quarter: "Q3 2024", Revenue: f64(94930), EPSActual: f64(1.64), EPSEstimate: f64(1.60), SurprisePercent: f64(2.5)},
		{Date: "2024-08-01", Quarter: "Q2 2024", Revenue: f64(85777), EPSActual: f64(1.40), EPSEstimate: f64(1.35), SurprisePercent: f64(3.7)},
		{Date: "2024-05-02", Quarter: "Q1 2024", Revenue: f64(90753), EPSActual: f64(1.53), EPSEstimate: f64(1.50), SurprisePercent: f64(2.0)},
		{Date: "2024-02-01", Quarter: "Q4 2023", Revenue: f64(119575), EPSActual: f64(2.18), EPSEstimate: f64(2.10), SurprisePercent: f64(3.8)},
		{Date: "2023-11-02", Quarter: "Q3 2023", Revenue: f64(89498), EPSActual: f64(1.46), EPSEstimate: f64(1.39), SurprisePercent: f64(5.0)},
		{Date: "2023-08-03", Quarter: "Q2 2023", Revenue: f64(81797), EPSActual: f64(1.26), EPSEstimate: f64(1.19), SurprisePercent: f64(5.9)},
		{Date: "2023-05-04", Quarter: "Q1 2023", Revenue: f64(94836), EPSActual: f64(1.52), EPSEstimate: f64(1.43), SurprisePercent: f64(6.3)},
		{Date: "2023-02-02", Quarter: "Q4 2022", Revenue: f64(117154), EPSActual: f64(1.88), EPSEstimate: f64(1.94), SurprisePercent: f64(-3.1)},
		{Date: "2022-10-27", Quarter: "Q3 2022", Revenue: nil, EPSActual: f64(1.29), EPSEstimate: nil, SurprisePercent: nil},
	}
	return &investoredge.HistoricalData{
		Ticker:   ticker,
		Quarters: quarters,
		Analysis: investoredge.HistoricalAnalysis{
			RevenueGrowth:  f64(6.1),
			EPSGrowth:      f64(12.3),
			AvgSurprise:    f64(3.2),
			Volatility:     nil,
			TrendDirection: investoredge.TrendGrowing,
		},
	}
}

// SampleAnalysis returns a structured transcript analysis with every
// section present.
func SampleAnalysis() *investoredge.TranscriptAnalysis {
	return &investoredge.TranscriptAnalysis{
		ExecutiveSummary: "Strong quarter with record services revenue.",
		ToneAnalysis: &investoredge.ToneAnalysis{
			ConfidenceLevel:     "High",
			ToneCharacteristics: []string{"optimistic", "measured"},
		},
		KeyTopics: []investoredge.KeyTopic{
			{Topic: "Services", Description: "Double digit growth"},
		},
		FinancialHighlights: &investoredge.FinancialHighlights{Revenue: "$94.9B, up 6%"},
		ForwardGuidance:     &investoredge.ForwardGuidance{ExplicitGuidance: "Revenue growth in low to mid single digits"},
		ManagementInsights:  &investoredge.ManagementInsights{StrategicPriorities: []string{"AI features"}},
		RiskFactors: []investoredge.RiskFactor{
			{Risk: "China demand", Severity: "High", Description: "Softer iPhone demand"},
		},
		QAInsights:    &investoredge.QAInsights{AnalystConcerns: []string{"Gross margin"}},
		NotableQuotes: []string{"We are thrilled with our results."},
		InvestmentImplications: &investoredge.InvestmentImplications{
			BullCase:          []string{"Services flywheel"},
			BearCase:          []string{"Hardware saturation"},
			OverallAssessment: "Positive",
		},
	}
}

// Seed loads the sample fixtures for every sample company.
func (s *Server) Seed() {
	companies := SampleCompanies()
	s.SetCompanies(companies...)
	for i, c := range companies {
		s.SetSummary(SampleSummary(c.Ticker, float64(i)-1.5))
		s.SetHistorical(SampleHistorical(c.Ticker))
		s.SetAnalysis(c.Ticker, SampleAnalysis())
		s.SetTranscript(&investoredge.Transcript{
			Ticker:  c.Ticker,
			Quarter: "Q3 2024",
			Content: c.Name + " earnings call transcript.",
			Date:    "2024-10-31",
		})
	}
}
