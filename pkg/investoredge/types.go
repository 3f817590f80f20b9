package investoredge

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseFailureSentinel is the executive summary the analysis pipeline emits
// when it could not structure its own output. RawAnalysis then carries the
// unstructured text.
const ParseFailureSentinel = "Analysis parsing error - see raw content"

// FlexString handles JSON values that may be either a string or a number.
// The summary endpoint scrapes its market fields from text, so the same
// field arrives as "150.00" from one source and 150 from another.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexString(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexString(strconv.FormatBool(b))
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into string", string(data))
}

// String returns the value as a plain string.
func (f FlexString) String() string { return string(f) }

// ---------------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------------

// Company identifies a listed company. Ticker is the identity key.
type Company struct {
	Ticker      string   `json:"ticker"`
	Name        string   `json:"name"`
	Sector      string   `json:"sector,omitempty"`
	SubIndustry string   `json:"sub_industry,omitempty"`
	Exchange    string   `json:"exchange,omitempty"`
	MarketCap   *float64 `json:"market_cap,omitempty"`
	IsSP500     bool     `json:"is_sp500,omitempty"`
}

// CompaniesResponse is the body of GET /api/companies.
type CompaniesResponse struct {
	Companies []Company `json:"companies"`
	Total     int       `json:"total"`
	HasMore   bool      `json:"has_more"`
}

// ---------------------------------------------------------------------------
// Summaries
// ---------------------------------------------------------------------------

// KPIs are the headline figures extracted from the latest earnings release.
type KPIs struct {
	Revenue  string `json:"revenue"`
	EPS      string `json:"eps"`
	Guidance string `json:"guidance"`
}

// FinancialData holds market fields as the backend reports them. All values
// are display strings; MarketCap may contain comma grouping.
type FinancialData struct {
	CurrentPrice   FlexString `json:"currentPrice,omitempty"`
	MarketCap      FlexString `json:"marketCap,omitempty"`
	YearHigh       FlexString `json:"yearHigh,omitempty"`
	YearLow        FlexString `json:"yearLow,omitempty"`
	PERatio        FlexString `json:"peRatio,omitempty"`
	RevenueGrowth  FlexString `json:"revenueGrowth,omitempty"`
	ProfitMargins  FlexString `json:"profitMargins,omitempty"`
	EPSTrailing    FlexString `json:"epsTrailing,omitempty"`
	Recommendation FlexString `json:"recommendation,omitempty"`
	TargetPrice    FlexString `json:"targetPrice,omitempty"`
}

// Guidance holds forward-looking statements extracted from the summary.
type Guidance struct {
	RevenueGuidance    string   `json:"revenue_guidance,omitempty"`
	EPSGuidance        string   `json:"eps_guidance,omitempty"`
	FullYearGuidance   string   `json:"full_year_guidance,omitempty"`
	GrowthExpectations string   `json:"growth_expectations,omitempty"`
	KeyInitiatives     []string `json:"key_initiatives,omitempty"`
	GuidanceConfidence string   `json:"guidance_confidence,omitempty"`
}

// Summary is the AI earnings summary for one ticker's latest quarter.
type Summary struct {
	Ticker         string         `json:"ticker"`
	Quarter        string         `json:"quarter"`
	Date           string         `json:"date,omitempty"`
	Summary        string         `json:"summary"`
	SentimentScore float64        `json:"sentiment_score"`
	KPIs           KPIs           `json:"kpis"`
	FinancialData  *FinancialData `json:"financial_data,omitempty"`
	Guidance       *Guidance      `json:"guidance,omitempty"`
}

// ---------------------------------------------------------------------------
// Historical earnings
// ---------------------------------------------------------------------------

// Trend directions reported by the historical analysis.
const (
	TrendGrowing   = "growing"
	TrendDeclining = "declining"
	TrendMixed     = "mixed"
	TrendNeutral   = "neutral"
)

// QuarterRecord is one reported quarter. Revenue and Earnings are in
// millions of dollars.
type QuarterRecord struct {
	Date            string   `json:"date"`
	Quarter         string   `json:"quarter"`
	Revenue         *float64 `json:"revenue"`
	Earnings        *float64 `json:"earnings"`
	EPSActual       *float64 `json:"eps_actual"`
	EPSEstimate     *float64 `json:"eps_estimate"`
	SurprisePercent *float64 `json:"surprise_percent"`
	PriceOnDate     *float64 `json:"price_on_date"`
}

// TrendPoint is a dated value in a metric series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// HistoricalMetrics holds the series derived from the quarter records.
type HistoricalMetrics struct {
	RevenueTrend  []TrendPoint `json:"revenue_trend"`
	EPSTrend      []TrendPoint `json:"eps_trend"`
	EarningsDates []string     `json:"earnings_dates"`
}

// HistoricalAnalysis summarises growth across the reported quarters.
// Growth and surprise values are percentages.
type HistoricalAnalysis struct {
	RevenueGrowth  *float64 `json:"revenue_growth"`
	EPSGrowth      *float64 `json:"eps_growth"`
	AvgSurprise    *float64 `json:"avg_surprise"`
	Volatility     *float64 `json:"volatility"`
	TrendDirection string   `json:"trend_direction"`
}

// HistoricalData is the body of GET /api/historical/{ticker}. Quarters are
// ordered newest first.
type HistoricalData struct {
	Ticker   string             `json:"ticker"`
	Quarters []QuarterRecord    `json:"quarters"`
	Metrics  HistoricalMetrics  `json:"metrics"`
	Analysis HistoricalAnalysis `json:"analysis"`
}

// ---------------------------------------------------------------------------
// Transcripts
// ---------------------------------------------------------------------------

// Transcript is the raw earnings material for a ticker.
type Transcript struct {
	Ticker  string `json:"ticker"`
	Quarter string `json:"quarter"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// ToneAnalysis describes management tone on the call.
type ToneAnalysis struct {
	ConfidenceLevel     string   `json:"confidence_level,omitempty"`
	ToneCharacteristics []string `json:"tone_characteristics,omitempty"`
	ToneChanges         string   `json:"tone_changes,omitempty"`
	EmotionalIndicators string   `json:"emotional_indicators,omitempty"`
}

// KeyTopic is one theme discussed on the call.
type KeyTopic struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// FinancialHighlights are the call's headline financial statements.
type FinancialHighlights struct {
	Revenue       string `json:"revenue,omitempty"`
	Profitability string `json:"profitability,omitempty"`
	CashFlow      string `json:"cash_flow,omitempty"`
	Guidance      string `json:"guidance,omitempty"`
}

// ForwardGuidance covers explicit and implied outlook.
type ForwardGuidance struct {
	ExplicitGuidance     string   `json:"explicit_guidance,omitempty"`
	ImplicitExpectations string   `json:"implicit_expectations,omitempty"`
	GrowthDrivers        []string `json:"growth_drivers,omitempty"`
	InvestmentAreas      []string `json:"investment_areas,omitempty"`
	Timeline             string   `json:"timeline,omitempty"`
}

// ManagementInsights describes strategy as presented by management.
type ManagementInsights struct {
	StrategicPriorities    []string `json:"strategic_priorities,omitempty"`
	CompetitivePositioning string   `json:"competitive_positioning,omitempty"`
	MarketOpportunity      string   `json:"market_opportunity,omitempty"`
	OperationalFocus       []string `json:"operational_focus,omitempty"`
	CapitalAllocation      string   `json:"capital_allocation,omitempty"`
}

// RiskFactor is one risk raised on the call. Severity is High, Medium or Low.
type RiskFactor struct {
	Risk        string `json:"risk"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// QAInsights summarises the analyst Q&A.
type QAInsights struct {
	AnalystConcerns []string `json:"analyst_concerns,omitempty"`
	ResponseQuality string   `json:"response_quality,omitempty"`
	DeflectedTopics []string `json:"deflected_topics,omitempty"`
	NewInformation  []string `json:"new_information,omitempty"`
}

// InvestmentImplications is the bull/bear view derived from the call.
type InvestmentImplications struct {
	BullCase          []string `json:"bull_case,omitempty"`
	BearCase          []string `json:"bear_case,omitempty"`
	KeyMetrics        []string `json:"key_metrics,omitempty"`
	OverallAssessment string   `json:"overall_assessment,omitempty"`
}

// TranscriptAnalysis is the structured analysis of an earnings call. Every
// section is optional. RawAnalysis is either a JSON string or an arbitrary
// JSON value and is only meaningful when ExecutiveSummary equals
// ParseFailureSentinel.
type TranscriptAnalysis struct {
	ExecutiveSummary       string                  `json:"executive_summary,omitempty"`
	RawAnalysis            json.RawMessage         `json:"raw_analysis,omitempty"`
	ToneAnalysis           *ToneAnalysis           `json:"tone_analysis,omitempty"`
	KeyTopics              []KeyTopic              `json:"key_topics,omitempty"`
	FinancialHighlights    *FinancialHighlights    `json:"financial_highlights,omitempty"`
	ForwardGuidance        *ForwardGuidance        `json:"forward_guidance,omitempty"`
	ManagementInsights     *ManagementInsights     `json:"management_insights,omitempty"`
	RiskFactors            []RiskFactor            `json:"risk_factors,omitempty"`
	QAInsights             *QAInsights             `json:"qa_insights,omitempty"`
	NotableQuotes          []string                `json:"notable_quotes,omitempty"`
	InvestmentImplications *InvestmentImplications `json:"investment_implications,omitempty"`
}

// HasRawAnalysis reports whether a non-null raw analysis value is present.
func (a *TranscriptAnalysis) HasRawAnalysis() bool {
	return len(a.RawAnalysis) > 0 && string(a.RawAnalysis) != "null"
}

// IsParseFailure reports whether the payload is the degraded shape: the
// sentinel executive summary together with a raw analysis value.
func (a *TranscriptAnalysis) IsParseFailure() bool {
	return a.ExecutiveSummary == ParseFailureSentinel && a.HasRawAnalysis()
}

// TranscriptAnalysisResponse is the body of GET /api/transcript/{ticker}.
type TranscriptAnalysisResponse struct {
	Ticker   string              `json:"ticker,omitempty"`
	Analysis *TranscriptAnalysis `json:"analysis"`
}
