package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"investoredge/internal/dashboard"
	"investoredge/internal/detail"
	"investoredge/internal/overview"
	"investoredge/internal/transcript"
	"investoredge/pkg/investoredge"
)

// cardWidth is the outer width of one overview card, border included.
const cardWidth = 28

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var headerBar string
	if m.modal.IsOpen() {
		headerText := fmt.Sprintf(" Transcript Analysis  %s    %s ", m.modal.Ticker(), m.modal.ActiveTab())
		headerBar = modalBarStyle.Render(padOrTrunc(headerText, m.width))
	} else {
		headerBar = headerStyle.Render(padOrTrunc(m.headerText(), m.width))
	}

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := m.footerHints()
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerLeft) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footerBar := footerStyle.Render(padOrTrunc(footerLeft+strings.Repeat(" ", gap)+footerRight, m.width))

	return headerBar + "\n" + m.input.View() + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) headerText() string {
	done, total := m.overview.Progress()
	var scores []*float64
	for _, e := range m.overview.Entries() {
		if !e.Loading {
			scores = append(scores, e.Score())
		}
	}
	mix := dashboard.MixOf(scores)
	return fmt.Sprintf(
		" InvestorEdge  %s    overview: %d/%d    ▲%d ●%d ▼%d ",
		m.backendURL, done, total,
		mix.VeryPositive+mix.Positive, mix.Neutral, mix.Negative+mix.VeryNegative,
	)
}

func (m model) footerHints() string {
	switch {
	case m.modal.IsOpen():
		return " esc close  left/right tab  up/dn scroll  r retry"
	case m.input.Focused():
		return " type to search  up/dn choose  enter open  esc cancel"
	case m.screen == screenDetail:
		return " esc back  t trends  a transcript analysis  r retry  / search  q quit"
	default:
		return " arrows select  enter open  / search  r reload  q quit"
	}
}

func (m model) gridColumns() int {
	cols := m.width / cardWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m model) renderContent() string {
	var b strings.Builder
	if m.search.Open() && m.input.Focused() {
		m.renderDropdown(&b)
		b.WriteString("\n")
	}
	switch {
	case m.modal.IsOpen():
		m.renderModal(&b)
	case m.screen == screenDetail:
		m.renderDetail(&b)
	default:
		m.renderOverview(&b)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Search dropdown
// ---------------------------------------------------------------------------

func (m model) renderDropdown(b *strings.Builder) {
	if hint := m.search.Hint(); hint != "" {
		if m.search.Loading() {
			hint = m.spinner.View() + " " + hint
		}
		b.WriteString(dimStyle.Render("   " + hint))
		b.WriteString("\n")
	}
	for i, c := range m.search.Results() {
		hl := i == m.search.Cursor()
		sym := tickerStyle
		if hl {
			sym = tickerHlStyle
		}
		b.WriteString(hlStyle(lipgloss.NewStyle(), hl).Render("   "))
		b.WriteString(hlStyle(sym, hl).Render(fmt.Sprintf("%-6s", c.Ticker)))
		b.WriteString(hlStyle(lipgloss.NewStyle(), hl).Render("  " + c.Name))
		if c.Sector != "" {
			b.WriteString(hlStyle(dimStyle, hl).Render("  " + c.Sector))
		}
		b.WriteString("\n")
	}
}

// ---------------------------------------------------------------------------
// Overview
// ---------------------------------------------------------------------------

func (m model) renderOverview(b *strings.Builder) {
	b.WriteString(sectionStyle.Render(" Market Overview"))
	b.WriteString("\n\n")

	entries := m.overview.Entries()
	switch {
	case m.overview.State() == overview.LoadingRoster:
		b.WriteString("  " + m.spinner.View() + dimStyle.Render(" Loading companies..."))
		b.WriteString("\n")
		return
	case len(entries) == 0:
		b.WriteString(dimStyle.Render("  No companies available. Press r to reload."))
		b.WriteString("\n")
		return
	}

	cols := m.gridColumns()
	for start := 0; start < len(entries); start += cols {
		end := start + cols
		if end > len(entries) {
			end = len(entries)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(entries[i], i == m.selected))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n")
	}
}

func (m model) renderCard(e *overview.Entry, hl bool) string {
	inner := cardWidth - 4
	var badge string
	switch {
	case e.Loading:
		badge = m.spinner.View()
	case e.Summary == nil:
		badge = dimStyle.Render(dashboard.NA)
	default:
		score := e.Score()
		badge = tone(dashboard.BadgeIntensity(score)).Render(dashboard.FormatScore(score))
	}
	sym := tickerStyle
	if hl {
		sym = tickerHlStyle
	}
	gap := inner - len(e.Company.Ticker) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	lines := []string{
		sym.Render(e.Company.Ticker) + strings.Repeat(" ", gap) + badge,
		padOrTrunc(e.Company.Name, inner),
		dimStyle.Render(padOrTrunc(dashboard.OrNA(e.Company.Sector), inner)),
	}
	if e.Summary != nil {
		band := dashboard.SentimentBand(e.Summary.SentimentScore)
		lines = append(lines, tone(band.Style()).Render(band.Label)+dimStyle.Render("  "+e.Summary.Quarter))
	} else if e.Loading {
		lines = append(lines, dimStyle.Render("loading summary"))
	} else {
		lines = append(lines, dimStyle.Render("summary unavailable"))
	}
	style := cardStyle
	if hl {
		style = cardHlStyle
	}
	return style.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// ---------------------------------------------------------------------------
// Detail
// ---------------------------------------------------------------------------

func (m model) renderDetail(b *strings.Builder) {
	ticker := m.detail.Ticker()
	switch m.detail.State() {
	case detail.Loading:
		b.WriteString("  " + m.spinner.View() + dimStyle.Render(" Loading "+ticker+"..."))
		b.WriteString("\n")
		return
	case detail.Failed:
		b.WriteString("\n  " + errorStyle.Render(m.detail.Error()))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  r retry  esc back"))
		b.WriteString("\n")
		return
	case detail.Closed:
		return
	}

	s := m.detail.Summary()
	if s == nil {
		return
	}
	d := detail.Derive(s)
	width := m.width - 4

	b.WriteString(" " + tickerStyle.Render(s.Ticker) + "  " + titleStyle.Render(s.Quarter))
	if s.Date != "" {
		b.WriteString(dimStyle.Render("  " + s.Date))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s %s  %s\n",
		colHeaderStyle.Render("Sentiment"),
		tone(d.Intensity).Render(d.Score),
		tone(d.Sentiment.Style()).Render(d.Sentiment.Label),
	))
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s - %s   %s %s\n",
		colHeaderStyle.Render("Price"), d.Price,
		colHeaderStyle.Render("Mkt Cap"), d.MarketCap,
		colHeaderStyle.Render("52w"), d.YearLow, d.YearHigh,
		colHeaderStyle.Render("P/E"), d.PERatio,
	))
	b.WriteString(fmt.Sprintf("  %s %s   %s %s\n",
		colHeaderStyle.Render("Target"), d.TargetPrice,
		colHeaderStyle.Render("Analysts"), tone(d.Recommendation).Render(d.RecLabel),
	))
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s\n",
		colHeaderStyle.Render("Revenue"), dashboard.OrNA(s.KPIs.Revenue),
		colHeaderStyle.Render("EPS"), dashboard.OrNA(s.KPIs.EPS),
		colHeaderStyle.Render("Guidance"), dashboard.OrNA(s.KPIs.Guidance),
	))

	writeSection(b, "Summary", width)
	for _, sec := range detail.SummarySections(s.Summary) {
		if sec.Title != "" {
			b.WriteString("  " + titleStyle.Render(sec.Title) + "\n")
		}
		b.WriteString(wrap(sec.Body, width, "  "))
		b.WriteString("\n")
	}

	if g := s.Guidance; g != nil {
		writeSection(b, "Forward Guidance", width)
		if g.GuidanceConfidence != "" {
			b.WriteString("  " + colHeaderStyle.Render("Confidence ") + tone(d.Confidence).Render(g.GuidanceConfidence) + "\n")
		}
		for _, item := range detail.GuidanceItems(g) {
			writeField(b, item.Label, item.Value, width)
		}
		writeList(b, "Key initiatives", g.KeyInitiatives, width)
	}

	writeSection(b, "Historical Trends", width)
	if !m.detail.TrendsVisible() {
		b.WriteString(dimStyle.Render("  press t to show"))
		b.WriteString("\n")
	} else {
		m.renderTrends(b)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  press a for the earnings call transcript analysis"))
	b.WriteString("\n")
}

func (m model) renderTrends(b *strings.Builder) {
	switch m.detail.Trends() {
	case detail.TrendsLoading, detail.TrendsIdle:
		b.WriteString("  " + m.spinner.View() + dimStyle.Render(" Loading historical data..."))
		b.WriteString("\n")
		return
	case detail.TrendsUnavailable:
		b.WriteString(dimStyle.Render("  " + detail.UnavailableText))
		b.WriteString("\n")
		return
	}

	h := m.detail.Historical()
	a := h.Analysis
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s   %s %s\n",
		colHeaderStyle.Render("Revenue growth"), tone(dashboard.TrendStyle(a.RevenueGrowth)).Render(dashboard.TrendArrow(a.RevenueGrowth)+" "+dashboard.FormatSignedPercent(a.RevenueGrowth)),
		colHeaderStyle.Render("EPS growth"), tone(dashboard.TrendStyle(a.EPSGrowth)).Render(dashboard.TrendArrow(a.EPSGrowth)+" "+dashboard.FormatSignedPercent(a.EPSGrowth)),
		colHeaderStyle.Render("Avg surprise"), dashboard.FormatSignedPercent(a.AvgSurprise),
		colHeaderStyle.Render("Trend"), tone(dashboard.TrendDirectionStyle(a.TrendDirection)).Render(dashboard.TrendDirectionLabel(a.TrendDirection)),
	))
	b.WriteString("\n")

	b.WriteString(colHeaderStyle.Render(fmt.Sprintf("  %-9s %-11s %10s %8s %8s %9s", "Quarter", "Date", "Revenue", "EPS", "Est", "Surprise")))
	b.WriteString("\n")
	for _, q := range detail.RecentQuarters(h, detail.TableQuarters) {
		surprise := fmt.Sprintf("%9s", dashboard.FormatSignedPercent(q.SurprisePercent))
		b.WriteString(fmt.Sprintf("  %-9s %-11s %10s %8s %8s ",
			q.Quarter, q.Date,
			dashboard.FormatMillionsCompact(q.Revenue),
			dashboard.FormatEPS(q.EPSActual),
			dashboard.FormatEPS(q.EPSEstimate),
		))
		b.WriteString(tone(dashboard.TrendStyle(q.SurprisePercent)).Render(surprise))
		b.WriteString("\n")
	}

	series := detail.ChartSeries(h, detail.ChartQuarters)
	if len(series) == 0 {
		return
	}
	b.WriteString("\n")
	span := series[0].Quarter + " → " + series[len(series)-1].Quarter
	b.WriteString(fmt.Sprintf("  %s %s  %s\n", colHeaderStyle.Render("Revenue"), tickerStyle.Render(dashboard.Sparkline(detail.Revenues(series))), dimStyle.Render(span)))
	b.WriteString(fmt.Sprintf("  %s     %s  %s\n", colHeaderStyle.Render("EPS"), tickerStyle.Render(dashboard.Sparkline(detail.EPS(series))), dimStyle.Render(span)))
}

// ---------------------------------------------------------------------------
// Transcript analysis modal
// ---------------------------------------------------------------------------

func (m model) renderModal(b *strings.Builder) {
	width := m.width - 4

	var tabs []string
	for _, t := range transcript.Tabs() {
		style := tabStyle
		switch {
		case t == m.modal.ActiveTab():
			style = tabActiveStyle
		case m.modal.Analysis() != nil && !m.modal.HasSection(t):
			style = tabEmptyStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	b.WriteString(" " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.modal.Loading() {
		b.WriteString("  " + m.spinner.View() + dimStyle.Render(" Analyzing the earnings call. This can take a while..."))
		b.WriteString("\n")
		return
	}
	if msg := m.modal.Message(); msg != "" {
		if m.modal.Err() != nil {
			b.WriteString("  " + errorStyle.Render(msg) + "\n\n")
			b.WriteString(dimStyle.Render("  r retry  esc close"))
		} else {
			b.WriteString(dimStyle.Render("  " + msg))
		}
		b.WriteString("\n")
		return
	}

	a := m.modal.Analysis()
	if a == nil {
		return
	}
	tab := m.modal.ActiveTab()
	if tab != transcript.TabOverview && !m.modal.HasSection(tab) {
		b.WriteString(dimStyle.Render("  No data for this section"))
		b.WriteString("\n")
		return
	}

	switch tab {
	case transcript.TabOverview:
		renderAnalysisOverview(b, m.modal, a, width)
	case transcript.TabTone:
		t := a.ToneAnalysis
		b.WriteString("  " + colHeaderStyle.Render("Management confidence ") + tone(dashboard.ConfidenceBand(t.ConfidenceLevel)).Render(dashboard.OrNA(t.ConfidenceLevel)) + "\n")
		writeList(b, "Tone", t.ToneCharacteristics, width)
		writeField(b, "Tone changes", t.ToneChanges, width)
		writeField(b, "Emotional indicators", t.EmotionalIndicators, width)
	case transcript.TabTopics:
		for _, kt := range a.KeyTopics {
			b.WriteString("  " + titleStyle.Render(kt.Topic) + "\n")
			b.WriteString(wrap(kt.Description, width, "    "))
			b.WriteString("\n")
		}
	case transcript.TabGuidance:
		g := a.ForwardGuidance
		writeField(b, "Explicit guidance", g.ExplicitGuidance, width)
		writeField(b, "Implicit expectations", g.ImplicitExpectations, width)
		writeList(b, "Growth drivers", g.GrowthDrivers, width)
		writeList(b, "Investment areas", g.InvestmentAreas, width)
		writeField(b, "Timeline", g.Timeline, width)
	case transcript.TabRisks:
		for _, r := range a.RiskFactors {
			sev := tone(dashboard.SeverityStyle(r.Severity)).Render(fmt.Sprintf("[%s]", dashboard.OrNA(r.Severity)))
			b.WriteString("  " + sev + " " + titleStyle.Render(r.Risk) + "\n")
			b.WriteString(wrap(r.Description, width, "    "))
			b.WriteString("\n")
		}
	case transcript.TabQA:
		q := a.QAInsights
		writeList(b, "Analyst concerns", q.AnalystConcerns, width)
		writeField(b, "Response quality", q.ResponseQuality, width)
		writeList(b, "Deflected topics", q.DeflectedTopics, width)
		writeList(b, "New information", q.NewInformation, width)
	case transcript.TabInvestment:
		renderInvestment(b, a, width)
	}
}

func renderAnalysisOverview(b *strings.Builder, modal *transcript.Modal, a *investoredge.TranscriptAnalysis, width int) {
	if excerpt, ok := modal.ParseFailure(); ok {
		b.WriteString("  " + errorStyle.Render("The analysis could not be structured. Raw output:") + "\n\n")
		b.WriteString(wrap(excerpt, width, "  "))
		b.WriteString("\n")
		return
	}
	writeSection(b, "Executive Summary", width)
	b.WriteString(wrap(dashboard.OrNA(a.ExecutiveSummary), width, "  "))
	b.WriteString("\n")
	if fh := a.FinancialHighlights; fh != nil {
		writeSection(b, "Financial Highlights", width)
		writeField(b, "Revenue", dashboard.OrNA(fh.Revenue), width)
		writeField(b, "Profitability", dashboard.OrNA(fh.Profitability), width)
		writeField(b, "Cash flow", dashboard.OrNA(fh.CashFlow), width)
		writeField(b, "Guidance", dashboard.OrNA(fh.Guidance), width)
	}
	if len(a.NotableQuotes) > 0 {
		writeSection(b, "Notable Quotes", width)
		for _, q := range a.NotableQuotes {
			b.WriteString(wrap("“"+q+"”", width, "  "))
			b.WriteString("\n")
		}
	}
}

func renderInvestment(b *strings.Builder, a *investoredge.TranscriptAnalysis, width int) {
	if ii := a.InvestmentImplications; ii != nil {
		if ii.OverallAssessment != "" {
			b.WriteString("  " + colHeaderStyle.Render("Overall ") + tone(dashboard.AssessmentStyle(ii.OverallAssessment)).Render(ii.OverallAssessment) + "\n")
		}
		writeList(b, "Bull case", ii.BullCase, width)
		writeList(b, "Bear case", ii.BearCase, width)
		writeList(b, "Key metrics to watch", ii.KeyMetrics, width)
	}
	if mi := a.ManagementInsights; mi != nil {
		writeSection(b, "Management Insights", width)
		writeList(b, "Strategic priorities", mi.StrategicPriorities, width)
		writeField(b, "Competitive positioning", dashboard.OrNA(mi.CompetitivePositioning), width)
		writeField(b, "Market opportunity", dashboard.OrNA(mi.MarketOpportunity), width)
		writeList(b, "Operational focus", mi.OperationalFocus, width)
		writeField(b, "Capital allocation", mi.CapitalAllocation, width)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func writeSection(b *strings.Builder, title string, width int) {
	b.WriteString("\n")
	header := " " + title + " "
	b.WriteString(sectionStyle.Render(header))
	if lineLen := width - len(header); lineLen > 0 {
		b.WriteString(dimStyle.Render(" " + strings.Repeat("─", lineLen)))
	}
	b.WriteString("\n")
}

func writeField(b *strings.Builder, label, value string, width int) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString("  " + colHeaderStyle.Render(label) + "\n")
	b.WriteString(wrap(value, width, "    "))
	b.WriteString("\n")
}

func writeList(b *strings.Builder, label string, items []string, width int) {
	if len(items) == 0 {
		return
	}
	b.WriteString("  " + colHeaderStyle.Render(label) + "\n")
	for _, it := range items {
		b.WriteString(wrap("• "+it, width, "    "))
		b.WriteString("\n")
	}
}

// wrap word-wraps text to width and indents every line.
func wrap(text string, width int, indent string) string {
	w := width - len(indent)
	if w < 20 {
		w = 20
	}
	wrapped := lipgloss.NewStyle().Width(w).Render(text)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = indent + strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-n)
}
