package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"investoredge/internal/config"
	"investoredge/internal/dashboard"
	"investoredge/internal/detail"
	"investoredge/internal/transcript"
	"investoredge/internal/util"
	"investoredge/pkg/investoredge"
)

var commands = map[string]func(*app, []string) error{
	"companies":      (*app).companies,
	"summary":        (*app).summary,
	"historical":     (*app).historical,
	"transcript":     (*app).transcript,
	"raw-transcript": (*app).rawTranscript,
}

type app struct {
	client   *investoredge.Client
	logger   *slog.Logger
	out      io.Writer
	json     bool
	limit    int
	timeout  time.Duration
	attempts int
}

// newApp parses the common flags for cmd and builds the backend client.
func newApp(cmd string, args []string, stdout, stderr io.Writer) (*app, []string, error) {
	cfg, err := config.Load(os.Getenv("EDGE_CONFIG"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", cfg.API.BaseURL, "backend base URL")
	asJSON := fs.Bool("json", false, "print the raw JSON response")
	limit := fs.Int("limit", cfg.Search.Limit, "maximum companies to list")
	timeout := fs.Duration("timeout", cfg.Transcript.Timeout, "transcript analysis timeout")
	attempts := fs.Int("attempts", 3, "attempts for requests that fail with a server error")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg.API.BaseURL = *apiURL
	cfg.Transcript.Timeout = *timeout
	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, nil, fmt.Errorf("config: %s", strings.Join(issues, "; "))
	}

	logger := util.NewLogger(stderr, cfg.Logging.Level, cfg.Logging.Format)
	client := investoredge.NewClient(cfg.API.BaseURL,
		investoredge.WithTimeout(cfg.API.Timeout),
		investoredge.WithRateLimit(cfg.API.RateLimitPerSec),
		investoredge.WithLogger(logger),
	)
	return &app{
		client:   client,
		logger:   logger,
		out:      stdout,
		json:     *asJSON,
		limit:    *limit,
		timeout:  cfg.Transcript.Timeout,
		attempts: *attempts,
	}, fs.Args(), nil
}

// retryable reports whether a request is worth repeating. Client errors
// (4xx) and expired deadlines are final.
func retryable(err error) bool {
	if apiErr, ok := investoredge.AsAPIError(err); ok {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled)
}

func (a *app) do(ctx context.Context, what string, fn func() error) error {
	attempt := 0
	return util.Retry(ctx, a.attempts, 500*time.Millisecond, retryable, func() error {
		attempt++
		err := fn()
		if err != nil {
			a.logger.Debug("request failed", "what", what, "attempt", attempt, "error", err)
		}
		return err
	})
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func tickerArg(args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("expected exactly one ticker")
	}
	return strings.ToUpper(strings.TrimSpace(args[0])), nil
}

// ---------------------------------------------------------------------------
// companies
// ---------------------------------------------------------------------------

func (a *app) companies(args []string) error {
	search := strings.Join(args, " ")
	ctx := context.Background()

	var page *investoredge.CompaniesResponse
	err := a.do(ctx, "companies", func() error {
		var err error
		page, err = a.client.ListCompaniesPage(ctx, a.limit, search)
		return err
	})
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(page)
	}

	if len(page.Companies) == 0 {
		fmt.Fprintln(a.out, "No companies found")
		return nil
	}
	fmt.Fprintf(a.out, "%-7s %-36s %-26s %10s\n", "TICKER", "NAME", "SECTOR", "MKT CAP")
	for _, c := range page.Companies {
		fmt.Fprintf(a.out, "%-7s %-36s %-26s %10s\n",
			c.Ticker, trunc(c.Name, 36), trunc(dashboard.OrNA(c.Sector), 26), dashboard.FormatCurrencyCompact(c.MarketCap))
	}
	more := ""
	if page.HasMore {
		more = " (more available, raise -limit)"
	}
	fmt.Fprintf(a.out, "\n%s of %s companies%s\n",
		dashboard.FormatInt(len(page.Companies)), dashboard.FormatInt(page.Total), more)
	return nil
}

// ---------------------------------------------------------------------------
// summary
// ---------------------------------------------------------------------------

func (a *app) summary(args []string) error {
	ticker, err := tickerArg(args)
	if err != nil {
		return err
	}
	ctx := context.Background()

	var s *investoredge.Summary
	err = a.do(ctx, "summary", func() error {
		var err error
		s, err = a.client.GetSummary(ctx, ticker)
		return err
	})
	if err != nil {
		a.logger.Error("loading summary", "ticker", ticker, "error", err)
		return errors.New(detail.SummaryError(ticker))
	}
	if a.json {
		return a.printJSON(s)
	}

	d := detail.Derive(s)
	fmt.Fprintf(a.out, "%s  %s  %s\n\n", s.Ticker, s.Quarter, s.Date)
	fmt.Fprintf(a.out, "  Sentiment   %s (%s)\n", d.Score, d.Sentiment.Label)
	fmt.Fprintf(a.out, "  Price       %s   Market cap %s   P/E %s\n", d.Price, d.MarketCap, d.PERatio)
	fmt.Fprintf(a.out, "  52 weeks    %s - %s\n", d.YearLow, d.YearHigh)
	fmt.Fprintf(a.out, "  Analysts    %s   Target %s\n", d.RecLabel, d.TargetPrice)
	fmt.Fprintf(a.out, "  KPIs        Revenue %s   EPS %s   Guidance %s\n",
		dashboard.OrNA(s.KPIs.Revenue), dashboard.OrNA(s.KPIs.EPS), dashboard.OrNA(s.KPIs.Guidance))

	fmt.Fprintln(a.out)
	for _, sec := range detail.SummarySections(s.Summary) {
		if sec.Title != "" {
			fmt.Fprintf(a.out, "%s:\n", sec.Title)
		}
		fmt.Fprintf(a.out, "  %s\n", sec.Body)
	}

	if g := s.Guidance; g != nil {
		fmt.Fprintf(a.out, "\nGuidance (confidence %s):\n", dashboard.OrNA(g.GuidanceConfidence))
		for _, item := range detail.GuidanceItems(g) {
			fmt.Fprintf(a.out, "  %-10s %s\n", item.Label, item.Value)
		}
		for _, it := range g.KeyInitiatives {
			fmt.Fprintf(a.out, "  - %s\n", it)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// historical
// ---------------------------------------------------------------------------

func (a *app) historical(args []string) error {
	ticker, err := tickerArg(args)
	if err != nil {
		return err
	}
	ctx := context.Background()

	var h *investoredge.HistoricalData
	err = a.do(ctx, "historical", func() error {
		var err error
		h, err = a.client.GetHistorical(ctx, ticker)
		return err
	})
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(h)
	}

	an := h.Analysis
	fmt.Fprintf(a.out, "%s  trend %s\n\n", h.Ticker, dashboard.TrendDirectionLabel(an.TrendDirection))
	fmt.Fprintf(a.out, "  Revenue growth  %s %s\n", dashboard.TrendArrow(an.RevenueGrowth), dashboard.FormatSignedPercent(an.RevenueGrowth))
	fmt.Fprintf(a.out, "  EPS growth      %s %s\n", dashboard.TrendArrow(an.EPSGrowth), dashboard.FormatSignedPercent(an.EPSGrowth))
	fmt.Fprintf(a.out, "  Avg surprise    %s\n", dashboard.FormatSignedPercent(an.AvgSurprise))
	fmt.Fprintf(a.out, "  Volatility      %s\n\n", dashboard.FormatPercent(an.Volatility))

	fmt.Fprintf(a.out, "%-9s %-11s %10s %8s %8s %9s\n", "QUARTER", "DATE", "REVENUE", "EPS", "EST", "SURPRISE")
	for _, q := range detail.RecentQuarters(h, detail.ChartQuarters) {
		fmt.Fprintf(a.out, "%-9s %-11s %10s %8s %8s %9s\n",
			q.Quarter, q.Date,
			dashboard.FormatMillionsCompact(q.Revenue),
			dashboard.FormatEPS(q.EPSActual),
			dashboard.FormatEPS(q.EPSEstimate),
			dashboard.FormatSignedPercent(q.SurprisePercent),
		)
	}

	series := detail.ChartSeries(h, detail.ChartQuarters)
	if len(series) > 0 {
		fmt.Fprintf(a.out, "\nRevenue  %s\n", dashboard.Sparkline(detail.Revenues(series)))
		fmt.Fprintf(a.out, "EPS      %s\n", dashboard.Sparkline(detail.EPS(series)))
	}
	return nil
}

// ---------------------------------------------------------------------------
// transcript
// ---------------------------------------------------------------------------

func (a *app) transcript(args []string) error {
	ticker, err := tickerArg(args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	var an *investoredge.TranscriptAnalysis
	err = a.do(ctx, "transcript", func() error {
		var err error
		an, err = a.client.GetTranscriptAnalysis(ctx, ticker)
		return err
	})
	if err != nil {
		a.logger.Debug("transcript analysis", "ticker", ticker, "error", err)
		return errors.New(transcript.Classify(err).Message)
	}
	if a.json {
		return a.printJSON(investoredge.TranscriptAnalysisResponse{Ticker: ticker, Analysis: an})
	}
	if an == nil {
		fmt.Fprintln(a.out, transcript.NoAnalysisText)
		return nil
	}
	if an.IsParseFailure() {
		fmt.Fprintf(a.out, "%s: the analysis could not be structured. Raw output:\n\n", ticker)
		fmt.Fprintln(a.out, transcript.Excerpt(an.RawAnalysis, transcript.ExcerptLimit))
		return nil
	}

	fmt.Fprintf(a.out, "%s earnings call analysis\n\n", ticker)
	fmt.Fprintf(a.out, "%s\n\n", dashboard.OrNA(an.ExecutiveSummary))
	if t := an.ToneAnalysis; t != nil {
		fmt.Fprintf(a.out, "Management confidence: %s\n", dashboard.OrNA(t.ConfidenceLevel))
	}
	for _, r := range an.RiskFactors {
		fmt.Fprintf(a.out, "Risk [%s] %s: %s\n", dashboard.OrNA(r.Severity), r.Risk, r.Description)
	}
	if ii := an.InvestmentImplications; ii != nil && ii.OverallAssessment != "" {
		fmt.Fprintf(a.out, "Overall assessment: %s\n", ii.OverallAssessment)
	}

	var sections []string
	for _, tab := range transcript.Tabs() {
		if transcript.HasSection(an, tab) {
			sections = append(sections, tab.String())
		}
	}
	fmt.Fprintf(a.out, "\nSections: %s\n", strings.Join(sections, ", "))
	return nil
}

// ---------------------------------------------------------------------------
// raw-transcript
// ---------------------------------------------------------------------------

func (a *app) rawTranscript(args []string) error {
	ticker, err := tickerArg(args)
	if err != nil {
		return err
	}
	ctx := context.Background()

	var t *investoredge.Transcript
	err = a.do(ctx, "raw-transcript", func() error {
		var err error
		t, err = a.client.GetTranscript(ctx, ticker)
		return err
	})
	if err != nil {
		return err
	}
	if a.json {
		return a.printJSON(t)
	}
	fmt.Fprintf(a.out, "%s  %s  %s\n\n%s\n", t.Ticker, t.Quarter, t.Date, t.Content)
	return nil
}

func trunc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
