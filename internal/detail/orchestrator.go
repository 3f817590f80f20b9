// Package detail drives the company detail view: one summary fetch per
// selection, followed eagerly by a background historical fetch.
package detail

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"investoredge/internal/util"
	"investoredge/pkg/investoredge"
)

// Backend is the collaborator the orchestrator reads from.
type Backend interface {
	GetSummary(ctx context.Context, ticker string) (*investoredge.Summary, error)
	GetHistorical(ctx context.Context, ticker string) (*investoredge.HistoricalData, error)
}

// State is the detail view lifecycle.
type State int

const (
	Closed State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "closed"
	}
}

// TrendsState is the historical panel lifecycle.
type TrendsState int

const (
	TrendsIdle TrendsState = iota
	TrendsLoading
	TrendsReady
	TrendsUnavailable
)

// UnavailableText is shown in the trends panel when the historical fetch
// failed.
const UnavailableText = "Unable to load historical data"

// SummaryError is the message shown when the summary for ticker cannot be
// loaded.
func SummaryError(ticker string) string {
	return fmt.Sprintf("Failed to load summary for %s. Please make sure the backend is running.", ticker)
}

// Messages.
type summaryMsg struct {
	seq     uint64
	ticker  string
	summary *investoredge.Summary
	err     error
}

type historicalMsg struct {
	seq    uint64
	ticker string
	data   *investoredge.HistoricalData
	err    error
}

// Orchestrator owns the detail view for one ticker at a time. It is driven
// from a single bubbletea update loop.
type Orchestrator struct {
	backend Backend
	logger  *slog.Logger

	ticker  string
	state   State
	summary *investoredge.Summary
	errText string

	historical *investoredge.HistoricalData
	trends     TrendsState
	showTrends bool

	// seq tags the requests of the current selection. Responses carrying an
	// older seq, or another ticker, are discarded.
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an orchestrator backed by backend.
func New(backend Backend, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = util.Discard()
	}
	return &Orchestrator{backend: backend, logger: logger, ctx: context.Background()}
}

// Open shows ticker and requests its summary. A request still outstanding
// for a previous selection is cancelled and its response will be ignored.
func (o *Orchestrator) Open(ticker string) tea.Cmd {
	o.reset()
	o.ticker = ticker
	o.state = Loading

	ctx, cancel := context.WithCancel(context.Background())
	o.ctx, o.cancel = ctx, cancel
	seq := o.seq
	backend := o.backend
	o.logger.Info("loading summary", "ticker", ticker, "seq", seq)
	return func() tea.Msg {
		s, err := backend.GetSummary(ctx, ticker)
		return summaryMsg{seq: seq, ticker: ticker, summary: s, err: err}
	}
}

// Close leaves the detail view. Outstanding responses are ignored.
func (o *Orchestrator) Close() {
	o.reset()
	o.ticker = ""
	o.state = Closed
}

func (o *Orchestrator) reset() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.seq++
	o.summary = nil
	o.errText = ""
	o.historical = nil
	o.trends = TrendsIdle
	o.showTrends = false
}

// Update handles the orchestrator's own messages and ignores everything
// else.
func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case summaryMsg:
		if !o.current(msg.seq, msg.ticker) {
			o.logger.Debug("dropping stale summary", "ticker", msg.ticker)
			return nil
		}
		if msg.err != nil {
			o.logger.Error("loading summary", "ticker", msg.ticker, "error", msg.err)
			o.state = Failed
			o.errText = SummaryError(msg.ticker)
			return nil
		}
		o.state = Ready
		o.summary = msg.summary
		o.trends = TrendsLoading
		return o.fetchHistorical()

	case historicalMsg:
		if !o.current(msg.seq, msg.ticker) {
			return nil
		}
		if msg.err != nil || msg.data == nil {
			o.logger.Warn("loading historical data", "ticker", msg.ticker, "error", msg.err)
			o.trends = TrendsUnavailable
			return nil
		}
		o.historical = msg.data
		o.trends = TrendsReady
		return nil
	}
	return nil
}

func (o *Orchestrator) current(seq uint64, ticker string) bool {
	return o.state != Closed && seq == o.seq && ticker == o.ticker
}

func (o *Orchestrator) fetchHistorical() tea.Cmd {
	ctx := o.ctx
	seq := o.seq
	ticker := o.ticker
	backend := o.backend
	return func() tea.Msg {
		h, err := backend.GetHistorical(ctx, ticker)
		return historicalMsg{seq: seq, ticker: ticker, data: h, err: err}
	}
}

// ToggleTrends shows or hides the historical panel. It never fetches.
func (o *Orchestrator) ToggleTrends() { o.showTrends = !o.showTrends }

// TrendsVisible reports whether the historical panel is expanded.
func (o *Orchestrator) TrendsVisible() bool { return o.showTrends }

// Ticker returns the selected ticker, or "" when closed.
func (o *Orchestrator) Ticker() string { return o.ticker }

// State returns the detail view lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Summary returns the loaded summary, or nil.
func (o *Orchestrator) Summary() *investoredge.Summary { return o.summary }

// Error returns the message for a failed summary fetch.
func (o *Orchestrator) Error() string { return o.errText }

// Historical returns the loaded historical data, or nil.
func (o *Orchestrator) Historical() *investoredge.HistoricalData { return o.historical }

// Trends returns the historical panel state.
func (o *Orchestrator) Trends() TrendsState { return o.trends }
