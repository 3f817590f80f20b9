// Package overview loads the market overview roster and then preloads each
// company's summary through a sequential queue.
package overview

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"investoredge/internal/util"
	"investoredge/pkg/investoredge"
)

// DefaultPageSize is the roster size requested on activation.
const DefaultPageSize = 10

// Backend is the collaborator the loader reads from.
type Backend interface {
	ListCompanies(ctx context.Context, limit int, search string) ([]investoredge.Company, error)
	GetSummary(ctx context.Context, ticker string) (*investoredge.Summary, error)
}

// State is the loader lifecycle.
type State int

const (
	Idle State = iota
	LoadingRoster
	Preloading
	Done
)

func (s State) String() string {
	switch s {
	case LoadingRoster:
		return "loading-roster"
	case Preloading:
		return "preloading"
	case Done:
		return "done"
	default:
		return "idle"
	}
}

// Entry is one roster member. Loading goes from true to false exactly once
// per roster; Summary stays nil if its fetch failed.
type Entry struct {
	Company investoredge.Company
	Summary *investoredge.Summary
	Loading bool
	Failed  bool
}

// Score returns the summary's sentiment score, or nil when unavailable.
func (e *Entry) Score() *float64 {
	if e.Summary == nil {
		return nil
	}
	s := e.Summary.SentimentScore
	return &s
}

// Messages.
type rosterMsg struct {
	gen       uint64
	companies []investoredge.Company
	err       error
}

type summaryMsg struct {
	gen     uint64
	ticker  string
	summary *investoredge.Summary
	err     error
}

// Loader owns the overview roster. It is driven from a single bubbletea
// update loop.
type Loader struct {
	backend  Backend
	logger   *slog.Logger
	pageSize int
	queue    *Queue

	entries []*Entry
	index   map[string]*Entry
	state   State

	// gen tags every request with the roster it belongs to; results from an
	// older roster are dropped.
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Loader.
type Option func(*Loader)

// WithPageSize sets the roster size.
func WithPageSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.pageSize = n
		}
	}
}

// WithConcurrency sets how many summary fetches may be in flight at once.
// The default of one keeps the fetches strictly sequential.
func WithConcurrency(n int, interval time.Duration) Option {
	return func(l *Loader) {
		l.queue = NewQueue(n, interval)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loader backed by backend.
func New(backend Backend, opts ...Option) *Loader {
	l := &Loader{
		backend:  backend,
		ctx:      context.Background(),
		logger:   util.Discard(),
		pageSize: DefaultPageSize,
		queue:    NewQueue(1, 0),
		index:    make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Activate fetches a fresh roster. Any load already under way is abandoned.
func (l *Loader) Activate() tea.Cmd {
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	ctx, cancel := context.WithCancel(context.Background())
	l.ctx, l.cancel = ctx, cancel

	l.entries = nil
	l.index = make(map[string]*Entry)
	l.queue.Reset()
	l.state = LoadingRoster

	gen := l.gen
	backend := l.backend
	limit := l.pageSize
	l.logger.Info("loading roster", "limit", limit, "gen", gen)
	return func() tea.Msg {
		companies, err := backend.ListCompanies(ctx, limit, "")
		return rosterMsg{gen: gen, companies: companies, err: err}
	}
}

// Update handles the loader's own messages and ignores everything else.
func (l *Loader) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case rosterMsg:
		if msg.gen != l.gen {
			return nil
		}
		if msg.err != nil {
			l.logger.Warn("roster load failed", "error", msg.err)
			l.state = Done
			return nil
		}
		for _, c := range msg.companies {
			if _, dup := l.index[c.Ticker]; dup || c.Ticker == "" {
				continue
			}
			e := &Entry{Company: c, Loading: true}
			l.entries = append(l.entries, e)
			l.index[c.Ticker] = e
			l.queue.Push(c.Ticker)
		}
		l.logger.Info("roster loaded", "companies", len(l.entries))
		if len(l.entries) == 0 {
			l.state = Done
			return nil
		}
		l.state = Preloading
		return l.startNext()

	case summaryMsg:
		if msg.gen != l.gen {
			return nil
		}
		e, ok := l.index[msg.ticker]
		if !ok || !e.Loading {
			return nil
		}
		e.Loading = false
		if msg.err != nil {
			e.Failed = true
			l.logger.Warn("summary preload failed", "ticker", msg.ticker, "error", msg.err)
		} else {
			e.Summary = msg.summary
		}
		l.queue.Done(msg.ticker)
		cmd := l.startNext()
		if l.queue.Idle() {
			l.state = Done
			done, total := l.Progress()
			l.logger.Info("summary preload finished", "loaded", done, "total", total)
		}
		return cmd
	}
	return nil
}

// startNext starts as many queued summary fetches as the queue allows.
func (l *Loader) startNext() tea.Cmd {
	keys := l.queue.Next()
	switch len(keys) {
	case 0:
		return nil
	case 1:
		return l.fetchSummary(keys[0])
	}
	cmds := make([]tea.Cmd, 0, len(keys))
	for _, ticker := range keys {
		cmds = append(cmds, l.fetchSummary(ticker))
	}
	return tea.Batch(cmds...)
}

func (l *Loader) fetchSummary(ticker string) tea.Cmd {
	gen := l.gen
	backend := l.backend
	queue := l.queue
	ctx := l.ctx
	l.logger.Debug("summary preload start", "ticker", ticker, "pending", queue.Pending())
	return func() tea.Msg {
		if err := queue.Wait(ctx); err != nil {
			return summaryMsg{gen: gen, ticker: ticker, err: err}
		}
		s, err := backend.GetSummary(ctx, ticker)
		return summaryMsg{gen: gen, ticker: ticker, summary: s, err: err}
	}
}

// Entries returns the roster in backend order.
func (l *Loader) Entries() []*Entry { return l.entries }

// Entry returns the entry for ticker, if it is on the roster.
func (l *Loader) Entry(ticker string) (*Entry, bool) {
	e, ok := l.index[ticker]
	return e, ok
}

// State returns the loader lifecycle state.
func (l *Loader) State() State { return l.state }

// Concurrency returns the summary fetch throttle.
func (l *Loader) Concurrency() int { return l.queue.Concurrency() }

// Progress returns how many entries have finished loading, and the roster
// size.
func (l *Loader) Progress() (done, total int) {
	for _, e := range l.entries {
		if !e.Loading {
			done++
		}
	}
	return done, len(l.entries)
}
