// Package search implements the debounced company lookup box. Keystrokes
// restart a debounce timer; when it fires the current query is looked up,
// and a response is only applied if its query is still the live one.
package search

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"investoredge/internal/util"
	"investoredge/pkg/investoredge"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultLimit    = 20

	// Placeholder is shown in the empty input.
	Placeholder = "Type to search 500+ stocks"
)

// Lookup is the company lookup collaborator.
type Lookup interface {
	ListCompanies(ctx context.Context, limit int, search string) ([]investoredge.Company, error)
}

// State is the lookup lifecycle.
type State int

const (
	Idle State = iota
	Debouncing
	Fetching
	Settled
)

func (s State) String() string {
	switch s {
	case Debouncing:
		return "debouncing"
	case Fetching:
		return "fetching"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

// Messages.
type debounceMsg struct{ seq uint64 }

type resultsMsg struct {
	query     string
	companies []investoredge.Company
	err       error
}

// Controller owns the search box state. It is driven from a single
// bubbletea update loop and is not safe for concurrent use.
type Controller struct {
	lookup   Lookup
	logger   *slog.Logger
	schedule util.Scheduler
	debounce time.Duration
	limit    int

	query   string
	results []investoredge.Company
	open    bool
	state   State
	cursor  int

	// seq identifies the live debounce timer. Bumping it cancels any timer
	// already scheduled.
	seq uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the delay between the last keystroke and the lookup.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithLimit sets the number of results requested per lookup.
func WithLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithScheduler replaces the timer used for debouncing.
func WithScheduler(s util.Scheduler) Option {
	return func(c *Controller) { c.schedule = s }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a search controller backed by lookup.
func New(lookup Lookup, opts ...Option) *Controller {
	c := &Controller{
		lookup:   lookup,
		logger:   util.Discard(),
		schedule: util.After,
		debounce: DefaultDebounce,
		limit:    DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init loads the unfiltered listing.
func (c *Controller) Init() tea.Cmd {
	return c.restart()
}

// SetQuery records a keystroke. It opens the dropdown and restarts the
// debounce timer; an empty query is looked up immediately.
func (c *Controller) SetQuery(q string) tea.Cmd {
	c.query = q
	c.open = true
	return c.restart()
}

// restart cancels any pending timer and schedules a lookup of the current
// query.
func (c *Controller) restart() tea.Cmd {
	c.seq++
	c.state = Debouncing
	delay := c.debounce
	if c.query == "" {
		delay = 0
	}
	return c.schedule(delay, debounceMsg{seq: c.seq})
}

// Update handles the controller's own messages and ignores everything else.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.seq != c.seq {
			return nil
		}
		c.state = Fetching
		return c.fetch(c.query)

	case resultsMsg:
		if msg.query != c.query {
			c.logger.Debug("dropping stale search results", "query", msg.query, "live", c.query)
			return nil
		}
		c.state = Settled
		c.cursor = 0
		if msg.err != nil {
			c.logger.Warn("company lookup failed", "query", msg.query, "error", msg.err)
			c.results = nil
			return nil
		}
		c.results = msg.companies
		return nil
	}
	return nil
}

func (c *Controller) fetch(query string) tea.Cmd {
	lookup := c.lookup
	limit := c.limit
	c.logger.Debug("company lookup", "query", query, "limit", limit)
	return func() tea.Msg {
		companies, err := lookup.ListCompanies(context.Background(), limit, query)
		return resultsMsg{query: query, companies: companies, err: err}
	}
}

// Select picks the result at index i. It clears the query, closes the
// dropdown and returns the chosen ticker; loading the company is the
// caller's job. The returned command restores the unfiltered listing.
func (c *Controller) Select(i int) (string, tea.Cmd) {
	if i < 0 || i >= len(c.results) {
		return "", nil
	}
	ticker := c.results[i].Ticker
	c.query = ""
	c.open = false
	return ticker, c.restart()
}

// SelectCursor picks the highlighted result.
func (c *Controller) SelectCursor() (string, tea.Cmd) {
	return c.Select(c.cursor)
}

// Focus reopens the dropdown without looking anything up.
func (c *Controller) Focus() { c.open = true }

// Blur closes the dropdown and keeps the results.
func (c *Controller) Blur() { c.open = false }

// MoveCursor moves the highlighted result by delta, clamped to the list.
func (c *Controller) MoveCursor(delta int) {
	c.cursor += delta
	if c.cursor >= len(c.results) {
		c.cursor = len(c.results) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// Query returns the live query text.
func (c *Controller) Query() string { return c.query }

// Results returns the results of the last applied lookup.
func (c *Controller) Results() []investoredge.Company { return c.results }

// Open reports whether the dropdown is shown.
func (c *Controller) Open() bool { return c.open }

// State returns the lookup lifecycle state.
func (c *Controller) State() State { return c.state }

// Loading reports whether a lookup for the live query is in flight.
func (c *Controller) Loading() bool { return c.state == Fetching }

// Cursor returns the highlighted result index.
func (c *Controller) Cursor() int { return c.cursor }

// Hint is the dropdown text shown in place of, or above, the results.
func (c *Controller) Hint() string {
	switch {
	case c.Loading():
		return "Searching..."
	case len(c.results) > 0:
		return ""
	case c.query != "":
		return "No companies found"
	default:
		return "Start typing to search..."
	}
}
