// Package transcript drives the earnings call analysis modal: a single
// timed fetch per opening, classified errors, tab navigation and the
// degraded parse-failure view.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"investoredge/internal/util"
	"investoredge/pkg/investoredge"
)

// DefaultTimeout bounds the analysis request. Generating an analysis can
// take the backend tens of seconds.
const DefaultTimeout = 30 * time.Second

// ExcerptLimit is the number of characters of raw analysis shown when the
// structured parse failed.
const ExcerptLimit = 2000

// User-facing messages.
const (
	FailedText     = "Failed to load transcript analysis"
	TimeoutText    = "Request timeout — analysis is taking too long"
	NoAnalysisText = "No analysis available"
)

// Backend is the collaborator the modal reads from.
type Backend interface {
	GetTranscriptAnalysis(ctx context.Context, ticker string) (*investoredge.TranscriptAnalysis, error)
}

// ErrorKind classifies a failed analysis fetch.
type ErrorKind int

const (
	ErrorHTTP ErrorKind = iota + 1
	ErrorTimeout
	ErrorOther
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorHTTP:
		return "http"
	case ErrorTimeout:
		return "timeout"
	case ErrorOther:
		return "other"
	default:
		return "none"
	}
}

// Error is a classified fetch failure.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

// Classify maps a fetch error to its kind and display message. A backend
// response with a status code wins over a timeout.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if apiErr, ok := investoredge.AsAPIError(err); ok {
		detail := apiErr.Detail
		if detail == "" {
			detail = FailedText
		}
		return &Error{
			Kind:    ErrorHTTP,
			Status:  apiErr.StatusCode,
			Message: fmt.Sprintf("Error %d: %s", apiErr.StatusCode, detail),
		}
	}
	if investoredge.IsTimeout(err) {
		return &Error{Kind: ErrorTimeout, Message: TimeoutText}
	}
	return &Error{Kind: ErrorOther, Message: FailedText}
}

type resultMsg struct {
	session  string
	ticker   string
	analysis *investoredge.TranscriptAnalysis
	err      error
}

// Modal is the transcript analysis dialog. It is driven from a single
// bubbletea update loop.
type Modal struct {
	backend Backend
	logger  *slog.Logger
	timeout time.Duration

	open     bool
	ticker   string
	session  string
	loading  bool
	loaded   bool
	analysis *investoredge.TranscriptAnalysis
	err      *Error
	tab      Tab
	cancel   context.CancelFunc
}

// Option configures a Modal.
type Option func(*Modal)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Modal) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Modal) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a closed modal backed by backend.
func New(backend Backend, opts ...Option) *Modal {
	m := &Modal{
		backend: backend,
		logger:  util.Discard(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open shows the modal for ticker and starts a fresh analysis fetch. Each
// opening is its own session; results for earlier sessions are dropped.
func (m *Modal) Open(ticker string) tea.Cmd {
	m.reset()
	m.open = true
	m.ticker = ticker
	m.session = uuid.NewString()
	m.loading = true

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	m.cancel = cancel
	session := m.session
	backend := m.backend
	m.logger.Info("loading transcript analysis", "ticker", ticker, "session", session, "timeout", m.timeout)
	return func() tea.Msg {
		defer cancel()
		a, err := backend.GetTranscriptAnalysis(ctx, ticker)
		return resultMsg{session: session, ticker: ticker, analysis: a, err: err}
	}
}

// Close hides the modal and discards everything it loaded.
func (m *Modal) Close() {
	m.reset()
}

func (m *Modal) reset() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.open = false
	m.ticker = ""
	m.session = ""
	m.loading = false
	m.loaded = false
	m.analysis = nil
	m.err = nil
	m.tab = TabOverview
}

// Update handles the modal's own messages and ignores everything else.
func (m *Modal) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(resultMsg)
	if !ok {
		return nil
	}
	if !m.open || res.session != m.session {
		m.logger.Debug("dropping stale analysis", "ticker", res.ticker, "session", res.session)
		return nil
	}
	m.loading = false
	if res.err != nil {
		m.err = Classify(res.err)
		m.logger.Warn("transcript analysis failed", "ticker", res.ticker, "kind", m.err.Kind, "error", res.err)
		return nil
	}
	m.loaded = true
	m.analysis = res.analysis
	return nil
}

// IsOpen reports whether the modal is showing.
func (m *Modal) IsOpen() bool { return m.open }

// Ticker returns the ticker the modal was opened for.
func (m *Modal) Ticker() string { return m.ticker }

// Session returns the id of the current opening, or "" when closed.
func (m *Modal) Session() string { return m.session }

// Loading reports whether the fetch is outstanding.
func (m *Modal) Loading() bool { return m.loading }

// Analysis returns the loaded analysis, or nil.
func (m *Modal) Analysis() *investoredge.TranscriptAnalysis { return m.analysis }

// Err returns the classified failure, or nil.
func (m *Modal) Err() *Error { return m.err }

// Empty reports a successful response that carried no analysis.
func (m *Modal) Empty() bool { return m.loaded && m.analysis == nil }

// Message returns the text shown in place of the tabs: the error message,
// "No analysis available", or "" when there is content to show.
func (m *Modal) Message() string {
	switch {
	case m.err != nil:
		return m.err.Message
	case m.Empty():
		return NoAnalysisText
	}
	return ""
}

// ActiveTab returns the selected tab.
func (m *Modal) ActiveTab() Tab { return m.tab }

// SetTab selects t. Every tab is selectable whether or not it has content.
func (m *Modal) SetTab(t Tab) {
	if t >= 0 && t < tabCount {
		m.tab = t
	}
}

// NextTab selects the following tab, wrapping around.
func (m *Modal) NextTab() { m.tab = (m.tab + 1) % tabCount }

// PrevTab selects the preceding tab, wrapping around.
func (m *Modal) PrevTab() { m.tab = (m.tab + tabCount - 1) % tabCount }

// HasSection reports whether the loaded analysis has content for t.
func (m *Modal) HasSection(t Tab) bool {
	return HasSection(m.analysis, t)
}

// ParseFailure returns the raw analysis excerpt when the backend could not
// structure its output.
func (m *Modal) ParseFailure() (string, bool) {
	if m.analysis == nil || !m.analysis.IsParseFailure() {
		return "", false
	}
	return Excerpt(m.analysis.RawAnalysis, ExcerptLimit), true
}

// Excerpt renders a raw analysis value for display. A JSON string is used
// as is; any other value is pretty-printed. The result is cut to limit
// characters with a "..." marker when longer.
func Excerpt(raw json.RawMessage, limit int) string {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			text = string(raw)
		} else {
			text = buf.String()
		}
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
