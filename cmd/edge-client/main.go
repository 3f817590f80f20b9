package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"investoredge/internal/config"
	"investoredge/internal/detail"
	"investoredge/internal/overview"
	"investoredge/internal/search"
	"investoredge/internal/transcript"
	"investoredge/internal/util"
	"investoredge/pkg/investoredge"
)

type screen int

const (
	screenOverview screen = iota
	screenDetail
)

// Backend is everything the dashboard reads from the earnings API.
type Backend interface {
	search.Lookup
	overview.Backend
	detail.Backend
	transcript.Backend
}

// Model.
type model struct {
	backendURL string
	logger     *slog.Logger

	search   *search.Controller
	overview *overview.Loader
	detail   *detail.Orchestrator
	modal    *transcript.Modal

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	ready         bool
	width, height int
	screen        screen
	selected      int // index into the overview roster
}

func initialModel(cfg *config.Config, backend Backend, backendURL string, logger *slog.Logger) model {
	ti := textinput.New()
	ti.Placeholder = search.Placeholder
	ti.Prompt = " / "
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		backendURL: backendURL,
		logger:     logger,
		search: search.New(backend,
			search.WithDebounce(cfg.Search.Debounce),
			search.WithLimit(cfg.Search.Limit),
			search.WithLogger(logger),
		),
		overview: overview.New(backend,
			overview.WithPageSize(cfg.Overview.PageSize),
			overview.WithConcurrency(cfg.Overview.Concurrency, cfg.Overview.Interval),
			overview.WithLogger(logger),
		),
		detail: detail.New(backend, logger),
		modal: transcript.New(backend,
			transcript.WithTimeout(cfg.Transcript.Timeout),
			transcript.WithLogger(logger),
		),
		input:   ti,
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.search.Init(), m.overview.Activate(), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 2 // title bar + search line
		footerH := 1
		vpHeight := m.height - headerH - footerH
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.input.Width = m.width - len(m.input.Prompt) - 1
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy() {
			m.refresh()
		}
		return m, cmd
	}

	// Each controller handles its own messages and ignores the rest.
	cmds := []tea.Cmd{
		m.search.Update(msg),
		m.overview.Update(msg),
		m.detail.Update(msg),
		m.modal.Update(msg),
	}
	m.clampSelection()
	m.refresh()

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// busy reports whether anything on screen shows a spinner.
func (m *model) busy() bool {
	return m.search.Loading() ||
		m.overview.State() != overview.Done ||
		m.detail.State() == detail.Loading ||
		m.detail.Trends() == detail.TrendsLoading ||
		m.modal.Loading()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.modal.IsOpen():
		return m.handleModalKey(key)
	case m.input.Focused():
		return m.handleSearchKey(msg)
	}

	var cmd tea.Cmd
	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.search.Focus()
		cmd = m.input.Focus()
	case "pgup":
		m.viewport.PageUp()
	case "pgdown":
		m.viewport.PageDown()
	default:
		if m.screen == screenDetail {
			cmd = m.handleDetailKey(key)
		} else {
			cmd = m.handleOverviewKey(key)
		}
	}
	m.refresh()
	return m, cmd
}

func (m *model) handleOverviewKey(key string) tea.Cmd {
	entries := m.overview.Entries()
	cols := m.gridColumns()
	switch key {
	case "left", "h":
		m.moveSelection(-1)
	case "right", "l":
		m.moveSelection(1)
	case "up", "k":
		m.moveSelection(-cols)
	case "down", "j":
		m.moveSelection(cols)
	case "r":
		m.selected = 0
		return m.overview.Activate()
	case "enter":
		if m.selected < len(entries) {
			return m.openDetail(entries[m.selected].Company.Ticker)
		}
	}
	return nil
}

func (m *model) handleDetailKey(key string) tea.Cmd {
	switch key {
	case "esc", "backspace":
		m.detail.Close()
		m.screen = screenOverview
		m.viewport.GotoTop()
	case "t":
		m.detail.ToggleTrends()
	case "a":
		if m.detail.State() == detail.Ready {
			m.viewport.GotoTop()
			return m.modal.Open(m.detail.Ticker())
		}
	case "r":
		if m.detail.State() == detail.Failed {
			return m.detail.Open(m.detail.Ticker())
		}
	case "up", "k":
		m.viewport.ScrollUp(1)
	case "down", "j":
		m.viewport.ScrollDown(1)
	}
	return nil
}

func (m model) handleModalKey(key string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch key {
	case "esc", "q":
		m.modal.Close()
	case "right", "l", "tab":
		m.modal.NextTab()
		m.viewport.GotoTop()
	case "left", "h", "shift+tab":
		m.modal.PrevTab()
		m.viewport.GotoTop()
	case "up", "k":
		m.viewport.ScrollUp(1)
	case "down", "j":
		m.viewport.ScrollDown(1)
	case "pgup":
		m.viewport.PageUp()
	case "pgdown":
		m.viewport.PageDown()
	case "r":
		if m.modal.Err() != nil {
			cmd = m.modal.Open(m.modal.Ticker())
		}
	}
	m.refresh()
	return m, cmd
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.search.Blur()
	case "up":
		m.search.MoveCursor(-1)
	case "down":
		m.search.MoveCursor(1)
	case "enter":
		ticker, cmd := m.search.SelectCursor()
		if ticker != "" {
			m.input.SetValue("")
			m.input.Blur()
			cmds = append(cmds, cmd, m.openDetail(ticker))
		}
	default:
		prev := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		if m.input.Value() != prev {
			cmds = append(cmds, m.search.SetQuery(m.input.Value()))
		}
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *model) openDetail(ticker string) tea.Cmd {
	m.screen = screenDetail
	m.modal.Close()
	m.viewport.GotoTop()
	return m.detail.Open(ticker)
}

func (m *model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

func (m *model) clampSelection() {
	n := len(m.overview.Entries())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// refresh re-renders the scrollable content.
func (m *model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("EDGE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if issues := cfg.Validate(); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "config: %s\n", issue)
		}
		os.Exit(1)
	}

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = util.DefaultLogPath("edge-client")
	}
	logger, logFile, err := util.NewFileLogger(logPath, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	util.SetDefault(logger)

	client := investoredge.NewClient(cfg.API.BaseURL,
		investoredge.WithTimeout(cfg.API.Timeout),
		investoredge.WithRateLimit(cfg.API.RateLimitPerSec),
		investoredge.WithLogger(logger),
	)
	logger.Info("edge-client starting", "backend", client.BaseURL(), "log", logPath)

	p := tea.NewProgram(
		initialModel(cfg, client, client.BaseURL(), logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
