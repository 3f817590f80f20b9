// Package backendtest provides a programmable in-process earnings backend for
// tests. It serves the same routes as the real API from fixtures and can be
// told to fail, delay, or hang individual requests.
package backendtest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"investoredge/pkg/investoredge"
)

// Route identifies one backend endpoint.
type Route string

const (
	RouteCompanies  Route = "companies"
	RouteSummary    Route = "summaries"
	RouteHistorical Route = "historical"
	RouteAnalysis   Route = "transcript"
	RouteTranscript Route = "transcripts"
)

// Request records one request the server handled.
type Request struct {
	Route Route
	Key   string // search text for RouteCompanies, ticker otherwise
	Limit int
}

type failure struct {
	status int
	detail string
}

type ruleKey struct {
	route Route
	key   string
}

// Server is a fake earnings backend. Fixture maps are keyed by upper-case
// ticker. All methods are safe for concurrent use.
type Server struct {
	mu sync.Mutex

	companies   []investoredge.Company
	summaries   map[string]*investoredge.Summary
	historical  map[string]*investoredge.HistoricalData
	analyses    map[string]*investoredge.TranscriptAnalysis
	transcripts map[string]*investoredge.Transcript

	failures map[ruleKey]failure
	delays   map[ruleKey]time.Duration
	hangs    map[ruleKey]bool
	requests []Request

	srv *httptest.Server
}

// New starts a fake backend. Call Close when done.
func New() *Server {
	s := &Server{
		summaries:   make(map[string]*investoredge.Summary),
		historical:  make(map[string]*investoredge.HistoricalData),
		analyses:    make(map[string]*investoredge.TranscriptAnalysis),
		transcripts: make(map[string]*investoredge.Transcript),
		failures:    make(map[ruleKey]failure),
		delays:      make(map[ruleKey]time.Duration),
		hangs:       make(map[ruleKey]bool),
	}
	s.srv = httptest.NewServer(s.Handler())
	return s
}

// URL returns the base URL of the running server.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Client returns an SDK client pointed at the server.
func (s *Server) Client(opts ...investoredge.ClientOption) *investoredge.Client {
	return investoredge.NewClient(s.URL(), opts...)
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/companies", s.handleCompanies)
	mux.HandleFunc("GET /api/summaries/{ticker}", s.handleSummary)
	mux.HandleFunc("GET /api/historical/{ticker}", s.handleHistorical)
	mux.HandleFunc("GET /api/transcript/{ticker}", s.handleAnalysis)
	mux.HandleFunc("GET /api/transcripts/{ticker}", s.handleTranscript)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// SetCompanies replaces the company universe.
func (s *Server) SetCompanies(companies ...investoredge.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = append([]investoredge.Company(nil), companies...)
}

// SetSummary stores the summary served for its ticker.
func (s *Server) SetSummary(sum *investoredge.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[strings.ToUpper(sum.Ticker)] = sum
}

// SetHistorical stores the historical data served for its ticker.
func (s *Server) SetHistorical(h *investoredge.HistoricalData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historical[strings.ToUpper(h.Ticker)] = h
}

// SetAnalysis stores the transcript analysis served for ticker.
func (s *Server) SetAnalysis(ticker string, a *investoredge.TranscriptAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[strings.ToUpper(ticker)] = a
}

// SetTranscript stores the raw transcript served for its ticker.
func (s *Server) SetTranscript(t *investoredge.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[strings.ToUpper(t.Ticker)] = t
}

// ---------------------------------------------------------------------------
// Behaviour rules
// ---------------------------------------------------------------------------

// Fail makes requests for (route, key) answer with status and a
// {"detail": detail} body.
func (s *Server) Fail(route Route, key string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[s.rule(route, key)] = failure{status: status, detail: detail}
}

// Delay holds requests for (route, key) for d before answering. The wait
// ends early if the client goes away.
func (s *Server) Delay(route Route, key string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[s.rule(route, key)] = d
}

// Hang makes requests for (route, key) block until the client gives up.
func (s *Server) Hang(route Route, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hangs[s.rule(route, key)] = true
}

// Requests returns the requests handled so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Calls counts the requests handled for (route, key).
func (s *Server) Calls(route Route, key string) int {
	want := s.rule(route, key)
	n := 0
	for _, r := range s.Requests() {
		if s.rule(r.Route, r.Key) == want {
			n++
		}
	}
	return n
}

func (s *Server) rule(route Route, key string) ruleKey {
	if route != RouteCompanies {
		key = strings.ToUpper(key)
	}
	return ruleKey{route: route, key: key}
}

// apply records the request and runs any delay, hang, or failure rule. It
// returns false when the response has already been written or the client
// is gone.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, req Request) bool {
	k := s.rule(req.Route, req.Key)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	delay := s.delays[k]
	hang := s.hangs[k]
	fail, failing := s.failures[k]
	s.mu.Unlock()

	if hang {
		<-r.Context().Done()
		return false
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return false
		}
	}
	if failing {
		writeError(w, fail.status, fail.detail)
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "limit must be an integer")
			return
		}
		limit = n
	}

	if !s.apply(w, r, Request{Route: RouteCompanies, Key: search, Limit: limit}) {
		return
	}

	s.mu.Lock()
	all := s.companies
	s.mu.Unlock()

	var filtered []investoredge.Company
	needle := strings.ToLower(search)
	for _, c := range all {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Ticker), needle) ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			(c.Sector != "" && strings.Contains(strings.ToLower(c.Sector), needle)) {
			filtered = append(filtered, c)
		}
	}

	page := filtered
	if len(page) > limit {
		page = page[:limit]
	}
	if page == nil {
		page = []investoredge.Company{}
	}
	writeJSON(w, investoredge.CompaniesResponse{
		Companies: page,
		Total:     len(filtered),
		HasMore:   len(filtered) > limit,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.PathValue("ticker"))
	if !s.apply(w, r, Request{Route: RouteSummary, Key: ticker}) {
		return
	}
	s.mu.Lock()
	sum, ok := s.summaries[ticker]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Unable to fetch data for "+ticker)
		return
	}
	writeJSON(w, sum)
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.PathValue("ticker"))
	if !s.apply(w, r, Request{Route: RouteHistorical, Key: ticker}) {
		return
	}
	s.mu.Lock()
	h, ok := s.historical[ticker]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Unable to fetch historical data for "+ticker)
		return
	}
	writeJSON(w, h)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.PathValue("ticker"))
	if !s.apply(w, r, Request{Route: RouteAnalysis, Key: ticker}) {
		return
	}
	s.mu.Lock()
	a, ok := s.analyses[ticker]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "Error analyzing transcript: no transcript for "+ticker)
		return
	}
	writeJSON(w, investoredge.TranscriptAnalysisResponse{Ticker: ticker, Analysis: a})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.PathValue("ticker"))
	if !s.apply(w, r, Request{Route: RouteTranscript, Key: ticker}) {
		return
	}
	s.mu.Lock()
	t, ok := s.transcripts[ticker]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Unable to fetch transcript for "+ticker)
		return
	}
	writeJSON(w, t)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
