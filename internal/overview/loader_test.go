package overview

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investoredge/internal/backendtest"
	"investoredge/pkg/investoredge"
)

type fakeBackend struct {
	mu        sync.Mutex
	roster    []investoredge.Company
	rosterErr error
	failFor   map[string]bool
	calls     []string
	limits    []int
}

func (f *fakeBackend) ListCompanies(ctx context.Context, limit int, search string) ([]investoredge.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.roster, nil
}

func (f *fakeBackend) GetSummary(ctx context.Context, ticker string) (*investoredge.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ticker)
	if f.failFor[ticker] {
		return nil, errors.New("summary backend unavailable")
	}
	return &investoredge.Summary{Ticker: ticker, SentimentScore: 1}, nil
}

func companies(tickers ...string) []investoredge.Company {
	out := make([]investoredge.Company, len(tickers))
	for i, t := range tickers {
		out[i] = investoredge.Company{Ticker: t, Name: t + " Inc."}
	}
	return out
}

// run executes cmd and flattens batches into their messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// drive feeds messages back into the loader until no commands remain.
func drive(l *Loader, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, msg := range run(next) {
			if c := l.Update(msg); c != nil {
				queue = append(queue, c)
			}
		}
	}
}

func TestActivateLoadsRosterThenSummaries(t *testing.T) {
	b := &fakeBackend{roster: companies("AAPL", "MSFT", "JPM")}
	l := New(b)

	drive(l, l.Activate())

	assert.Equal(t, []int{DefaultPageSize}, b.limits)
	assert.Equal(t, []string{"AAPL", "MSFT", "JPM"}, b.calls)
	assert.Equal(t, Done, l.State())
	for _, e := range l.Entries() {
		assert.False(t, e.Loading, e.Company.Ticker)
		require.NotNil(t, e.Summary, e.Company.Ticker)
	}
	done, total := l.Progress()
	assert.Equal(t, 3, done)
	assert.Equal(t, 3, total)
}

func TestSummariesAreSequential(t *testing.T) {
	b := &fakeBackend{roster: companies("AAPL", "MSFT", "JPM")}
	l := New(b)

	rosterMsgs := run(l.Activate())
	require.Len(t, rosterMsgs, 1)
	cmd := l.Update(rosterMsgs[0])

	assert.Equal(t, Preloading, l.State())
	for _, e := range l.Entries() {
		assert.True(t, e.Loading)
		assert.Nil(t, e.Summary)
	}

	for i, want := range []string{"AAPL", "MSFT", "JPM"} {
		assert.Equal(t, 1, l.queue.Running(), "step %d", i)
		msgs := run(cmd)
		require.Len(t, msgs, 1, "only one summary fetch may be outstanding")
		assert.Equal(t, want, msgs[0].(summaryMsg).ticker)
		cmd = l.Update(msgs[0])
	}
	assert.Nil(t, cmd)
	assert.Equal(t, Done, l.State())
}

func TestPartialBatchFailure(t *testing.T) {
	b := &fakeBackend{
		roster:  companies("AAPL", "MSFT", "JPM"),
		failFor: map[string]bool{"MSFT": true},
	}
	l := New(b)

	drive(l, l.Activate())

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.NotNil(t, entries[0].Summary)
	assert.False(t, entries[0].Loading)

	assert.Nil(t, entries[1].Summary)
	assert.False(t, entries[1].Loading)
	assert.True(t, entries[1].Failed)

	assert.NotNil(t, entries[2].Summary)
	assert.False(t, entries[2].Loading)
	assert.Equal(t, []string{"AAPL", "MSFT", "JPM"}, b.calls)
}

func TestRosterFailureIsEmpty(t *testing.T) {
	b := &fakeBackend{rosterErr: errors.New("connection refused")}
	l := New(b)

	drive(l, l.Activate())

	assert.Empty(t, l.Entries())
	assert.Equal(t, Done, l.State())
	assert.Empty(t, b.calls)
}

func TestDuplicateTickersDropped(t *testing.T) {
	b := &fakeBackend{roster: companies("AAPL", "AAPL", "MSFT")}
	l := New(b)

	drive(l, l.Activate())

	require.Len(t, l.Entries(), 2)
	assert.Equal(t, []string{"AAPL", "MSFT"}, b.calls)
}

func TestLoadingFlipsExactlyOnce(t *testing.T) {
	b := &fakeBackend{roster: companies("AAPL")}
	l := New(b)

	cmd := l.Update(run(l.Activate())[0])
	msg := run(cmd)[0].(summaryMsg)
	l.Update(msg)

	e, ok := l.Entry("AAPL")
	require.True(t, ok)
	first := e.Summary

	// A duplicate resolution, even a failing one, changes nothing.
	msg.err = errors.New("late failure")
	msg.summary = nil
	assert.Nil(t, l.Update(msg))
	assert.Same(t, first, e.Summary)
	assert.False(t, e.Failed)
}

func TestReactivateDropsStaleResults(t *testing.T) {
	b := &fakeBackend{roster: companies("AAPL", "MSFT")}
	l := New(b)

	cmd := l.Update(run(l.Activate())[0])
	stale := run(cmd)

	b.roster = companies("JPM")
	rosterCmd := l.Activate()
	for _, m := range stale {
		assert.Nil(t, l.Update(m))
	}
	drive(l, rosterCmd)

	require.Len(t, l.Entries(), 1)
	assert.Equal(t, "JPM", l.Entries()[0].Company.Ticker)
	_, ok := l.Entry("AAPL")
	assert.False(t, ok)
}

func TestConcurrencyTwo(t *testing.T) {
	b := &fakeBackend{roster: companies("A", "B", "C")}
	l := New(b, WithConcurrency(2, 0))
	assert.Equal(t, 2, l.Concurrency())

	cmd := l.Update(run(l.Activate())[0])
	msgs := run(cmd)
	assert.Len(t, msgs, 2)
	assert.Equal(t, 2, l.queue.Running())
	assert.Equal(t, 1, l.queue.Pending())
}

func TestPageSizeOption(t *testing.T) {
	b := &fakeBackend{}
	l := New(b, WithPageSize(25))
	drive(l, l.Activate())
	assert.Equal(t, []int{25}, b.limits)
}

func TestEntryScore(t *testing.T) {
	e := &Entry{}
	assert.Nil(t, e.Score())
	e.Summary = &investoredge.Summary{SentimentScore: -0.7}
	require.NotNil(t, e.Score())
	assert.Equal(t, -0.7, *e.Score())
}

func TestPartialFailureOverHTTP(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetCompanies(companies("AAPL", "MSFT", "JPM")...)
	srv.SetSummary(backendtest.SampleSummary("AAPL", 1))
	srv.SetSummary(backendtest.SampleSummary("JPM", -1))
	srv.Fail(backendtest.RouteSummary, "MSFT", http.StatusInternalServerError, "scraper failed")

	l := New(srv.Client())
	drive(l, l.Activate())

	e, _ := l.Entry("MSFT")
	assert.Nil(t, e.Summary)
	assert.False(t, e.Loading)
	aapl, _ := l.Entry("AAPL")
	assert.Equal(t, "Q3 2024", aapl.Summary.Quarter)
	jpm, _ := l.Entry("JPM")
	assert.Equal(t, -1.0, jpm.Summary.SentimentScore)

	var order []string
	for _, r := range srv.Requests() {
		if r.Route == backendtest.RouteSummary {
			order = append(order, r.Key)
		}
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "JPM"}, order)
}

func TestQueuePacing(t *testing.T) {
	q := NewQueue(1, 30*time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Wait(ctx))
	}
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
