package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investoredge/internal/backendtest"
	"investoredge/internal/transcript"
	"investoredge/pkg/investoredge"
)

func newServer(t *testing.T) *backendtest.Server {
	t.Helper()
	t.Setenv("EDGE_CONFIG", "")
	t.Setenv("EDGE_API_URL", "")
	srv := backendtest.New()
	t.Cleanup(srv.Close)
	srv.Seed()
	return srv
}

// runCLI runs one command against srv and returns the exit code and output.
func runCLI(srv *backendtest.Server, cmd string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	full := append([]string{cmd, "-api", srv.URL(), "-attempts", "1"}, args...)
	code := run(full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsageAndVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: edge-cli")

	stdout.Reset()
	assert.Equal(t, 0, run([]string{"version"}, &stdout, &stderr))
	assert.Equal(t, "edge-cli "+version+"\n", stdout.String())

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown command: bogus")
}

func TestRunBadFlag(t *testing.T) {
	srv := newServer(t)
	code, _, _ := runCLI(srv, "summary", "-nope")
	assert.Equal(t, 2, code)
}

func TestCompanies(t *testing.T) {
	srv := newServer(t)

	code, out, _ := runCLI(srv, "companies", "-limit", "3")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "$3.00T")
	assert.NotContains(t, out, "AMZN")
	assert.Contains(t, out, "3 of 6 companies (more available")

	code, out, _ = runCLI(srv, "companies", "alphabet")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "GOOGL")
	assert.Contains(t, out, "2 of 2 companies\n")

	code, out, _ = runCLI(srv, "companies", "zzz")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No companies found")
}

func TestCompaniesJSON(t *testing.T) {
	srv := newServer(t)

	code, out, _ := runCLI(srv, "companies", "-json", "-limit", "2")
	require.Equal(t, 0, code)
	var page investoredge.CompaniesResponse
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Len(t, page.Companies, 2)
	assert.Equal(t, 6, page.Total)
	assert.True(t, page.HasMore)
}

func TestSummary(t *testing.T) {
	srv := newServer(t)

	code, out, _ := runCLI(srv, "summary", "aapl")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "AAPL  Q3 2024")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "Overall Performance:")
	assert.Contains(t, out, "Guidance (confidence")
}

func TestSummaryFailure(t *testing.T) {
	srv := newServer(t)
	srv.Fail(backendtest.RouteSummary, "MSFT", 500, "boom")

	code, _, errOut := runCLI(srv, "summary", "MSFT")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Failed to load summary for MSFT. Please make sure the backend is running.")

	code, _, errOut = runCLI(srv, "summary")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "expected exactly one ticker")
}

func TestSummaryRetriesServerErrors(t *testing.T) {
	srv := newServer(t)
	srv.Fail(backendtest.RouteSummary, "MSFT", 503, "busy")
	srv.Fail(backendtest.RouteSummary, "JPM", 404, "missing")

	var stdout, stderr bytes.Buffer
	run([]string{"summary", "-api", srv.URL(), "-attempts", "2", "MSFT"}, &stdout, &stderr)
	assert.Equal(t, 2, srv.Calls(backendtest.RouteSummary, "MSFT"))

	run([]string{"summary", "-api", srv.URL(), "-attempts", "2", "JPM"}, &stdout, &stderr)
	assert.Equal(t, 1, srv.Calls(backendtest.RouteSummary, "JPM"))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&investoredge.APIError{StatusCode: 502}))
	assert.False(t, retryable(&investoredge.APIError{StatusCode: 404}))
	assert.False(t, retryable(fmt.Errorf("wrapped: %w", &investoredge.APIError{StatusCode: 422})))
	assert.True(t, retryable(errors.New("connection refused")))
}

func TestHistorical(t *testing.T) {
	srv := newServer(t)

	code, out, _ := runCLI(srv, "historical", "AAPL")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Revenue growth")
	assert.Contains(t, out, "Q3 2024")
	assert.Contains(t, out, "Q4 2022")
	assert.NotContains(t, out, "Q3 2022")
	assert.Contains(t, out, "Revenue  ")
}

func TestTranscript(t *testing.T) {
	srv := newServer(t)

	code, out, _ := runCLI(srv, "transcript", "AAPL")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Strong quarter with record services revenue.")
	assert.Contains(t, out, "Sections: Overview")
}

func TestTranscriptErrors(t *testing.T) {
	srv := newServer(t)
	srv.SetAnalysis("MSFT", nil)
	srv.Fail(backendtest.RouteAnalysis, "JPM", 500, "Error analyzing transcript: upstream")

	code, out, _ := runCLI(srv, "transcript", "MSFT")
	require.Equal(t, 0, code)
	assert.Contains(t, out, transcript.NoAnalysisText)

	code, _, errOut := runCLI(srv, "transcript", "JPM")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error 500: Error analyzing transcript: upstream")

	srv.Hang(backendtest.RouteAnalysis, "AMZN")
	code, _, errOut = runCLI(srv, "transcript", "-timeout", "50ms", "AMZN")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, transcript.TimeoutText)
}

func TestTranscriptParseFailure(t *testing.T) {
	srv := newServer(t)
	srv.SetAnalysis("AAPL", &investoredge.TranscriptAnalysis{
		ExecutiveSummary: investoredge.ParseFailureSentinel,
		RawAnalysis:      json.RawMessage(`{"note":"unstructured"}`),
	})

	code, out, _ := runCLI(srv, "transcript", "AAPL")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "could not be structured")
	assert.Contains(t, out, `"note": "unstructured"`)
}

func TestRawTranscript(t *testing.T) {
	srv := newServer(t)

	code, out, _ := runCLI(srv, "raw-transcript", "JPM")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "JPMorgan Chase & Co. earnings call transcript.")

	code, _, errOut := runCLI(srv, "raw-transcript", "ZZZ")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Unable to fetch transcript for ZZZ")
}
