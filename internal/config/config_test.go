package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_URL", "EDGE_API_URL", "LOG_LEVEL", "EDGE_LOG_LEVEL", "EDGE_LOG_FILE", "EDGE_TRANSCRIPT_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	// Create a temporary YAML config file.
	yamlContent := []byte(`
api:
  base_url: "http://earnings.internal:9000"
  timeout: 45s
  rate_limit_per_sec: 5
search:
  debounce: 150ms
  limit: 25
overview:
  page_size: 12
  concurrency: 2
  interval: 250ms
transcript:
  timeout: 20s
logging:
  level: "debug"
  format: "json"
  file: "/tmp/edge.log"
`)

	tmpFile, err := os.CreateTemp("", "investoredge-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- API --
	if cfg.API.BaseURL != "http://earnings.internal:9000" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://earnings.internal:9000")
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, 45*time.Second)
	}
	if cfg.API.RateLimitPerSec != 5 {
		t.Errorf("API.RateLimitPerSec = %v, want 5", cfg.API.RateLimitPerSec)
	}

	// -- Search --
	if cfg.Search.Debounce != 150*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want %v", cfg.Search.Debounce, 150*time.Millisecond)
	}
	if cfg.Search.Limit != 25 {
		t.Errorf("Search.Limit = %d, want 25", cfg.Search.Limit)
	}

	// -- Overview --
	if cfg.Overview.PageSize != 12 {
		t.Errorf("Overview.PageSize = %d, want 12", cfg.Overview.PageSize)
	}
	if cfg.Overview.Concurrency != 2 {
		t.Errorf("Overview.Concurrency = %d, want 2", cfg.Overview.Concurrency)
	}
	if cfg.Overview.Interval != 250*time.Millisecond {
		t.Errorf("Overview.Interval = %v, want %v", cfg.Overview.Interval, 250*time.Millisecond)
	}

	// -- Transcript --
	if cfg.Transcript.Timeout != 20*time.Second {
		t.Errorf("Transcript.Timeout = %v, want %v", cfg.Transcript.Timeout, 20*time.Second)
	}

	// -- Logging --
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
	if cfg.Logging.File != "/tmp/edge.log" {
		t.Errorf("Logging.File = %q, want %q", cfg.Logging.File, "/tmp/edge.log")
	}

	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("Validate() = %v, want none", issues)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 300ms", cfg.Search.Debounce)
	}
	if cfg.Search.Limit != 20 {
		t.Errorf("Search.Limit = %d, want 20", cfg.Search.Limit)
	}
	if cfg.Overview.PageSize != 10 {
		t.Errorf("Overview.PageSize = %d, want 10", cfg.Overview.PageSize)
	}
	if cfg.Overview.Concurrency != 1 {
		t.Errorf("Overview.Concurrency = %d, want 1", cfg.Overview.Concurrency)
	}
	if cfg.Transcript.Timeout != 30*time.Second {
		t.Errorf("Transcript.Timeout = %v, want 30s", cfg.Transcript.Timeout)
	}
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("Validate() = %v, want none", issues)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	clearEnv(t)

	tmpFile, err := os.CreateTemp("", "investoredge-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.WriteString("search:\n  limit: 5\n")
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Search.Limit != 5 {
		t.Errorf("Search.Limit = %d, want 5", cfg.Search.Limit)
	}
	if cfg.Search.Debounce != DefaultSearchDebounce {
		t.Errorf("Search.Debounce = %v, want default", cfg.Search.Debounce)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_URL", "http://generic:1")
	t.Setenv("EDGE_API_URL", "http://specific:2")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("EDGE_TRANSCRIPT_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://specific:2" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://specific:2")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Transcript.Timeout != 5*time.Second {
		t.Errorf("Transcript.Timeout = %v, want 5s", cfg.Transcript.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/investoredge.yaml"); err == nil {
		t.Error("Load() of missing file returned nil error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "localhost:8000"
	cfg.Search.Limit = 0
	cfg.Overview.Concurrency = 0
	cfg.Logging.Level = "verbose"

	issues := cfg.Validate()
	if len(issues) != 4 {
		t.Errorf("Validate() returned %d issues, want 4: %v", len(issues), issues)
	}
}
