package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the investoredge clients.
type Config struct {
	API        API        `yaml:"api"`
	Search     Search     `yaml:"search"`
	Overview   Overview   `yaml:"overview"`
	Transcript Transcript `yaml:"transcript"`
	Logging    Logging    `yaml:"logging"`
}

// API holds the earnings backend endpoint.
type API struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
}

// Search controls the company lookup box.
type Search struct {
	Debounce time.Duration `yaml:"debounce"`
	Limit    int           `yaml:"limit"`
}

// Overview controls the market overview roster and its summary preloads.
type Overview struct {
	PageSize    int           `yaml:"page_size"`
	Concurrency int           `yaml:"concurrency"`
	Interval    time.Duration `yaml:"interval"`
}

// Transcript controls the transcript analysis fetch.
type Transcript struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

const (
	DefaultBaseURL           = "http://localhost:8000"
	DefaultSearchDebounce    = 300 * time.Millisecond
	DefaultSearchLimit       = 20
	DefaultOverviewPageSize  = 10
	DefaultTranscriptTimeout = 30 * time.Second
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL: DefaultBaseURL,
			Timeout: 60 * time.Second,
		},
		Search: Search{
			Debounce: DefaultSearchDebounce,
			Limit:    DefaultSearchLimit,
		},
		Overview: Overview{
			PageSize:    DefaultOverviewPageSize,
			Concurrency: 1,
		},
		Transcript: Transcript{
			Timeout: DefaultTranscriptTimeout,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path over the
// defaults, and then applies environment variable overrides. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("EDGE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EDGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("EDGE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}

	if v := os.Getenv("EDGE_TRANSCRIPT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Transcript.Timeout = d
		}
	}
}

// Validate returns a list of configuration problems. An empty result means
// the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string
	if c.API.BaseURL == "" {
		issues = append(issues, "api.base_url is empty")
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		issues = append(issues, fmt.Sprintf("api.base_url %q must start with http:// or https://", c.API.BaseURL))
	}
	if c.API.RateLimitPerSec < 0 {
		issues = append(issues, "api.rate_limit_per_sec must not be negative")
	}
	if c.Search.Debounce < 0 {
		issues = append(issues, "search.debounce must not be negative")
	}
	if c.Search.Limit <= 0 {
		issues = append(issues, "search.limit must be positive")
	}
	if c.Overview.PageSize <= 0 {
		issues = append(issues, "overview.page_size must be positive")
	}
	if c.Overview.Concurrency <= 0 {
		issues = append(issues, "overview.concurrency must be positive")
	}
	if c.Overview.Interval < 0 {
		issues = append(issues, "overview.interval must not be negative")
	}
	if c.Transcript.Timeout <= 0 {
		issues = append(issues, "transcript.timeout must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return issues
}
