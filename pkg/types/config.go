package types

import "time"

// HTTPConfig holds shared HTTP settings for catalog requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with catalog requests
	// (e.g. "trialmatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchConfig bounds a pagination run against the catalog.
type FetchConfig struct {
	// PageSize is the number of studies requested per page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the fixed pacing pause between page requests (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// MaxStudies is the hard quota on a result set: if the catalog reports
	// more studies than this, the run aborts before fetching page two
	// (default 1000).
	MaxStudies int `json:"max_studies" yaml:"max_studies"`
}

// MatchConfig holds settings for the matching stage.
type MatchConfig struct {
	// MaxResults is the default cap on ranked matches (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxLocations caps the candidate-country sites shown per match
	// (default 5).
	MaxLocations int `json:"max_locations" yaml:"max_locations"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// Enabled turns run recording on (default true).
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default "trialmatch.db").
	Path string `json:"path" yaml:"path"`
}

// AppConfig groups all configuration for the CLI and MCP server.
type AppConfig struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Match   MatchConfig   `json:"match" yaml:"match"`
	History HistoryConfig `json:"history" yaml:"history"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() AppConfig {
	return AppConfig{
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			UserAgent:  "trialmatch/0.1",
			MaxRetries: 3,
		},
		Fetch: FetchConfig{
			PageSize:   100,
			PageDelay:  time.Second,
			MaxStudies: 1000,
		},
		Match: MatchConfig{
			MaxResults:   10,
			MaxLocations: 5,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "trialmatch.db",
		},
	}
}
