// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that call the registry.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with registry calls
	// (e.g. "company-lens/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RegistryConfig holds settings for the Companies House client.
type RegistryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the registry API base. Overridable for tests.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates requests (HTTP basic, key as username).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RateLimit and RateWindow bound outbound request volume; the public
	// registry allows 600 requests per 5-minute window.
	RateLimit  int           `json:"rate_limit" yaml:"rate_limit"`
	RateWindow time.Duration `json:"rate_window" yaml:"rate_window"`

	// CacheTTL is how long cached registry responses stay fresh (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// AnalysisConfig holds settings for the analysis orchestrator.
type AnalysisConfig struct {
	// Workers bounds how many dimension tasks run concurrently (default 6,
	// one per dimension).
	Workers int `json:"workers" yaml:"workers"`

	// MaxOwnershipDepth bounds recursive PSC tracing (default 3).
	MaxOwnershipDepth int `json:"max_ownership_depth" yaml:"max_ownership_depth"`

	// OrbitSampleLimit caps how many connected companies the ownership
	// dimension profiles (default 20, to respect the rate budget).
	OrbitSampleLimit int `json:"orbit_sample_limit" yaml:"orbit_sample_limit"`
}

// CacheConfig holds settings for the response cache.
type CacheConfig struct {
	// Dir is the directory holding the cache database (default ".cache").
	Dir string `json:"dir" yaml:"dir"`

	// Disabled turns the cache off entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// ServerConfig holds settings for serve mode.
type ServerConfig struct {
	// Addr is the listen address (default ":5050").
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Server   ServerConfig   `json:"server" yaml:"server"`

	// UsageFile is where run statistics are kept (default ".cache/usage.json").
	UsageFile string `json:"usage_file" yaml:"usage_file"`
}

// Defaults returns the baseline configuration before file and env overrides.
func Defaults() AppConfig {
	return AppConfig{
		Registry: RegistryConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "company-lens/0.1",
			},
			BaseURL:    "https://api.company-information.service.gov.uk",
			RateLimit:  600,
			RateWindow: 5 * time.Minute,
			CacheTTL:   24 * time.Hour,
		},
		Analysis: AnalysisConfig{
			Workers:           6,
			MaxOwnershipDepth: 3,
			OrbitSampleLimit:  20,
		},
		Cache: CacheConfig{
			Dir: ".cache",
		},
		Server: ServerConfig{
			Addr:            ":5050",
			ShutdownTimeout: 10 * time.Second,
		},
		UsageFile: ".cache/usage.json",
	}
}
