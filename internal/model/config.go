package model

import "time"

// Config is the complete factdash configuration
type Config struct {
	API          APIConfig          `yaml:"api"`
	Cache        CacheConfig        `yaml:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting"`
	Server       ServerConfig       `yaml:"server"`
	Output       OutputConfig       `yaml:"output"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency"`
}

// APIConfig configures the backend HTTP client
type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	HTTPProxy   string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy  string        `yaml:"https_proxy,omitempty"`
	NoProxy     string        `yaml:"no_proxy,omitempty"`
	InsecureTLS bool          `yaml:"insecure_tls"`
}

// CacheConfig holds the query cache defaults; per-resource policies override StaleTime
type CacheConfig struct {
	StaleTime  time.Duration `yaml:"stale_time"`  // Freshness window
	GCTime     time.Duration `yaml:"gc_time"`     // Inactive entries are evicted after this
	Retry      int           `yaml:"retry"`       // Retries after a failed fetch
	RetryDelay time.Duration `yaml:"retry_delay"` // Delay before each retry

	LiveStaleTime   time.Duration `yaml:"live_stale_time"`  // Freshness window of investigations and dashboard stats
	RefetchInterval time.Duration `yaml:"refetch_interval"` // Background re-fetch of live views while observed
}

// RateLimitingConfig limits outbound requests to the backend
type RateLimitingConfig struct {
	RequestsPerSecond float64                  `yaml:"requests_per_second"` // 0 disables limiting
	BurstSize         int                      `yaml:"burst_size"`
	Hosts             map[string]HostRateLimit `yaml:"hosts,omitempty"` // Per-host overrides keyed by host[:port]
}

// HostRateLimit overrides the default limit for one backend host
type HostRateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// ServerConfig configures the dashboard web server
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	ReloadInterval time.Duration `yaml:"reload_interval"` // Timed reload of live pages
	Warm           bool          `yaml:"warm"`            // Keep live views observed while serving
}

// OutputConfig configures terminal output
type OutputConfig struct {
	Color    string `yaml:"color"` // auto, always, never
	PageSize int    `yaml:"page_size"`
	Verbose  bool   `yaml:"verbose"`
}

// ConcurrencyConfig configures worker counts
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000/api/v1",
			Timeout:   30 * time.Second,
			UserAgent: "factdash/0.1 (+https://github.com/ppiankov/factdash)",
		},
		Cache: CacheConfig{
			StaleTime:  5 * time.Minute,
			GCTime:     5 * time.Minute,
			Retry:      1,
			RetryDelay: time.Second,

			LiveStaleTime:   30 * time.Second,
			RefetchInterval: 60 * time.Second,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 20,
			BurstSize:         10,
		},
		Server: ServerConfig{
			Addr:           ":3000",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			ReloadInterval: 60 * time.Second,
			Warm:           true,
		},
		Output: OutputConfig{
			Color:    "auto",
			PageSize: 20,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
