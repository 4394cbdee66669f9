package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values for the CLI spider.
const (
	// DefaultTimeout bounds each network attempt and each pipeline
	// stage invocation.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3

	// DefaultRetryDelay is the fixed delay between attempts.
	DefaultRetryDelay = 5 * time.Second

	// DefaultMaxRedirects limits redirect chains per request.
	DefaultMaxRedirects = 10

	// DefaultReportInterval is how often throughput rates are logged.
	DefaultReportInterval = 60 * time.Second

	// DefaultUserAgent identifies the crawler in HTTP requests. A
	// descriptive agent lets operators recognize the traffic.
	DefaultUserAgent = "antcrawl/1.0 (+https://github.com/nao1215/antcrawl)"

	// DefaultConcurrency caps concurrently running scheduled tasks.
	DefaultConcurrency = 10

	// DefaultMaxDepth limits how far the reference spider follows
	// links from a seed. 0 means only the seed pages.
	DefaultMaxDepth = 1

	// DefaultMaxPages caps pages fetched per run, preventing runaway
	// crawls on large or infinitely generated sites.
	DefaultMaxPages = 100

	// AppName is the application name used for XDG directory paths.
	AppName = "antcrawl"
)

// Config holds all options for a crawl run. It is populated from the YAML
// config file and CLI flags and passed through the application by value,
// not kept as global state.
type Config struct {
	// Timeout is the per-attempt request timeout.
	Timeout Duration `yaml:"timeout"`

	// Retries is how many times a failed attempt is retried. Nil means
	// the default; zero means exactly one attempt.
	Retries *int `yaml:"retries"`

	// RetryDelay is the fixed delay between attempts.
	RetryDelay Duration `yaml:"retry_delay"`

	// Proxy routes all traffic through the given http, https, or
	// socks5 URL. Empty means direct connections.
	Proxy string `yaml:"proxy"`

	// MaxRedirects limits redirect chains per request.
	MaxRedirects int `yaml:"max_redirects"`

	// AllowRedirects controls redirect following. Nil means true.
	AllowRedirects *bool `yaml:"allow_redirects"`

	// ReportInterval is how often throughput rates are logged.
	ReportInterval Duration `yaml:"report_interval"`

	// UserAgent is the default User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// Concurrency caps concurrently running scheduled tasks. Zero
	// means the default; use a negative value for unlimited.
	Concurrency int64 `yaml:"concurrency"`

	// Spider configures the reference link spider.
	Spider Spider `yaml:"spider"`
}

// Spider configures the CLI's reference link spider.
type Spider struct {
	// Seeds are the start URLs. CLI arguments take precedence.
	Seeds []string `yaml:"seeds"`

	// MaxDepth limits link following from a seed.
	MaxDepth int `yaml:"max_depth"`

	// MaxPages caps pages fetched per run.
	MaxPages int `yaml:"max_pages"`

	// AllowHosts restricts followed links to these host names. Empty
	// means only the seeds' own hosts.
	AllowHosts []string `yaml:"allow_hosts"`

	// Output is the item dump destination. Empty means a file in the
	// XDG data directory.
	Output string `yaml:"output"`

	// Format selects the item dump format: "jsonl" or "sqlite".
	Format string `yaml:"format"`
}

// Default returns a Config with every field at its default.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Timeout.IsZero() {
		c.Timeout = DurationFrom(DefaultTimeout)
	}
	if c.Retries == nil {
		retries := DefaultRetries
		c.Retries = &retries
	}
	if c.RetryDelay.IsZero() {
		c.RetryDelay = DurationFrom(DefaultRetryDelay)
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.AllowRedirects == nil {
		allow := true
		c.AllowRedirects = &allow
	}
	if c.ReportInterval.IsZero() {
		c.ReportInterval = DurationFrom(DefaultReportInterval)
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Spider.MaxDepth == 0 {
		c.Spider.MaxDepth = DefaultMaxDepth
	}
	if c.Spider.MaxPages == 0 {
		c.Spider.MaxPages = DefaultMaxPages
	}
	if c.Spider.Format == "" {
		c.Spider.Format = "jsonl"
	}
	if c.Spider.Output == "" {
		name := "items.jsonl"
		if c.Spider.Format == "sqlite" {
			name = "items.db"
		}
		c.Spider.Output = filepath.Join(DataDir(), name)
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Timeout.Duration < 0 {
		return ErrInvalidTimeout
	}
	if c.Retries != nil && *c.Retries < 0 {
		return ErrInvalidRetries
	}
	if c.RetryDelay.Duration < 0 {
		return ErrInvalidRetryDelay
	}
	if c.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.ReportInterval.Duration <= 0 {
		return ErrInvalidReportInterval
	}
	if c.Spider.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.Spider.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	return nil
}

// DataDir returns the XDG data directory for crawl outputs.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
