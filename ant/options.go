package ant

import (
	"log/slog"
	"time"

	"github.com/nao1215/antcrawl/pipeline"
)

// Default behavior values. They match the configuration surface the
// engine recognizes; every one can be overridden with an Option.
const (
	// DefaultRequestTimeout bounds each network attempt and each
	// pipeline stage invocation.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3

	// DefaultRetryDelay is the fixed delay between attempts.
	DefaultRetryDelay = 5 * time.Second

	// DefaultMaxRedirects limits redirect chains per request.
	DefaultMaxRedirects = 10

	// DefaultAllowRedirects controls redirect following per request.
	DefaultAllowRedirects = true

	// DefaultReportInterval is how often the reporter logs rates.
	DefaultReportInterval = 60 * time.Second

	// DefaultName identifies the agent in logs and summaries.
	DefaultName = "ant"
)

// Option configures an Ant during construction.
type Option func(*Ant)

// WithName sets the agent name used in logs and the final summary.
func WithName(name string) Option {
	return func(a *Ant) { a.name = name }
}

// WithRequestPipelines sets the chain Requests flow through before the
// network send.
func WithRequestPipelines(pipelines ...pipeline.Pipeline) Option {
	return func(a *Ant) { a.requestPipelines = pipelines }
}

// WithResponsePipelines sets the chain Responses flow through after the
// network send.
func WithResponsePipelines(pipelines ...pipeline.Pipeline) Option {
	return func(a *Ant) { a.responsePipelines = pipelines }
}

// WithItemPipelines sets the chain collected Items flow through.
func WithItemPipelines(pipelines ...pipeline.Pipeline) Option {
	return func(a *Ant) { a.itemPipelines = pipelines }
}

// WithTimeout sets the per-attempt and per-stage timeout. Zero or
// negative disables the deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Ant) { a.timeout = timeout }
}

// WithRetries sets how many times a failed attempt is retried. Zero means
// exactly one attempt.
func WithRetries(retries int) Option {
	return func(a *Ant) { a.retries = retries }
}

// WithRetryDelay sets the fixed delay between attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(a *Ant) { a.retryDelay = delay }
}

// WithProxy routes all sessions through the proxy at rawURL. Supported
// schemes are http, https, and socks5. Credentials embedded in the URL
// become an explicit Proxy-Authorization header.
func WithProxy(rawURL string) Option {
	return func(a *Ant) { a.proxyURL = rawURL }
}

// WithMaxRedirects sets the default redirect limit per request.
func WithMaxRedirects(maxRedirects int) Option {
	return func(a *Ant) { a.maxRedirects = maxRedirects }
}

// WithAllowRedirects sets whether redirects are followed by default.
func WithAllowRedirects(allow bool) Option {
	return func(a *Ant) { a.allowRedirects = allow }
}

// WithReportInterval sets how often the reporter logs throughput rates.
func WithReportInterval(interval time.Duration) Option {
	return func(a *Ant) { a.reportInterval = interval }
}

// WithUserAgent sets the User-Agent header applied to requests that don't
// carry one.
func WithUserAgent(agent string) Option {
	return func(a *Ant) { a.userAgent = agent }
}

// WithConcurrency caps how many scheduled tasks run at once. Zero or
// negative means unlimited.
func WithConcurrency(n int64) Option {
	return func(a *Ant) { a.concurrency = n }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Ant) { a.logger = logger }
}
