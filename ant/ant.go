package ant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/nao1215/antcrawl/pipeline"
	"github.com/nao1215/antcrawl/report"
	"github.com/nao1215/antcrawl/scheduler"
	"github.com/nao1215/antcrawl/thing"
)

// Runner is the user-supplied crawl logic. Run may schedule arbitrarily
// many concurrent Request/Collect calls through a.Schedule; Main drains
// them before shutting down.
type Runner interface {
	Run(ctx context.Context, a *Ant) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, a *Ant) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, a *Ant) error { return f(ctx, a) }

// Ant is the orchestrator: it owns the pipeline chains, the per-host
// session pool, the retry policy, the scheduler, and the report counters.
// One Ant drives one crawl run.
type Ant struct {
	name string

	requestPipelines  []pipeline.Pipeline
	responsePipelines []pipeline.Pipeline
	itemPipelines     []pipeline.Pipeline

	timeout        time.Duration
	retries        int
	retryDelay     time.Duration
	maxRedirects   int
	allowRedirects bool
	reportInterval time.Duration
	userAgent      string
	concurrency    int64

	proxyURL  string
	proxy     *url.URL // credentials stripped
	proxyAuth string   // Proxy-Authorization header value, "" if none

	logger   *slog.Logger
	sched    *scheduler.Scheduler
	reporter *reporter

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// New creates an Ant with the given options. It fails only when the
// configured proxy URL cannot be parsed.
func New(opts ...Option) (*Ant, error) {
	a := &Ant{
		name:           DefaultName,
		timeout:        DefaultRequestTimeout,
		retries:        DefaultRetries,
		retryDelay:     DefaultRetryDelay,
		maxRedirects:   DefaultMaxRedirects,
		allowRedirects: DefaultAllowRedirects,
		reportInterval: DefaultReportInterval,
		sessions:       make(map[string]*session),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("ant", a.name)

	if a.proxyURL != "" {
		proxyURL, proxyAuth, err := splitProxyCredentials(a.proxyURL)
		if err != nil {
			return nil, err
		}
		a.proxy = proxyURL
		a.proxyAuth = proxyAuth
	}

	a.sched = scheduler.New(
		scheduler.WithLimit(a.concurrency),
		scheduler.WithLogger(a.logger),
	)
	a.reporter = newReporter(a.reportInterval, a.logger)
	return a, nil
}

// Request builds the final request through the request chain, sends it
// with the retry/timeout policy, and runs the result through the response
// chain. Drops and retry exhaustion propagate to the caller; counters are
// updated either way.
func (a *Ant) Request(ctx context.Context, req *thing.Request) (*thing.Response, error) {
	out, err := pipeline.Run(ctx, req, a.requestPipelines, a.timeout)
	if err != nil {
		a.reporter.record(req.Kind(), true)
		a.logger.Warn("request dropped", "request", req, "error", err)
		return nil, err
	}
	req, err = asRequest(out)
	if err != nil {
		a.reporter.record(thing.KindRequest, true)
		return nil, err
	}
	a.reporter.record(thing.KindRequest, false)

	res, err := a.send(ctx, req)
	if err != nil {
		return nil, err
	}

	out, err = pipeline.Run(ctx, res, a.responsePipelines, a.timeout)
	if err != nil {
		a.reporter.record(res.Kind(), true)
		a.logger.Warn("response dropped", "response", res, "error", err)
		return nil, err
	}
	res, err = asResponse(out)
	if err != nil {
		a.reporter.record(thing.KindResponse, true)
		return nil, err
	}
	a.reporter.record(thing.KindResponse, false)
	return res, nil
}

// Collect runs item through the item chain and records it. A drop
// propagates to the caller.
func (a *Ant) Collect(ctx context.Context, item *thing.Item) error {
	a.logger.Debug("collect item", "item", item)
	if _, err := pipeline.Run(ctx, item, a.itemPipelines, a.timeout); err != nil {
		a.reporter.record(item.Kind(), true)
		a.logger.Warn("item dropped", "item", item, "error", err)
		return err
	}
	a.reporter.record(thing.KindItem, false)
	return nil
}

// Schedule fires task as tracked concurrent work. Its error is logged,
// not propagated; Main's drain barriers wait for it.
func (a *Ant) Schedule(ctx context.Context, task func(ctx context.Context) error) {
	a.sched.Schedule(ctx, task)
}

// Open invokes every pipeline's OnOpen hook in declared chain order
// (request, response, item). Hook failures are logged and isolated so the
// lifecycle always completes.
func (a *Ant) Open(ctx context.Context) {
	a.logger.Info("opening")
	for _, p := range a.allPipelines() {
		if err := p.OnOpen(ctx); err != nil {
			a.logger.Error("pipeline open hook failed", "pipeline", p.Name(), "error", err)
		}
	}
}

// Close invokes every pipeline's OnClose hook in the same order as Open,
// then closes every pooled session. Each failure is logged and isolated;
// calling Close again is a no-op for the already-closed sessions.
func (a *Ant) Close(ctx context.Context) {
	for _, p := range a.allPipelines() {
		if err := p.OnClose(ctx); err != nil {
			a.logger.Error("pipeline close hook failed", "pipeline", p.Name(), "error", err)
		}
	}

	a.mu.Lock()
	sessions := make([]*session, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	a.closed = true
	a.mu.Unlock()

	for _, s := range sessions {
		if err := s.close(); err != nil {
			a.logger.Error("session close failed", "host", s.host, "error", err)
		}
	}
	a.logger.Info("closed")
}

// Main drives the whole lifecycle: open, run the crawl logic, drain
// scheduled work, close, drain again, and log the final summary. The
// second drain exists because Close may itself schedule asynchronous
// teardown work. Runner failures are logged and never prevent shutdown,
// and a canceled context cuts the first drain short without skipping
// Close or the summary, so dump files and sessions are released even
// when the run is interrupted.
func (a *Ant) Main(ctx context.Context, r Runner) error {
	a.Open(ctx)

	if err := r.Run(ctx, a); err != nil {
		a.logger.Error("crawl logic failed", "error", err)
	}

	drainErr := a.sched.Wait(ctx)
	if drainErr != nil {
		a.logger.Warn("drain interrupted, shutting down", "error", drainErr)
	}

	// Shutdown runs detached from the run context so cancellation
	// cannot abort it mid-way.
	shutdownCtx := context.WithoutCancel(ctx)
	a.Close(shutdownCtx)
	if err := a.sched.Wait(shutdownCtx); err != nil && drainErr == nil {
		drainErr = err
	}

	a.reporter.finalSummary(a.name)
	if drainErr != nil {
		return fmt.Errorf("drain scheduled work: %w", drainErr)
	}
	return nil
}

// Summary returns the current report counters for external writers.
func (a *Ant) Summary() *report.Summary {
	return a.reporter.summary(a.name)
}

// allPipelines returns the three chains in hook order.
func (a *Ant) allPipelines() []pipeline.Pipeline {
	all := make([]pipeline.Pipeline, 0,
		len(a.requestPipelines)+len(a.responsePipelines)+len(a.itemPipelines))
	all = append(all, a.requestPipelines...)
	all = append(all, a.responsePipelines...)
	all = append(all, a.itemPipelines...)
	return all
}

// asRequest asserts that a request chain produced a Request.
func asRequest(t thing.Thing) (*thing.Request, error) {
	req, ok := t.(*thing.Request)
	if !ok {
		return nil, fmt.Errorf("request pipeline produced %s, want %s", t.Kind(), thing.KindRequest)
	}
	return req, nil
}

// asResponse asserts that a response chain produced a Response.
func asResponse(t thing.Thing) (*thing.Response, error) {
	res, ok := t.(*thing.Response)
	if !ok {
		return nil, fmt.Errorf("response pipeline produced %s, want %s", t.Kind(), thing.KindResponse)
	}
	return res, nil
}
