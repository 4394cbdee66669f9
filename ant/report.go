package ant

import (
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/antcrawl/report"
)

// counter tracks one kind's running total plus the baseline at the last
// flush, so each flush can log a since-last-flush delta without ever
// resetting the total.
type counter struct {
	baseline int
	total    int
}

// reporter owns the per-kind delivered/dropped counters. It is the only
// shared mutable state between concurrent requests, so every entry point
// takes the mutex. Flushing piggybacks on record calls; there is no timer
// task.
type reporter struct {
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	start     time.Time
	last      time.Time
	delivered map[string]*counter
	dropped   map[string]*counter
	order     []string // kinds in first-observation order
}

func newReporter(interval time.Duration, logger *slog.Logger) *reporter {
	now := time.Now()
	return &reporter{
		interval:  interval,
		logger:    logger,
		start:     now,
		last:      now,
		delivered: make(map[string]*counter),
		dropped:   make(map[string]*counter),
	}
}

// record increments the delivered or dropped counter for kind. When more
// than the report interval has passed since the last flush, current rates
// are logged first and the baselines advance.
func (r *reporter) record(kind string, dropped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now := time.Now(); now.Sub(r.last) > r.interval {
		r.flushLocked(now)
	}

	counts := r.delivered
	if dropped {
		counts = r.dropped
	}
	c, ok := counts[kind]
	if !ok {
		c = &counter{}
		counts[kind] = c
		r.trackLocked(kind)
	}
	c.total++
}

// flushLocked logs totals and deltas for every tracked kind and
// rebaselines. Callers hold the mutex.
func (r *reporter) flushLocked(now time.Time) {
	r.last = now
	seconds := int(r.interval / time.Second)
	for _, kind := range r.order {
		if c, ok := r.delivered[kind]; ok {
			delta := c.total - c.baseline
			c.baseline = c.total
			r.logger.Info("throughput",
				"kind", kind, "delivered_total", c.total,
				"delivered_rate", delta, "interval_seconds", seconds)
		}
		if c, ok := r.dropped[kind]; ok {
			delta := c.total - c.baseline
			c.baseline = c.total
			r.logger.Info("drops",
				"kind", kind, "dropped_total", c.total,
				"dropped_rate", delta, "interval_seconds", seconds)
		}
	}
}

// trackLocked remembers the first observation of a new kind so summaries
// iterate deterministically. Callers hold the mutex.
func (r *reporter) trackLocked(kind string) {
	for _, k := range r.order {
		if k == kind {
			return
		}
	}
	r.order = append(r.order, kind)
}

// finalSummary logs totals per kind and the wall-clock run duration.
func (r *reporter) finalSummary(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, kind := range r.order {
		if c, ok := r.delivered[kind]; ok {
			r.logger.Info("collected in total", "kind", kind, "count", c.total)
		}
	}
	for _, kind := range r.order {
		if c, ok := r.dropped[kind]; ok {
			r.logger.Info("dropped in total", "kind", kind, "count", c.total)
		}
	}
	r.logger.Info("finished", "name", name, "elapsed", time.Since(r.start))
}

// summary snapshots the counters for the report writers.
func (r *reporter) summary(name string) *report.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make([]report.KindCount, 0, len(r.order))
	for _, kind := range r.order {
		kc := report.KindCount{Kind: kind}
		if c, ok := r.delivered[kind]; ok {
			kc.Delivered = c.total
		}
		if c, ok := r.dropped[kind]; ok {
			kc.Dropped = c.total
		}
		counts = append(counts, kc)
	}
	return &report.Summary{
		Name:      name,
		StartedAt: r.start,
		Elapsed:   time.Since(r.start),
		Counts:    counts,
	}
}
