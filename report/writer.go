package report

import (
	"time"
)

// KindCount holds the final counters for one Thing kind.
type KindCount struct {
	// Kind is the kind name ("Request", "Response", "Item", ...).
	Kind string `json:"kind"`

	// Delivered counts Things that made it through their chain.
	Delivered int `json:"delivered"`

	// Dropped counts Things rejected by a pipeline stage.
	Dropped int `json:"dropped"`
}

// Summary is the final state of a crawl run. Counts preserve the order in
// which kinds were first observed.
type Summary struct {
	// Name identifies the crawler that produced the summary.
	Name string `json:"name"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock run duration.
	Elapsed time.Duration `json:"elapsed"`

	// Counts holds per-kind delivered/dropped totals.
	Counts []KindCount `json:"counts"`
}

// Writer outputs a Summary to some destination.
//
// The interface is separate from io.Writer because implementations write
// summaries, not raw bytes.
type Writer interface {
	// Write outputs the summary. Returns the number of bytes written
	// and any error encountered.
	Write(summary *Summary) (int, error)
}

// MultiWriter writes one summary to several Writers, stopping on the
// first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write implements Writer.
func (m *MultiWriter) Write(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
