package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// testSummary builds a summary with deterministic values.
func testSummary() *Summary {
	return &Summary{
		Name:      "spider",
		StartedAt: time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		Elapsed:   90 * time.Second,
		Counts: []KindCount{
			{Kind: "Request", Delivered: 42, Dropped: 3},
			{Kind: "Response", Delivered: 40, Dropped: 2},
			{Kind: "Item", Delivered: 120, Dropped: 0},
		},
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewJSONWriter(&buf).Write(testSummary())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected reported length %d to match buffer length %d", n, buf.Len())
	}

	var decoded struct {
		Name    string      `json:"name"`
		Elapsed string      `json:"elapsed"`
		Counts  []KindCount `json:"counts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Name != "spider" {
		t.Errorf("expected name spider, got %q", decoded.Name)
	}
	if decoded.Elapsed != "1m30s" {
		t.Errorf("expected human-readable elapsed, got %q", decoded.Elapsed)
	}
	if len(decoded.Counts) != 3 || decoded.Counts[2].Delivered != 120 {
		t.Errorf("unexpected counts: %v", decoded.Counts)
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewMarkdownWriter(&buf).Write(testSummary())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n == 0 {
		t.Error("expected a non-zero length")
	}

	out := buf.String()
	for _, want := range []string{
		"# Crawl Summary",
		"## Throughput",
		"`spider`",
		"| Request",
		"| 120 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var md, js bytes.Buffer
		n, err := NewMultiWriter(NewMarkdownWriter(&md), NewJSONWriter(&js)).Write(testSummary())
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if md.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive the summary")
		}
		if n == 0 {
			t.Error("expected a combined non-zero length")
		}
	})

	t.Run("stops on the first error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("disk full")
		var after bytes.Buffer
		mw := NewMultiWriter(failWriter{err: boom}, NewJSONWriter(&after))
		if _, err := mw.Write(testSummary()); !errors.Is(err, boom) {
			t.Fatalf("expected the writer error, got %v", err)
		}
		if after.Len() != 0 {
			t.Error("expected later writers to be skipped after an error")
		}
	})

	t.Run("no writers is a no-op", func(t *testing.T) {
		t.Parallel()

		n, err := NewMultiWriter().Write(testSummary())
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes, got %d", n)
		}
	})
}

type failWriter struct{ err error }

func (w failWriter) Write(*Summary) (int, error) { return 0, w.err }
