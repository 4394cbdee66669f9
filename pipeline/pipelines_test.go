package pipeline

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/antcrawl/thing"
)

// TestDedupe tests request deduplication.
func TestDedupe(t *testing.T) {
	t.Parallel()

	t.Run("drops the second identical request", func(t *testing.T) {
		t.Parallel()

		d := NewDedupe()
		req, err := thing.NewRequest("https://example.com/page")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := d.Process(context.Background(), req); err != nil {
			t.Fatalf("first pass failed: %v", err)
		}
		dup, err := thing.NewRequest("https://example.com/page")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := d.Process(context.Background(), dup); !errors.Is(err, ErrDuplicateRequest) {
			t.Errorf("expected ErrDuplicateRequest, got %v", err)
		}
	})

	t.Run("method distinguishes requests", func(t *testing.T) {
		t.Parallel()

		d := NewDedupe()
		get, err := thing.NewRequest("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		post, err := thing.NewRequest("https://example.com", thing.WithMethod("POST"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := d.Process(context.Background(), get); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if _, err := d.Process(context.Background(), post); err != nil {
			t.Errorf("post should not be a duplicate of get: %v", err)
		}
	})

	t.Run("non-request things pass through", func(t *testing.T) {
		t.Parallel()

		d := NewDedupe()
		item := thing.NewItem()
		for range 2 {
			out, err := d.Process(context.Background(), item)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != thing.Thing(item) {
				t.Error("expected the item back")
			}
		}
	})
}

// TestUserAgent tests User-Agent stamping.
func TestUserAgent(t *testing.T) {
	t.Parallel()

	t.Run("stamps missing header", func(t *testing.T) {
		t.Parallel()

		ua := NewUserAgent("antbot/1.0")
		req, err := thing.NewRequest("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := ua.Process(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.(*thing.Request).Headers.Get("User-Agent"); got != "antbot/1.0" {
			t.Errorf("unexpected agent %q", got)
		}
	})

	t.Run("keeps an existing header", func(t *testing.T) {
		t.Parallel()

		ua := NewUserAgent("antbot/1.0")
		req, err := thing.NewRequest("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req.Headers.Set("User-Agent", "custom")
		out, err := ua.Process(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.(*thing.Request).Headers.Get("User-Agent"); got != "custom" {
			t.Errorf("existing agent replaced with %q", got)
		}
	})
}

// TestStatusFilter tests response status filtering.
func TestStatusFilter(t *testing.T) {
	t.Parallel()

	req, err := thing.NewRequest("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := NewStatusFilter()
	for _, tc := range []struct {
		status int
		drop   bool
	}{
		{200, false},
		{301, false},
		{399, false},
		{404, true},
		{500, true},
	} {
		res := thing.NewResponse(req, tc.status, nil, nil, nil)
		_, processErr := f.Process(context.Background(), res)
		if tc.drop && !errors.Is(processErr, ErrUnexpectedStatus) {
			t.Errorf("status %d: expected ErrUnexpectedStatus, got %v", tc.status, processErr)
		}
		if !tc.drop && processErr != nil {
			t.Errorf("status %d: unexpected error %v", tc.status, processErr)
		}
	}

	// Requests are none of the filter's business.
	if _, err := f.Process(context.Background(), req); err != nil {
		t.Errorf("request should pass through: %v", err)
	}
}

// TestJSONDump tests the JSON Lines item dump.
func TestJSONDump(t *testing.T) {
	t.Parallel()

	t.Run("writes one line per item", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "items.jsonl")
		dump := NewJSONDump(path)
		ctx := context.Background()

		if err := dump.OnOpen(ctx); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		for i := range 3 {
			item := thing.NewItem().Set("n", i)
			out, err := dump.Process(ctx, item)
			if err != nil {
				t.Fatalf("process failed: %v", err)
			}
			if out != thing.Thing(item) {
				t.Error("expected the item to pass through")
			}
		}
		if err := dump.OnClose(ctx); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		f, err := os.Open(path) //nolint:gosec // test-owned temp path
		if err != nil {
			t.Fatalf("open dump: %v", err)
		}
		defer f.Close() //nolint:errcheck // read-only file

		var lines int
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines++
		}
		if lines != 3 {
			t.Errorf("expected 3 lines, got %d", lines)
		}
	})

	t.Run("process without open fails", func(t *testing.T) {
		t.Parallel()

		dump := NewJSONDump(filepath.Join(t.TempDir(), "items.jsonl"))
		if _, err := dump.Process(context.Background(), thing.NewItem()); err == nil {
			t.Error("expected error before OnOpen")
		}
	})

	t.Run("close without open is a no-op", func(t *testing.T) {
		t.Parallel()

		dump := NewJSONDump(filepath.Join(t.TempDir(), "items.jsonl"))
		if err := dump.OnClose(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestSQLiteDump tests the SQLite item dump.
func TestSQLiteDump(t *testing.T) {
	t.Parallel()

	t.Run("persists items as rows", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "items.db")
		dump := NewSQLiteDump(path, "")
		ctx := context.Background()

		if err := dump.OnOpen(ctx); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		item := thing.NewItem().Set("url", "https://example.com").Set("status", 200)
		if _, err := dump.Process(ctx, item); err != nil {
			t.Fatalf("process failed: %v", err)
		}
		if err := dump.OnClose(ctx); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		db, err := sql.Open("sqlite", path)
		if err != nil {
			t.Fatalf("reopen database: %v", err)
		}
		defer db.Close() //nolint:errcheck // read-only check

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
			t.Fatalf("count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 row, got %d", count)
		}

		var fields string
		if err := db.QueryRow("SELECT fields FROM items").Scan(&fields); err != nil {
			t.Fatalf("read fields: %v", err)
		}
		if fields != `{"url":"https://example.com","status":200}` {
			t.Errorf("unexpected fields %s", fields)
		}
	})

	t.Run("rejects invalid table names", func(t *testing.T) {
		t.Parallel()

		dump := NewSQLiteDump(filepath.Join(t.TempDir(), "items.db"), "items; DROP TABLE items")
		if err := dump.OnOpen(context.Background()); err == nil {
			t.Error("expected error for invalid table name")
		}
	})

	t.Run("non-item things pass through", func(t *testing.T) {
		t.Parallel()

		dump := NewSQLiteDump(filepath.Join(t.TempDir(), "items.db"), "")
		req, err := thing.NewRequest("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// No OnOpen needed: the dump only touches the database for Items.
		if _, err := dump.Process(context.Background(), req); err != nil {
			t.Errorf("request should pass through: %v", err)
		}
	})
}
