package thing

import (
	"net/http"
	"testing"
)

// TestResponseText tests lazy body decoding.
func TestResponseText(t *testing.T) {
	t.Parallel()

	t.Run("decodes utf-8 body", func(t *testing.T) {
		t.Parallel()

		req, err := NewRequest("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		headers := http.Header{"Content-Type": []string{"text/html; charset=utf-8"}}
		res := NewResponse(req, 200, []byte("héllo"), headers, nil)

		text, err := res.Text()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "héllo" {
			t.Errorf("unexpected text %q", text)
		}
		if res.Encoding != "utf-8" {
			t.Errorf("unexpected encoding %q", res.Encoding)
		}
	})

	t.Run("decodes latin-1 body without mutating raw bytes", func(t *testing.T) {
		t.Parallel()

		req, err := NewRequest("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		headers := http.Header{"Content-Type": []string{"text/html; charset=iso-8859-1"}}
		raw := []byte{'h', 0xE9, 'l', 'l', 'o'} // "héllo" in latin-1
		res := NewResponse(req, 200, raw, headers, nil)

		text, err := res.Text()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "héllo" {
			t.Errorf("unexpected text %q", text)
		}
		if res.Body[1] != 0xE9 {
			t.Error("raw body was mutated by decoding")
		}
	})

	t.Run("empty body decodes to empty string", func(t *testing.T) {
		t.Parallel()

		req, err := NewRequest("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res := NewResponse(req, 204, nil, nil, nil)

		text, err := res.Text()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "" {
			t.Errorf("expected empty text, got %q", text)
		}
	})
}

// TestResponseJSON tests body unmarshaling.
func TestResponseJSON(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := NewResponse(req, 200, []byte(`{"count": 3}`), nil, nil)

	var payload struct {
		Count int `json:"count"`
	}
	if err := res.JSON(&payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Count != 3 {
		t.Errorf("expected count 3, got %d", payload.Count)
	}

	broken := NewResponse(req, 200, []byte("not json"), nil, nil)
	if err := broken.JSON(&payload); err == nil {
		t.Error("expected error for invalid json")
	}
}

// TestResponseOK tests the 2xx check.
func TestResponseOK(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tc := range []struct {
		status int
		ok     bool
	}{
		{200, true},
		{204, true},
		{299, true},
		{301, false},
		{404, false},
		{500, false},
	} {
		res := NewResponse(req, tc.status, nil, nil, nil)
		if res.OK() != tc.ok {
			t.Errorf("status %d: expected OK()=%v", tc.status, tc.ok)
		}
	}
}
