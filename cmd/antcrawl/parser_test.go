package main

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/nao1215/antcrawl/thing"
)

// testResponse wraps an HTML body in a Response anchored at base.
func testResponse(t *testing.T, base, body string) *thing.Response {
	t.Helper()

	req, err := thing.NewRequest(base)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	headers := http.Header{}
	headers.Set("Content-Type", "text/html; charset=utf-8")
	return thing.NewResponse(req, http.StatusOK, []byte(body), headers, nil)
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	t.Run("title and links", func(t *testing.T) {
		t.Parallel()

		body := `<html><head><title> Example Page </title></head><body>
<a href="/about">About</a>
<a href="https://other.example.com/page">Other</a>
<a href="/about">Duplicate</a>
</body></html>`
		p, err := parsePage(testResponse(t, "https://example.com/index", body))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if p.Title != "Example Page" {
			t.Errorf("expected trimmed title, got %q", p.Title)
		}
		want := []string{"https://example.com/about", "https://other.example.com/page"}
		if len(p.Links) != len(want) {
			t.Fatalf("expected %d links, got %d", len(want), len(p.Links))
		}
		for i, w := range want {
			if p.Links[i].String() != w {
				t.Errorf("link %d: expected %q, got %q", i, w, p.Links[i])
			}
		}
	})

	t.Run("malformed html still parses", func(t *testing.T) {
		t.Parallel()

		body := `<title>Broken<body><a href="/a">unclosed`
		p, err := parsePage(testResponse(t, "https://example.com", body))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if p.Title != "Broken" {
			t.Errorf("expected title Broken, got %q", p.Title)
		}
		if len(p.Links) != 1 {
			t.Errorf("expected 1 link, got %d", len(p.Links))
		}
	})

	t.Run("no title no links", func(t *testing.T) {
		t.Parallel()

		p, err := parsePage(testResponse(t, "https://example.com", "<p>hello</p>"))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if p.Title != "" || len(p.Links) != 0 {
			t.Errorf("expected an empty page, got %+v", p)
		}
	})
}

func TestResolveLink(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/dir/page")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "relative path", raw: "other", want: "https://example.com/dir/other", ok: true},
		{name: "absolute path", raw: "/top", want: "https://example.com/top", ok: true},
		{name: "absolute url", raw: "http://other.example.com/", want: "http://other.example.com/", ok: true},
		{name: "fragment stripped", raw: "/page#section", want: "https://example.com/page", ok: true},
		{name: "bare fragment", raw: "#section", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "javascript", raw: "javascript:void(0)", ok: false},
		{name: "mailto", raw: "mailto:ant@example.com", ok: false},
		{name: "tel", raw: "tel:+1555", ok: false},
		{name: "ftp", raw: "ftp://example.com/file", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := resolveLink(base, tt.raw)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
