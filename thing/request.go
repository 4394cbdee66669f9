package thing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one logical network request. Fields are fixed once the
// constructor returns; retries reuse the same Request value, and pipelines
// that want a different request return a new one.
type Request struct {
	// URL is the parsed target locator.
	URL *url.URL

	// Method is the HTTP method. Defaults to GET.
	Method string

	// Params are extra query parameters merged into the URL at send time.
	Params url.Values

	// Headers are the request headers.
	Headers http.Header

	// Cookies are merged into the per-host session's cookie jar before
	// the request is sent.
	Cookies []*http.Cookie

	// Body is the raw request body. Nil means no body.
	Body []byte

	// MaxRedirects overrides the engine-level redirect limit when set.
	MaxRedirects *int

	// AllowRedirects overrides the engine-level redirect-following
	// setting when set.
	AllowRedirects *bool
}

// RequestOption configures a Request during construction.
type RequestOption func(*Request) error

// WithMethod sets the HTTP method.
func WithMethod(method string) RequestOption {
	return func(r *Request) error {
		r.Method = strings.ToUpper(method)
		return nil
	}
}

// WithParams sets query parameters merged into the URL at send time.
func WithParams(params url.Values) RequestOption {
	return func(r *Request) error {
		r.Params = params
		return nil
	}
}

// WithHeaders sets the request headers.
func WithHeaders(headers http.Header) RequestOption {
	return func(r *Request) error {
		r.Headers = headers
		return nil
	}
}

// WithCookies sets the cookies carried by this request.
func WithCookies(cookies ...*http.Cookie) RequestOption {
	return func(r *Request) error {
		r.Cookies = cookies
		return nil
	}
}

// WithBody sets a raw request body.
func WithBody(body []byte) RequestOption {
	return func(r *Request) error {
		r.Body = body
		return nil
	}
}

// WithFormBody sets a URL-encoded form body and the matching Content-Type.
func WithFormBody(form url.Values) RequestOption {
	return func(r *Request) error {
		r.Body = []byte(form.Encode())
		r.Headers.Set("Content-Type", "application/x-www-form-urlencoded")
		return nil
	}
}

// WithJSONBody marshals v as the request body and sets the Content-Type.
func WithJSONBody(v any) RequestOption {
	return func(r *Request) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode json body: %w", err)
		}
		r.Body = data
		r.Headers.Set("Content-Type", "application/json")
		return nil
	}
}

// WithRedirects overrides the engine-level redirect policy for this request.
func WithRedirects(allow bool, maxRedirects int) RequestOption {
	return func(r *Request) error {
		r.AllowRedirects = &allow
		r.MaxRedirects = &maxRedirects
		return nil
	}
}

// NewRequest builds a Request for rawURL. The URL must be absolute and
// carry a host, since the engine keys its session pool by host name.
func NewRequest(rawURL string, opts ...RequestOption) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse request url: %w", err)
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return nil, fmt.Errorf("request url %q must be absolute with a host", rawURL)
	}

	r := &Request{
		URL:     u,
		Method:  http.MethodGet,
		Headers: make(http.Header),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Kind implements Thing.
func (r *Request) Kind() string { return KindRequest }

// Host returns the host name the session pool keys on.
func (r *Request) Host() string { return r.URL.Hostname() }

// FullURL returns a copy of the URL with Params merged into its query.
// The stored URL is never mutated.
func (r *Request) FullURL() *url.URL {
	u := *r.URL
	if len(r.Params) == 0 {
		return &u
	}
	q := u.Query()
	for key, values := range r.Params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return &u
}

// String returns a short description for logging.
func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.FullURL())
}
