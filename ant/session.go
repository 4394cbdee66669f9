package ant

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	xproxy "golang.org/x/net/proxy"

	"github.com/nao1215/antcrawl/thing"
)

// ErrClosed is returned when a request is issued after Close.
var ErrClosed = errors.New("ant is closed")

// session is the reusable per-host network context: one HTTP client with
// its own connection pool and cookie jar. Sessions are created lazily on
// the first request to a host and closed exactly once at shutdown.
type session struct {
	host   string
	client *http.Client
	jar    http.CookieJar

	once sync.Once
}

// close releases the session's idle connections. Safe to call more than
// once.
func (s *session) close() error {
	s.once.Do(func() {
		s.client.CloseIdleConnections()
	})
	return nil
}

// redirectPolicy is resolved per request and read back by the pooled
// client's CheckRedirect through the request context.
type redirectPolicy struct {
	allow bool
	max   int
}

type redirectPolicyKey struct{}

// session returns the pooled session for the request's host, creating it
// on first use. Cookie seeding and jar merging happen under the pool lock
// so two concurrent merges never interleave.
func (a *Ant) session(req *thing.Request) (*session, error) {
	host := req.Host()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}

	s, ok := a.sessions[host]
	if !ok {
		var err error
		s, err = a.newSession(host)
		if err != nil {
			return nil, err
		}
		a.sessions[host] = s
	}
	if len(req.Cookies) > 0 {
		// Union merge: names already in the jar survive, duplicate
		// names take the new value.
		s.jar.SetCookies(req.URL, req.Cookies)
	}
	return s, nil
}

// newSession builds the HTTP client for one host, wiring the configured
// proxy into the transport.
func (a *Ant) newSession(host string) (*session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	if a.proxy != nil {
		switch a.proxy.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(a.proxy)
		case "socks5", "socks5h":
			dialer, err := xproxy.SOCKS5("tcp", a.proxy.Host, socksAuth(a.proxyURL), xproxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("create socks5 dialer: %w", err)
			}
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(xproxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", a.proxy.Scheme)
		}
	}

	return &session{
		host: host,
		jar:  jar,
		client: &http.Client{
			Transport:     transport,
			Jar:           jar,
			CheckRedirect: a.checkRedirect,
		},
	}, nil
}

// checkRedirect applies the per-request redirect policy. Disallowed
// redirects hand back the redirect response itself rather than failing.
func (a *Ant) checkRedirect(req *http.Request, via []*http.Request) error {
	policy := redirectPolicy{allow: a.allowRedirects, max: a.maxRedirects}
	if p, ok := req.Context().Value(redirectPolicyKey{}).(redirectPolicy); ok {
		policy = p
	}
	if !policy.allow {
		return http.ErrUseLastResponse
	}
	if len(via) >= policy.max {
		return fmt.Errorf("stopped after %d redirects", policy.max)
	}
	return nil
}

// sendOnce performs exactly one network attempt under the per-attempt
// timeout and converts the result into a Response.
func (a *Ant) sendOnce(ctx context.Context, req *thing.Request) (*thing.Response, error) {
	s, err := a.session(req)
	if err != nil {
		return nil, err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, redirectPolicyKey{}, a.redirectPolicyFor(req))

	hreq, err := a.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	hres, err := s.client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", req, err)
	}
	defer hres.Body.Close() //nolint:errcheck // read side already consumed

	body, err := io.ReadAll(hres.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", req, err)
	}
	return thing.NewResponse(req, hres.StatusCode, body, hres.Header, hres.Cookies()), nil
}

// redirectPolicyFor resolves the request's overrides against the
// engine-level defaults.
func (a *Ant) redirectPolicyFor(req *thing.Request) redirectPolicy {
	policy := redirectPolicy{allow: a.allowRedirects, max: a.maxRedirects}
	if req.AllowRedirects != nil {
		policy.allow = *req.AllowRedirects
	}
	if req.MaxRedirects != nil {
		policy.max = *req.MaxRedirects
	}
	return policy
}

// buildHTTPRequest translates a Request value into an *http.Request.
// Cookies are not set here: they live in the session jar, which the
// client applies on its own.
func (a *Ant) buildHTTPRequest(ctx context.Context, req *thing.Request) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.FullURL().String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", req, err)
	}

	for key, values := range req.Headers {
		hreq.Header[key] = append([]string(nil), values...)
	}
	if a.userAgent != "" && hreq.Header.Get("User-Agent") == "" {
		hreq.Header.Set("User-Agent", a.userAgent)
	}

	// Inline proxy credentials are silently dropped once the session
	// reuses its connection, so they are carried as an explicit header
	// on every request instead.
	if a.proxyAuth != "" {
		hreq.Header.Set("Proxy-Authorization", a.proxyAuth)
	}
	return hreq, nil
}

// splitProxyCredentials parses rawURL, strips embedded credentials, and
// returns the cleaned URL plus the Proxy-Authorization value for them.
func splitProxyCredentials(rawURL string) (*url.URL, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse proxy url: %w", err)
	}
	if u.User == nil {
		return u, "", nil
	}

	password, _ := u.User.Password()
	creds := u.User.Username() + ":" + password
	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))

	clean := *u
	clean.User = nil
	return &clean, auth, nil
}

// socksAuth extracts SOCKS5 credentials from the raw proxy URL, since the
// SOCKS protocol carries them in-band rather than as a header.
func socksAuth(rawURL string) *xproxy.Auth {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return nil
	}
	password, _ := u.User.Password()
	return &xproxy.Auth{User: u.User.Username(), Password: password}
}
