package pipeline

import (
	"context"

	"github.com/nao1215/antcrawl/thing"
)

// UserAgent stamps a User-Agent header on Requests that don't already
// carry one. Non-request Things pass through untouched.
type UserAgent struct {
	Base

	agent string
}

// NewUserAgent creates a UserAgent pipeline using the given agent string.
func NewUserAgent(agent string) *UserAgent {
	return &UserAgent{agent: agent}
}

// Name implements Pipeline.
func (*UserAgent) Name() string { return "useragent" }

// Process implements Pipeline.
func (u *UserAgent) Process(_ context.Context, t thing.Thing) (thing.Thing, error) {
	req, ok := t.(*thing.Request)
	if !ok {
		return t, nil
	}
	if req.Headers.Get("User-Agent") == "" {
		req.Headers.Set("User-Agent", u.agent)
	}
	return req, nil
}
