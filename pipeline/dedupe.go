package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nao1215/antcrawl/thing"
)

// ErrDuplicateRequest is the drop cause for requests already seen by a
// Dedupe pipeline.
var ErrDuplicateRequest = errors.New("duplicate request")

// Dedupe drops Requests whose method and full URL were already processed
// during this run. Non-request Things pass through untouched.
type Dedupe struct {
	Base

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDedupe creates a Dedupe pipeline with an empty seen set.
func NewDedupe() *Dedupe {
	return &Dedupe{seen: make(map[string]struct{})}
}

// Name implements Pipeline.
func (*Dedupe) Name() string { return "dedupe" }

// Process implements Pipeline.
func (d *Dedupe) Process(_ context.Context, t thing.Thing) (thing.Thing, error) {
	req, ok := t.(*thing.Request)
	if !ok {
		return t, nil
	}

	key := req.Method + " " + req.FullURL().String()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.seen[key]; dup {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRequest, key)
	}
	d.seen[key] = struct{}{}
	return req, nil
}
