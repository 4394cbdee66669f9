package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/antcrawl/thing"
)

// ErrUnexpectedStatus is the drop cause for responses outside the allowed
// status range.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// StatusFilter drops Responses whose status code falls outside an allowed
// inclusive range. Non-response Things pass through untouched.
type StatusFilter struct {
	Base

	min, max int
}

// NewStatusFilter creates a filter allowing statuses in [200, 399].
func NewStatusFilter() *StatusFilter {
	return NewStatusFilterRange(200, 399)
}

// NewStatusFilterRange creates a filter allowing statuses in [min, max].
func NewStatusFilterRange(minStatus, maxStatus int) *StatusFilter {
	return &StatusFilter{min: minStatus, max: maxStatus}
}

// Name implements Pipeline.
func (*StatusFilter) Name() string { return "statusfilter" }

// Process implements Pipeline.
func (s *StatusFilter) Process(_ context.Context, t thing.Thing) (thing.Thing, error) {
	res, ok := t.(*thing.Response)
	if !ok {
		return t, nil
	}
	if res.StatusCode < s.min || res.StatusCode > s.max {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, res.StatusCode, res.Request.FullURL())
	}
	return res, nil
}
