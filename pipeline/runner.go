package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/antcrawl/thing"
)

// ErrNilResult is the drop cause when a stage returns neither a Thing nor
// an error.
var ErrNilResult = errors.New("pipeline returned no thing and no error")

// DroppedError reports that a pipeline stage rejected a Thing. Kind is the
// kind of the original Thing fed into the chain, not of whatever
// intermediate value the failing stage received.
type DroppedError struct {
	// Kind is the kind name of the pre-chain Thing.
	Kind string

	// Stage is the name of the pipeline that rejected it.
	Stage string

	// Err is the cause returned by the stage.
	Err error
}

// Error implements error.
func (e *DroppedError) Error() string {
	return fmt.Sprintf("%s dropped by %s pipeline: %v", strings.ToLower(e.Kind), e.Stage, e.Err)
}

// Unwrap returns the stage's cause so callers can match it with errors.Is.
func (e *DroppedError) Unwrap() error { return e.Err }

// IsDropped reports whether err is (or wraps) a DroppedError.
func IsDropped(err error) bool {
	var dropped *DroppedError
	return errors.As(err, &dropped)
}

// Run drives t through pipelines in declaration order, feeding each
// stage's output to the next. The moment a stage fails, iteration stops,
// later stages never see the Thing, and the failure is returned as a
// *DroppedError carrying the original Thing's kind.
//
// When timeout is positive, every stage invocation runs under its own
// deadline of that duration. Stages are expected to honor ctx.
func Run(ctx context.Context, t thing.Thing, pipelines []Pipeline, timeout time.Duration) (thing.Thing, error) {
	kind := t.Kind()
	current := t
	for _, p := range pipelines {
		select {
		case <-ctx.Done():
			return nil, &DroppedError{Kind: kind, Stage: p.Name(), Err: ctx.Err()}
		default:
		}

		out, err := runStage(ctx, p, current, timeout)
		if err != nil {
			return nil, &DroppedError{Kind: kind, Stage: p.Name(), Err: err}
		}
		if out == nil {
			return nil, &DroppedError{Kind: kind, Stage: p.Name(), Err: ErrNilResult}
		}
		current = out
	}
	return current, nil
}

// runStage invokes one stage under its own deadline.
func runStage(ctx context.Context, p Pipeline, t thing.Thing, timeout time.Duration) (thing.Thing, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.Process(ctx, t)
}
