package pipeline

import (
	"context"

	"github.com/nao1215/antcrawl/thing"
)

// Pipeline is one processing stage in a chain. Implementations may be
// stateless transforms or hold their own resources, acquired in OnOpen and
// released in OnClose.
//
// Hook failures are logged by the engine and never abort the surrounding
// lifecycle; Process failures drop the Thing and surface to whoever fed
// the chain.
type Pipeline interface {
	// Name returns the stage name for logging purposes.
	Name() string

	// OnOpen runs once before the crawl starts. Best effort.
	OnOpen(ctx context.Context) error

	// OnClose runs once during shutdown. Best effort.
	OnClose(ctx context.Context) error

	// Process transforms or validates a Thing. It returns the Thing to
	// hand to the next stage (possibly a replacement), or an error to
	// drop it. Returning a nil Thing with a nil error is also treated
	// as a drop.
	Process(ctx context.Context, t thing.Thing) (thing.Thing, error)
}

// Base provides no-op lifecycle hooks for pipelines that don't need them.
// Embed it and implement Name and Process.
type Base struct{}

// OnOpen implements Pipeline.
func (Base) OnOpen(context.Context) error { return nil }

// OnClose implements Pipeline.
func (Base) OnClose(context.Context) error { return nil }
