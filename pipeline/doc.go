// Package pipeline defines the processing-stage contract for crawl engines
// and the runner that drives a Thing through an ordered chain of stages.
//
// A chain is strictly linear: the output of stage i feeds stage i+1, and
// the first stage that returns an error stops the chain immediately. A
// rejected Thing is always surfaced to the caller as a *DroppedError; there
// is no silent-discard path.
//
// The package also ships a small set of stock pipelines (request
// deduplication, User-Agent stamping, response status filtering, and item
// dumps to JSON Lines or SQLite) that cover the common needs of concrete
// crawlers.
package pipeline
