// Package ant implements the execution core of a crawling agent. An Ant
// turns a logical request into a delivered response (or a propagated
// failure) by pushing it through ordered pipeline chains, sending it with
// bounded retries and per-attempt timeouts over pooled per-host sessions,
// and recording throughput and drop counters along the way.
//
// The crawl logic itself is user-supplied: implement Runner and hand it to
// Main, which drives the open / run / drain / close / drain / summary
// lifecycle.
package ant
