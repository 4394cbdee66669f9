// Package scheduler provides the two primitives the crawl engine expects
// from its concurrency collaborator: schedule a task, and wait until every
// previously scheduled task has finished.
package scheduler
