// Package main provides the entry point for the antcrawl CLI.
//
// antcrawl is a pipeline-driven crawling agent. The crawl command runs a
// reference link spider on top of the engine: requests flow through
// deduplication and User-Agent pipelines, responses through a status
// filter, and collected page items into a JSON Lines or SQLite dump.
//
// Usage:
//
//	antcrawl crawl https://example.com
//	antcrawl crawl --depth 2 --output pages.jsonl https://example.com
//
// See --help for all available options.
package main

// main is the entry point for antcrawl.
func main() {
	Execute()
}
