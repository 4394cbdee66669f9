// Package report renders a finished crawl's summary counters in several
// output formats. Writers share one interface so the CLI can target the
// terminal, a file, or both at once.
package report
