// Package log provides a sanitizing slog.Handler for the crawl engine.
// The engine routinely logs requests, responses, and proxy settings;
// the handler masks cookie and credential material before it reaches the
// underlying handler so crawl logs stay safe to share.
package log
