// Package config holds the run configuration for the antcrawl CLI and for
// programs embedding the engine: network behavior (timeout, retries,
// proxy, redirects), reporting, and the reference spider's crawl settings.
// Configuration is loaded from a YAML file and validated before use.
package config
