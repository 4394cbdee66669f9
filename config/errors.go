package config

import "errors"

// Validation errors returned by Config.Validate. Package-level sentinel
// errors so callers can match them with errors.Is while still getting a
// readable message.
var (
	// ErrInvalidTimeout is returned when the request timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidRetries is returned when the retry count is negative.
	// Zero retries means exactly one attempt and is valid.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidRetryDelay is returned when the retry delay is negative.
	ErrInvalidRetryDelay = errors.New("invalid retry delay: must be non-negative")

	// ErrInvalidMaxRedirects is returned when the redirect limit is negative.
	ErrInvalidMaxRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrInvalidReportInterval is returned when the report interval is
	// zero or negative.
	ErrInvalidReportInterval = errors.New("invalid report interval: must be positive")

	// ErrInvalidMaxDepth is returned when the spider depth is negative.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidMaxPages is returned when the spider page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrConfigNotFound is returned when the configuration file does not
	// exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
