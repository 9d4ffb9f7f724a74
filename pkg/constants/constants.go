// Package constants provides shared constants used throughout the skyline codebase.
// This includes timeouts, rate-limit pacing, pagination sizes, and record limits
// that should be consistent across the application.
package constants

import "time"

// Timeout and pacing constants
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to collaborator APIs
	DefaultHTTPTimeout = 30 * time.Second

	// DiscoveryTimeout is the timeout for a single generative discovery call
	DiscoveryTimeout = 2 * time.Minute

	// MutationDelay is the pause between consecutive mutating calls to
	// third-party APIs, to stay inside their rate limits
	MutationDelay = 250 * time.Millisecond

	// BatchTimeout is the timeout for a full batch sweep (dedupe or repair)
	BatchTimeout = 30 * time.Minute
)

// Pagination and record limits
const (
	// DefaultPageSize is the page size used when listing registry records
	DefaultPageSize = 100

	// MaxComments is the maximum number of comments a record may carry
	MaxComments = 6

	// MaxImages is the maximum number of image URLs a record may carry
	MaxImages = 3
)
