// Package constants provides shared constants used throughout the wikibase codebase.
// This includes timeouts, endpoints, file permissions, and other configuration
// values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the API
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// EditTimeout is the timeout for a single entity edit submission
	EditTimeout = 2 * time.Minute

	// DumpProcessTimeout is for full dump processing runs
	DumpProcessTimeout = 30 * time.Minute

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second
)

// Endpoint constants define default remote API locations
const (
	// DefaultAPIURL is the action API endpoint of wikidata.org
	DefaultAPIURL = "https://www.wikidata.org/w/api.php"

	// DefaultUserAgent identifies this toolkit to the remote API
	DefaultUserAgent = "entitykit-wikibase/1.0 (https://github.com/entitykit/wikibase)"

	// DefaultMaxLag is the maxlag parameter sent with write requests.
	// The API rejects writes when replication lag exceeds this many seconds.
	DefaultMaxLag = 5
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like credentials (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries = 3

	// MaxEntitiesPerFetch is the API limit on IDs per wbgetentities call
	MaxEntitiesPerFetch = 50

	// DefaultFeedLimit is the number of items requested from the
	// recent-changes feed when no limit is given
	DefaultFeedLimit = 50
)
