package wikibase

import (
	"net/http"

	"github.com/entitykit/wikibase/pkg/errors"
)

// config holds the configured options for a Client.
type config struct {
	apiURL     string
	userAgent  string
	oauthToken string
	maxLag     int
	bot        bool
	httpClient *http.Client
}

// Option is a function that configures a Client instance.
type Option func(*config) error

// WithAPIURL sets the action API endpoint, e.g. for a non-Wikidata wiki.
func WithAPIURL(url string) Option {
	return func(c *config) error {
		if url == "" {
			return &errors.ValidationError{
				Field:   "api_url",
				Message: "cannot be empty",
			}
		}
		c.apiURL = url
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
// Wikimedia wikis require a descriptive one for bots.
func WithUserAgent(userAgent string) Option {
	return func(c *config) error {
		c.userAgent = userAgent
		return nil
	}
}

// WithOAuthToken authenticates requests with an OAuth 2.0 bearer token.
// Without a token the client reads anonymously and cannot submit edits.
func WithOAuthToken(token string) Option {
	return func(c *config) error {
		c.oauthToken = token
		return nil
	}
}

// WithMaxLag sets the maxlag parameter sent with write requests. Zero
// disables the parameter.
func WithMaxLag(seconds int) Option {
	return func(c *config) error {
		if seconds < 0 {
			return &errors.ValidationError{
				Field:   "max_lag",
				Value:   seconds,
				Message: "cannot be negative",
			}
		}
		c.maxLag = seconds
		return nil
	}
}

// WithBot marks submitted edits with the bot flag.
func WithBot(enabled bool) Option {
	return func(c *config) error {
		c.bot = enabled
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) error {
		c.httpClient = httpClient
		return nil
	}
}
