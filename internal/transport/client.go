// Package transport provides the HTTP client used to talk to the remote
// MediaWiki action API: authentication, common headers, JSON decoding, and
// retry with exponential backoff on transient failures.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/entitykit/wikibase/pkg/constants"
	"github.com/entitykit/wikibase/pkg/errors"
	"github.com/entitykit/wikibase/pkg/logging"
)

// Client provides HTTP client functionality with authentication and retry.
type Client struct {
	http      *http.Client
	auth      Authenticator
	userAgent string

	// initialBackoff seeds the retry policy; tests shrink it.
	initialBackoff time.Duration
}

// New creates a new transport client with the specified authenticator.
// A nil authenticator means anonymous requests.
func New(auth Authenticator, userAgent string) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}
	return &Client{
		http:           &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:           auth,
		userAgent:      userAgent,
		initialBackoff: constants.RetryBackoff,
	}
}

// SetHTTPClient replaces the underlying HTTP client, mainly for tests.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	if httpClient != nil {
		c.http = httpClient
	}
}

// Do performs a single HTTP request with authentication and common headers
// applied. No retries.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)
	req.Header.Set("User-Agent", c.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return c.http.Do(req)
}

// Get performs a GET request and returns the raw response. The caller owns
// the response body.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WrapIO("create", "GET "+rawURL, err)
	}
	return c.Do(req)
}

// GetJSON performs a GET request and decodes the JSON response into target,
// retrying transient failures with exponential backoff.
func (c *Client) GetJSON(ctx context.Context, rawURL string, target any) error {
	return c.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(errors.WrapIO("create", "GET "+rawURL, err))
		}
		resp, err := c.Do(req)
		if err != nil {
			return err
		}
		return decode(resp, target)
	})
}

// PostFormJSON performs a form-encoded POST request and decodes the JSON
// response into target, retrying transient failures.
func (c *Client) PostFormJSON(ctx context.Context, rawURL string, form url.Values, target any) error {
	body := form.Encode()
	return c.retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(body))
		if err != nil {
			return backoff.Permanent(errors.WrapIO("create", "POST "+rawURL, err))
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := c.Do(req)
		if err != nil {
			return err
		}
		return decode(resp, target)
	})
}

// retry runs op under the standard backoff policy. HTTP 429 and 5xx are
// surfaced by decode as retryable errors; everything wrapped in
// backoff.Permanent stops immediately.
func (c *Client) retry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff
	policy.MaxInterval = constants.MaxRetryBackoff

	notify := func(err error, wait time.Duration) {
		logging.Ctx(ctx).Debug().Err(err).Dur("wait", wait).Msg("retrying request")
	}

	return backoff.RetryNotify(op,
		backoff.WithContext(backoff.WithMaxRetries(policy, constants.MaxRetries), ctx),
		notify,
	)
}

// decode reads and decodes a JSON response body into target. Transient
// status codes come back as plain errors so the retry loop runs again;
// anything else is permanent.
func decode(resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return errors.NewAPIError("", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return backoff.Permanent(errors.NewAPIError("", resp.StatusCode, string(body)))
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return backoff.Permanent(errors.WrapParse("json", "response", err))
	}
	return nil
}
