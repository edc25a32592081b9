package wikibase

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/entitykit/wikibase/internal/transport"
	"github.com/entitykit/wikibase/pkg/constants"
	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/errors"
	"github.com/entitykit/wikibase/pkg/feed"
	"github.com/entitykit/wikibase/pkg/logging"
	"github.com/entitykit/wikibase/pkg/update"
)

// Client talks to a Wikibase action API: it fetches entity documents and
// submits edit payloads planned by the update package.
//
// A Client is safe for concurrent use.
type Client struct {
	config        *config
	transport     *transport.Client
	retryInterval time.Duration

	// csrf token cache; invalidated when the API reports badtoken
	mu    sync.Mutex
	token string
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &config{
		apiURL:    constants.DefaultAPIURL,
		userAgent: constants.DefaultUserAgent,
		maxLag:    constants.DefaultMaxLag,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	var auth transport.Authenticator = &transport.NoAuth{}
	if cfg.oauthToken != "" {
		auth = &transport.BearerAuth{Token: cfg.oauthToken}
	}
	tc := transport.New(auth, cfg.userAgent)
	if cfg.httpClient != nil {
		tc.SetHTTPClient(cfg.httpClient)
	}

	return &Client{
		config:        cfg,
		transport:     tc,
		retryInterval: constants.RetryBackoff,
	}, nil
}

// APIURL returns the configured action API endpoint.
func (c *Client) APIURL() string {
	return c.config.apiURL
}

// Entity fetches a single entity document by ID.
func (c *Client) Entity(ctx context.Context, id string) (*entity.Entity, error) {
	docs, err := c.Entities(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[id]
	if !ok {
		return nil, errors.NewNotFoundError("entity", id)
	}
	return doc, nil
}

// Entities fetches up to MaxEntitiesPerFetch entity documents in one call.
// Missing entities are absent from the result rather than an error.
func (c *Client) Entities(ctx context.Context, ids ...string) (map[string]*entity.Entity, error) {
	if len(ids) == 0 {
		return map[string]*entity.Entity{}, nil
	}
	if len(ids) > constants.MaxEntitiesPerFetch {
		return nil, &errors.ValidationError{
			Field:   "ids",
			Value:   len(ids),
			Message: "too many entity IDs for one fetch",
		}
	}
	for _, id := range ids {
		if err := entity.ValidateID(id); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	query.Set("action", "wbgetentities")
	query.Set("format", "json")
	query.Set("ids", strings.Join(ids, "|"))

	var resp getEntitiesResponse
	if err := c.transport.GetJSON(ctx, c.config.apiURL+"?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, errors.NewAPIError(resp.Error.Code, 0, resp.Error.Info)
	}

	docs := make(map[string]*entity.Entity, len(resp.Entities))
	for id, we := range resp.Entities {
		if we.Missing != nil {
			logging.Ctx(ctx).Debug().Str("entity_id", id).Msg("entity missing")
			continue
		}
		docs[id] = we.ToEntity()
	}
	return docs, nil
}

// EditResult reports a successful edit submission.
type EditResult struct {
	EntityID   string
	RevisionID int64
}

// SubmitEdit sends the planned edit to the API. Empty edits are rejected
// with ErrEmptyEdit so callers never burn an API write on a no-op; check
// Update.IsEmpty first to skip silently. Writes rejected for replication
// lag are retried with backoff.
func (c *Client) SubmitEdit(ctx context.Context, u *update.Update, summary string) (*EditResult, error) {
	if u == nil {
		return nil, &errors.ValidationError{
			Field:   "update",
			Message: "update is required",
		}
	}
	if u.IsEmpty() {
		return nil, errors.ErrEmptyEdit
	}

	data, err := json.Marshal(u.Payload())
	if err != nil {
		return nil, errors.WrapParse("json", "edit payload", err)
	}

	var result *EditResult
	operation := func() error {
		token, err := c.csrfToken(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		form := url.Values{}
		form.Set("action", "wbeditentity")
		form.Set("format", "json")
		form.Set("id", u.EntityID())
		form.Set("data", string(data))
		form.Set("token", token)
		if summary != "" {
			form.Set("summary", summary)
		}
		if rev := u.BaseRevisionID(); rev > 0 {
			form.Set("baserevid", strconv.FormatInt(rev, 10))
		}
		if c.config.bot {
			form.Set("bot", "1")
		}
		if c.config.maxLag > 0 {
			form.Set("maxlag", strconv.Itoa(c.config.maxLag))
		}

		var resp editResponse
		if err := c.transport.PostFormJSON(ctx, c.config.apiURL, form, &resp); err != nil {
			return backoff.Permanent(err)
		}
		if resp.Error != nil {
			apiErr := errors.NewAPIError(resp.Error.Code, 0, resp.Error.Info)
			switch resp.Error.Code {
			case "maxlag":
				// replication lag; wait and resubmit
				return apiErr
			case "badtoken":
				c.invalidateToken()
				return apiErr
			default:
				return backoff.Permanent(apiErr)
			}
		}

		result = &EditResult{
			EntityID:   resp.Entity.ID,
			RevisionID: resp.Entity.LastRevID,
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxInterval = constants.MaxRetryBackoff
	notify := func(err error, wait time.Duration) {
		logging.Ctx(ctx).Warn().
			Err(err).
			Dur("wait", wait).
			Str("entity_id", u.EntityID()).
			Msg("edit submission deferred")
	}
	if err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, constants.MaxRetries), ctx),
		notify,
	); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("entity_id", result.EntityID).
		Int64("revision", result.RevisionID).
		Msg("edit submitted")
	return result, nil
}

// RecentChanges fetches the wiki's recent-changes feed.
func (c *Client) RecentChanges(ctx context.Context, opts ...feed.Option) ([]feed.Change, error) {
	fetcher := feed.NewFetcher(c.config.apiURL, c.transport)
	return fetcher.RecentChanges(ctx, opts...)
}

// csrfToken returns the cached CSRF token, fetching one if needed.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	query := url.Values{}
	query.Set("action", "query")
	query.Set("meta", "tokens")
	query.Set("type", "csrf")
	query.Set("format", "json")

	var resp tokenResponse
	if err := c.transport.GetJSON(ctx, c.config.apiURL+"?"+query.Encode(), &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", errors.NewAPIError(resp.Error.Code, 0, resp.Error.Info)
	}
	if resp.Query.Tokens.CSRFToken == "" {
		return "", errors.New("API returned no csrf token")
	}
	c.token = resp.Query.Tokens.CSRFToken
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
