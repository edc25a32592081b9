// Package feed fetches the recent-changes feed of a MediaWiki site. The
// API exposes it as RSS; this package parses the items into typed changes
// sorted by time.
package feed

import (
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/entitykit/wikibase/internal/transport"
	"github.com/entitykit/wikibase/pkg/constants"
	"github.com/entitykit/wikibase/pkg/errors"
	"github.com/entitykit/wikibase/pkg/logging"
)

// Change is one entry of the recent-changes feed.
type Change struct {
	// Title is the changed page title; for entity edits this is the
	// entity ID.
	Title string

	// Author is the editing user's name, or their IP address for
	// anonymous edits.
	Author string

	// Time is when the change was made.
	Time time.Time
}

// Fetcher retrieves recent changes from one wiki.
type Fetcher struct {
	apiURL    string
	transport *transport.Client
}

// NewFetcher creates a fetcher against the given action API endpoint.
// A nil transport gets an anonymous default.
func NewFetcher(apiURL string, tc *transport.Client) *Fetcher {
	if apiURL == "" {
		apiURL = constants.DefaultAPIURL
	}
	if tc == nil {
		tc = transport.New(nil, "")
	}
	return &Fetcher{apiURL: apiURL, transport: tc}
}

// options configures one feed request.
type options struct {
	from  time.Time
	limit int
}

// Option configures a feed request.
type Option func(*options) error

// WithFrom only returns changes at or after the given time.
func WithFrom(from time.Time) Option {
	return func(o *options) error {
		o.from = from
		return nil
	}
}

// WithLimit caps the number of changes requested from the feed.
func WithLimit(limit int) Option {
	return func(o *options) error {
		if limit <= 0 {
			return &errors.ValidationError{
				Field:   "limit",
				Value:   limit,
				Message: "must be positive",
			}
		}
		o.limit = limit
		return nil
	}
}

// RecentChanges fetches and parses the feed. Changes come back sorted by
// time, oldest first, ties broken by title.
func (f *Fetcher) RecentChanges(ctx context.Context, opts ...Option) ([]Change, error) {
	o := &options{limit: constants.DefaultFeedLimit}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	feedURL := f.buildURL(o)
	resp, err := f.transport.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to close feed body")
		}
	}()

	if resp.StatusCode != 200 {
		return nil, errors.NewAPIError("", resp.StatusCode, "recent changes feed unavailable")
	}

	changes, err := parse(resp.Body)
	if err != nil {
		return nil, err
	}

	sort.Slice(changes, func(i, j int) bool {
		if !changes[i].Time.Equal(changes[j].Time) {
			return changes[i].Time.Before(changes[j].Time)
		}
		return changes[i].Title < changes[j].Title
	})
	return changes, nil
}

// buildURL assembles the feed URL including the from parameter when set.
func (f *Fetcher) buildURL(o *options) string {
	query := url.Values{}
	query.Set("action", "feedrecentchanges")
	query.Set("format", "json")
	query.Set("feedformat", "rss")
	if o.limit > 0 {
		query.Set("limit", strconv.Itoa(o.limit))
	}
	if !o.from.IsZero() {
		query.Set("from", o.from.UTC().Format("20060102150405"))
	}
	return f.apiURL + "?" + query.Encode()
}

// rssFeed is the subset of the RSS document this package reads.
type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	PubDate string `xml:"pubDate"`
	Creator string `xml:"creator"`
}

// pubDateFormats are the timestamp layouts seen in MediaWiki RSS feeds.
var pubDateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	"02 Jan 2006 15:04:05 -0700",
}

func parse(r io.Reader) ([]Change, error) {
	var doc rssFeed
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.WrapParse("rss", "recent changes feed", err)
	}

	changes := make([]Change, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		ts, err := parsePubDate(item.PubDate)
		if err != nil {
			logging.Warn().Str("pub_date", item.PubDate).Msg("skipping feed item with unparseable date")
			continue
		}
		changes = append(changes, Change{
			Title:  item.Title,
			Author: item.Creator,
			Time:   ts,
		})
	}
	return changes, nil
}

func parsePubDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range pubDateFormats {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, errors.WrapParse("rss", "pubDate", lastErr)
}
