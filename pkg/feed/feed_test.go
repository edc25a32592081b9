package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Recent changes</title>
    <item>
      <title>Q64</title>
      <pubDate>Tue, 25 Aug 2026 14:03:12 +0000</pubDate>
      <dc:creator>BerlinBot</dc:creator>
    </item>
    <item>
      <title>Q42</title>
      <pubDate>Tue, 25 Aug 2026 09:41:00 +0000</pubDate>
      <dc:creator>ExampleUser</dc:creator>
    </item>
    <item>
      <title>Q1</title>
      <pubDate>Tue, 25 Aug 2026 09:41:00 +0000</pubDate>
      <dc:creator>ExampleUser</dc:creator>
    </item>
  </channel>
</rss>`

func TestRecentChanges(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, nil)
	changes, err := fetcher.RecentChanges(context.Background())
	require.NoError(t, err)
	require.Len(t, changes, 3)

	// sorted oldest first, ties broken by title
	assert.Equal(t, "Q1", changes[0].Title)
	assert.Equal(t, "Q42", changes[1].Title)
	assert.Equal(t, "Q64", changes[2].Title)
	assert.Equal(t, "BerlinBot", changes[2].Author)
	assert.Equal(t, time.Date(2026, 8, 25, 14, 3, 12, 0, time.UTC), changes[2].Time.UTC())

	assert.Contains(t, gotQuery, "action=feedrecentchanges")
	assert.Contains(t, gotQuery, "feedformat=rss")
}

func TestRecentChangesFromAndLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20260820000000", r.URL.Query().Get("from"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, nil)
	from := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	changes, err := fetcher.RecentChanges(context.Background(), WithFrom(from), WithLimit(10))
	require.NoError(t, err)
	assert.Len(t, changes, 3)
}

func TestRecentChangesInvalidLimit(t *testing.T) {
	fetcher := NewFetcher("http://unused.invalid/w/api.php", nil)
	_, err := fetcher.RecentChanges(context.Background(), WithLimit(0))
	require.Error(t, err)
}

func TestRecentChangesSkipsBadDates(t *testing.T) {
	const badFeed = `<?xml version="1.0"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <item>
      <title>Q5</title>
      <pubDate>not a date</pubDate>
      <dc:creator>Someone</dc:creator>
    </item>
    <item>
      <title>Q7</title>
      <pubDate>Mon, 24 Aug 2026 08:00:00 +0000</pubDate>
      <dc:creator>Someone</dc:creator>
    </item>
  </channel>
</rss>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(badFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, nil)
	changes, err := fetcher.RecentChanges(context.Background())
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "Q7", changes[0].Title)
}

func TestRecentChangesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, nil)
	_, err := fetcher.RecentChanges(context.Background())
	require.Error(t, err)
}
