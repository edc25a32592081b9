package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entitykit/wikibase/pkg/errors"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	client := New(nil, "")
	err := client.GetJSON(context.Background(), server.URL, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestBearerAuthApplied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(&BearerAuth{Token: "secret"}, "test-agent/1.0")
	err := client.GetJSON(context.Background(), server.URL, nil)
	require.NoError(t, err)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	client := New(nil, "")
	client.initialBackoff = time.Millisecond
	err := client.GetJSON(context.Background(), server.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, out.OK)
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(nil, "")
	err := client.GetJSON(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestPostFormJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "wbeditentity", r.PostForm.Get("action"))
		w.Write([]byte(`{"success": 1}`))
	}))
	defer server.Close()

	form := url.Values{}
	form.Set("action", "wbeditentity")

	var out struct {
		Success int `json:"success"`
	}
	client := New(nil, "")
	err := client.PostFormJSON(context.Background(), server.URL, form, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Success)
}
