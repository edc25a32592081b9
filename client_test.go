package wikibase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/errors"
	"github.com/entitykit/wikibase/pkg/update"
)

const douglasJSON = `{
	"id": "Q42",
	"type": "item",
	"lastrevid": 1234,
	"labels": {"en": {"language": "en", "value": "Douglas Adams"}},
	"descriptions": {"en": {"language": "en", "value": "English writer"}},
	"aliases": {"en": [
		{"language": "en", "value": "Douglas Noel Adams"},
		{"language": "en", "value": "DNA"}
	]},
	"claims": {"P31": [{
		"id": "Q42$abc",
		"rank": "normal",
		"mainsnak": {
			"snaktype": "value",
			"property": "P31",
			"datavalue": {"type": "wikibase-entityid", "value": {"entity-type": "item", "id": "Q5"}}
		}
	}]}
}`

// apiServer emulates the handful of action API calls the client makes.
type apiServer struct {
	t *testing.T

	tokenFetches int
	editCalls    int

	// editResponses is consumed one per edit call; the last entry
	// repeats.
	editResponses []string
	lastEditForm  map[string]string
}

func (s *apiServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPost {
			require.NoError(s.t, r.ParseForm())
			require.Equal(s.t, "wbeditentity", r.PostForm.Get("action"))
			s.lastEditForm = map[string]string{}
			for key := range r.PostForm {
				s.lastEditForm[key] = r.PostForm.Get(key)
			}

			i := s.editCalls
			if i >= len(s.editResponses) {
				i = len(s.editResponses) - 1
			}
			s.editCalls++
			fmt.Fprint(w, s.editResponses[i])
			return
		}

		switch r.URL.Query().Get("action") {
		case "query":
			s.tokenFetches++
			fmt.Fprintf(w, `{"query": {"tokens": {"csrftoken": "token-%d+\\"}}}`, s.tokenFetches)
		case "wbgetentities":
			if r.URL.Query().Get("ids") == "Q404" {
				fmt.Fprint(w, `{"entities": {"Q404": {"id": "Q404", "missing": ""}}}`)
				return
			}
			fmt.Fprintf(w, `{"entities": {"Q42": %s}}`, douglasJSON)
		default:
			s.t.Fatalf("unexpected request: %s %s", r.Method, r.URL)
		}
	}
}

func newTestClient(t *testing.T, s *apiServer) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(s.handler())
	t.Cleanup(server.Close)

	client, err := New(
		WithAPIURL(server.URL),
		WithOAuthToken("oauth-secret"),
		WithBot(true),
	)
	require.NoError(t, err)
	client.retryInterval = time.Millisecond
	return client, server
}

func TestEntity(t *testing.T) {
	client, _ := newTestClient(t, &apiServer{t: t})

	doc, err := client.Entity(context.Background(), "Q42")
	require.NoError(t, err)

	assert.Equal(t, "Q42", doc.ID)
	assert.Equal(t, entity.TypeItem, doc.Type)
	assert.Equal(t, int64(1234), doc.LastRevisionID)
	assert.Equal(t, "Douglas Adams", doc.Labels["en"].Text)
	assert.Equal(t, "English writer", doc.Descriptions["en"].Text)
	require.Len(t, doc.Aliases["en"], 2)

	require.Len(t, doc.Statements, 1)
	st := doc.Statements[0]
	assert.Equal(t, "Q42$abc", st.ID)
	assert.Equal(t, "P31", st.Property())
	require.NotNil(t, st.MainSnak.DataValue)
	assert.Equal(t, `{"entity-type":"item","id":"Q5"}`, st.MainSnak.DataValue.Value,
		"data value JSON is compacted")
}

func TestEntityNotFound(t *testing.T) {
	client, _ := newTestClient(t, &apiServer{t: t})

	_, err := client.Entity(context.Background(), "Q404")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestEntitiesValidation(t *testing.T) {
	client, _ := newTestClient(t, &apiServer{t: t})

	_, err := client.Entities(context.Background(), "not-an-id")
	require.Error(t, err)

	ids := make([]string, 51)
	for i := range ids {
		ids[i] = fmt.Sprintf("Q%d", i+1)
	}
	_, err = client.Entities(context.Background(), ids...)
	require.Error(t, err, "over the per-fetch limit")

	docs, err := client.Entities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs, "no ids is a no-op")
}

func editUpdate(t *testing.T, client *Client) *update.Update {
	t.Helper()
	doc, err := client.Entity(context.Background(), "Q42")
	require.NoError(t, err)

	u, err := update.New(doc, update.WithAliases(entity.NewTerm("en", "42")))
	require.NoError(t, err)
	require.False(t, u.IsEmpty())
	return u
}

func TestSubmitEdit(t *testing.T) {
	server := &apiServer{t: t, editResponses: []string{
		`{"success": 1, "entity": {"id": "Q42", "lastrevid": 1235}}`,
	}}
	client, _ := newTestClient(t, server)

	u := editUpdate(t, client)
	result, err := client.SubmitEdit(context.Background(), u, "add alias")
	require.NoError(t, err)

	assert.Equal(t, "Q42", result.EntityID)
	assert.Equal(t, int64(1235), result.RevisionID)

	form := server.lastEditForm
	assert.Equal(t, "Q42", form["id"])
	assert.Equal(t, "token-1+\\", form["token"])
	assert.Equal(t, "add alias", form["summary"])
	assert.Equal(t, "1234", form["baserevid"])
	assert.Equal(t, "1", form["bot"])
	assert.Equal(t, "5", form["maxlag"])
	assert.Contains(t, form["data"], `"aliases"`)
	assert.NotContains(t, form["data"], `"labels"`, "unchanged terms stay out of the payload")
}

func TestSubmitEditRejectsEmptyPlan(t *testing.T) {
	client, _ := newTestClient(t, &apiServer{t: t})

	doc, err := client.Entity(context.Background(), "Q42")
	require.NoError(t, err)
	u, err := update.New(doc,
		update.WithLabels(entity.NewTerm("en", "Douglas Adams")))
	require.NoError(t, err)

	_, err = client.SubmitEdit(context.Background(), u, "")
	require.ErrorIs(t, err, errors.ErrEmptyEdit)

	_, err = client.SubmitEdit(context.Background(), nil, "")
	require.Error(t, err)
}

func TestSubmitEditRetriesOnMaxLag(t *testing.T) {
	server := &apiServer{t: t, editResponses: []string{
		`{"error": {"code": "maxlag", "info": "replication lag"}}`,
		`{"success": 1, "entity": {"id": "Q42", "lastrevid": 1236}}`,
	}}
	client, _ := newTestClient(t, server)

	result, err := client.SubmitEdit(context.Background(), editUpdate(t, client), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1236), result.RevisionID)
	assert.Equal(t, 2, server.editCalls)
}

func TestSubmitEditRefreshesBadToken(t *testing.T) {
	server := &apiServer{t: t, editResponses: []string{
		`{"error": {"code": "badtoken", "info": "Invalid CSRF token"}}`,
		`{"success": 1, "entity": {"id": "Q42", "lastrevid": 1237}}`,
	}}
	client, _ := newTestClient(t, server)

	_, err := client.SubmitEdit(context.Background(), editUpdate(t, client), "")
	require.NoError(t, err)
	assert.Equal(t, 2, server.editCalls)
	assert.Equal(t, 2, server.tokenFetches, "token refetched after badtoken")
	assert.Equal(t, "token-2+\\", server.lastEditForm["token"])
}

func TestSubmitEditPermanentAPIError(t *testing.T) {
	server := &apiServer{t: t, editResponses: []string{
		`{"error": {"code": "failed-save", "info": "The save has failed."}}`,
	}}
	client, _ := newTestClient(t, server)

	_, err := client.SubmitEdit(context.Background(), editUpdate(t, client), "")
	require.Error(t, err)
	assert.Equal(t, 1, server.editCalls, "failed-save is not retried")

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "failed-save", apiErr.Code)
}
