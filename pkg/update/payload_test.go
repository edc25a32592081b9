package update

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entitykit/wikibase/pkg/entity"
)

func TestPayloadOmitsUnchangedFields(t *testing.T) {
	u, err := New(testItem(), WithLabels(entity.NewTerm("de", "Douglas Adams")))
	require.NoError(t, err)

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Contains(t, decoded, "labels")
	assert.NotContains(t, decoded, "descriptions", "absent means unchanged, empty means clear")
	assert.NotContains(t, decoded, "aliases")
	assert.NotContains(t, decoded, "claims")
}

func TestPayloadZeroChanges(t *testing.T) {
	u, err := New(testItem())
	require.NoError(t, err)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestPayloadStatementShapes(t *testing.T) {
	doc := entity.New("Q5", entity.TypeItem)
	doc.Statements = []entity.Statement{
		persistedStatement("Q5$abc", "P31", "human"),
	}

	u, err := New(doc,
		WithStatements(valueStatement("P106", "author")),
		WithStatementRemovals(valueStatement("P31", "human")),
	)
	require.NoError(t, err)

	p := u.Payload()
	require.Len(t, p.Claims, 2)

	added, err := json.Marshal(p.Claims[0])
	require.NoError(t, err)
	assert.Contains(t, string(added), `"property":"P106"`)

	removed, err := json.Marshal(p.Claims[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"Q5$abc","remove":""}`, string(removed))
}

func TestPayloadProjectionMatchesAccessors(t *testing.T) {
	u, err := New(testItem(),
		WithLabels(entity.NewTerm("de", "Douglas Adams")),
		WithAliases(entity.NewTerm("en", "The Author")),
	)
	require.NoError(t, err)

	p := u.Payload()
	if diff := cmp.Diff(u.Labels(), p.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(u.Aliases(), p.Aliases); diff != "" {
		t.Errorf("aliases mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadAliasListIsWholeList(t *testing.T) {
	// A single insertion marks the whole list for replacement, so the
	// payload must carry the untouched values too.
	u, err := New(testItem(), WithAliases(entity.NewTerm("en", "The Author")))
	require.NoError(t, err)

	p := u.Payload()
	require.Contains(t, p.Aliases, "en")
	assert.Equal(t, []entity.Term{
		entity.NewTerm("en", "Douglas Noel Adams"),
		entity.NewTerm("en", "DNA"),
		entity.NewTerm("en", "The Author"),
	}, p.Aliases["en"])
}
