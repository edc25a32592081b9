package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entitykit/wikibase/pkg/entity"
)

func valueStatement(property, value string) entity.Statement {
	return entity.Statement{
		MainSnak: entity.Snak{
			Property: property,
			SnakType: entity.SnakValue,
			DataValue: &entity.DataValue{
				Type:  "string",
				Value: value,
			},
		},
	}
}

func persistedStatement(guid, property, value string) entity.Statement {
	s := valueStatement(property, value)
	s.ID = guid
	return s
}

func TestStatementAddition(t *testing.T) {
	doc := entity.New("Q5", entity.TypeItem)
	doc.Statements = []entity.Statement{
		persistedStatement("Q5$1", "P31", "human"),
	}

	tests := []struct {
		name    string
		add     []entity.Statement
		wantLen int
	}{
		{
			name:    "new statement",
			add:     []entity.Statement{valueStatement("P106", "author")},
			wantLen: 1,
		},
		{
			name:    "identical statement is a no-op",
			add:     []entity.Statement{valueStatement("P31", "human")},
			wantLen: 0,
		},
		{
			name: "duplicate within one plan collapses",
			add: []entity.Statement{
				valueStatement("P106", "author"),
				valueStatement("P106", "author"),
			},
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := New(doc, WithStatements(tt.add...))
			require.NoError(t, err)
			assert.Len(t, u.Statements().Additions(), tt.wantLen)
			assert.Equal(t, tt.wantLen == 0, u.IsEmpty())
		})
	}
}

func TestStatementRemoval(t *testing.T) {
	doc := entity.New("Q5", entity.TypeItem)
	doc.Statements = []entity.Statement{
		persistedStatement("Q5$1", "P31", "human"),
	}

	t.Run("removal of present statement carries its GUID", func(t *testing.T) {
		u, err := New(doc, WithStatementRemovals(valueStatement("P31", "human")))
		require.NoError(t, err)

		removals := u.Statements().Removals()
		require.Len(t, removals, 1)
		assert.Equal(t, "Q5$1", removals[0].ID)
	})

	t.Run("removal of absent statement is a no-op", func(t *testing.T) {
		u, err := New(doc, WithStatementRemovals(valueStatement("P31", "robot")))
		require.NoError(t, err)
		assert.True(t, u.IsEmpty())
	})

	t.Run("same removal twice collapses", func(t *testing.T) {
		u, err := New(doc, WithStatementRemovals(
			valueStatement("P31", "human"),
			valueStatement("P31", "human"),
		))
		require.NoError(t, err)
		assert.Len(t, u.Statements().Removals(), 1)
	})
}

func TestStatementMatchModes(t *testing.T) {
	qualified := persistedStatement("Q5$1", "P31", "human")
	qualified.Qualifiers = []entity.Snak{{
		Property: "P580",
		SnakType: entity.SnakValue,
		DataValue: &entity.DataValue{
			Type:  "time",
			Value: "1952-03-11",
		},
	}}

	doc := entity.New("Q5", entity.TypeItem)
	doc.Statements = []entity.Statement{qualified}

	bare := valueStatement("P31", "human")

	t.Run("full match treats qualifier difference as new", func(t *testing.T) {
		u, err := New(doc, WithStatements(bare))
		require.NoError(t, err)
		assert.Len(t, u.Statements().Additions(), 1)
	})

	t.Run("main-value match treats it as already present", func(t *testing.T) {
		u, err := New(doc, WithStatements(bare), WithMatchMode(MatchMainValue))
		require.NoError(t, err)
		assert.True(t, u.IsEmpty())
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		_, err := New(doc, WithMatchMode(MatchMode("fuzzy")))
		assert.Error(t, err)
	})
}
