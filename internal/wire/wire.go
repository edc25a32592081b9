// Package wire holds the JSON shapes the action API and entity dumps use
// for entity documents, and their conversion into the document model. The
// API nests snaks under their property and keeps a separate *-order key;
// the document model flattens them, so conversion happens here and nowhere
// else.
package wire

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/entitykit/wikibase/pkg/entity"
)

// Term is a wire-format label, description, or alias.
type Term struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// DataValue keeps the value untyped; the document model stores it as a
// canonical compact JSON string.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Snak is a wire-format property/value pair.
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// Reference groups snaks under their property with an explicit order key.
type Reference struct {
	Snaks      map[string][]Snak `json:"snaks"`
	SnaksOrder []string          `json:"snaks-order"`
}

// Statement is a wire-format claim.
type Statement struct {
	ID              string            `json:"id"`
	Rank            string            `json:"rank"`
	MainSnak        Snak              `json:"mainsnak"`
	Qualifiers      map[string][]Snak `json:"qualifiers"`
	QualifiersOrder []string          `json:"qualifiers-order"`
	References      []Reference       `json:"references"`
}

// Entity is a wire-format entity document as returned by wbgetentities
// and as serialized in JSON dumps.
type Entity struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	Missing      json.RawMessage        `json:"missing"`
	Labels       map[string]Term        `json:"labels"`
	Descriptions map[string]Term        `json:"descriptions"`
	Aliases      map[string][]Term      `json:"aliases"`
	Claims       map[string][]Statement `json:"claims"`
	LastRevID    int64                  `json:"lastrevid"`
}

// ToEntity converts a wire entity into the document model.
func (w Entity) ToEntity() *entity.Entity {
	doc := entity.New(w.ID, entity.Type(w.Type))
	doc.LastRevisionID = w.LastRevID

	for lang, t := range w.Labels {
		doc.Labels[lang] = entity.NewTerm(t.Language, t.Value)
	}
	for lang, t := range w.Descriptions {
		doc.Descriptions[lang] = entity.NewTerm(t.Language, t.Value)
	}
	for lang, list := range w.Aliases {
		terms := make([]entity.Term, 0, len(list))
		for _, t := range list {
			terms = append(terms, entity.NewTerm(t.Language, t.Value))
		}
		doc.Aliases[lang] = terms
	}

	for _, property := range sortedKeys(w.Claims) {
		for _, ws := range w.Claims[property] {
			doc.Statements = append(doc.Statements, ws.ToStatement())
		}
	}

	return doc
}

// ToStatement converts a wire claim into the document model.
func (w Statement) ToStatement() entity.Statement {
	s := entity.Statement{
		ID:       w.ID,
		Rank:     entity.Rank(w.Rank),
		MainSnak: w.MainSnak.ToSnak(),
	}
	s.Qualifiers = flattenSnaks(w.Qualifiers, w.QualifiersOrder)
	for _, ref := range w.References {
		s.References = append(s.References, entity.Reference{
			Snaks: flattenSnaks(ref.Snaks, ref.SnaksOrder),
		})
	}
	return s
}

// ToSnak converts a wire snak into the document model.
func (w Snak) ToSnak() entity.Snak {
	s := entity.Snak{
		Property: w.Property,
		SnakType: entity.SnakType(w.SnakType),
	}
	if w.DataValue != nil {
		s.DataValue = &entity.DataValue{
			Type:  w.DataValue.Type,
			Value: compactJSON(w.DataValue.Value),
		}
	}
	return s
}

// flattenSnaks lays the property-grouped snaks out flat, following the
// explicit order key when present.
func flattenSnaks(grouped map[string][]Snak, order []string) []entity.Snak {
	if len(grouped) == 0 {
		return nil
	}
	if len(order) == 0 {
		order = sortedKeys(grouped)
	}
	var out []entity.Snak
	for _, property := range order {
		for _, ws := range grouped[property] {
			out = append(out, ws.ToSnak())
		}
	}
	return out
}

// compactJSON canonicalizes a raw JSON value so that byte comparison of
// data values is stable regardless of source formatting.
func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
