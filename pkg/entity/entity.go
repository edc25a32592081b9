// Package entity defines the document model for knowledge-base entities:
// items and properties holding statements and per-language terms (labels,
// descriptions, aliases). The JSON shape follows the Wikibase wire format.
package entity

import (
	"strings"

	"github.com/entitykit/wikibase/pkg/errors"
)

// Type distinguishes items from properties.
type Type string

const (
	// TypeItem is a regular entity (Q-prefixed ID).
	TypeItem Type = "item"
	// TypeProperty is a property definition (P-prefixed ID).
	TypeProperty Type = "property"
)

// Entity is an immutable snapshot of one entity's terms and statements at
// the moment it was fetched. Consumers of this package, in particular the
// update engine, only read it.
type Entity struct {
	ID           string            `json:"id" yaml:"id"`
	Type         Type              `json:"type" yaml:"type"`
	Labels       map[string]Term   `json:"labels,omitempty" yaml:"labels,omitempty"`
	Descriptions map[string]Term   `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	Aliases      map[string][]Term `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Statements   []Statement       `json:"statements,omitempty" yaml:"statements,omitempty"`

	// LastRevisionID is the revision the snapshot was taken from, passed
	// back to the API on edit for conflict detection.
	LastRevisionID int64 `json:"lastrevid,omitempty" yaml:"lastrevid,omitempty"`
}

// New creates an empty entity of the given type.
func New(id string, typ Type) *Entity {
	return &Entity{
		ID:           id,
		Type:         typ,
		Labels:       make(map[string]Term),
		Descriptions: make(map[string]Term),
		Aliases:      make(map[string][]Term),
	}
}

// Label returns the label for a language, if present.
func (e *Entity) Label(language string) (Term, bool) {
	t, ok := e.Labels[language]
	return t, ok
}

// Description returns the description for a language, if present.
func (e *Entity) Description(language string) (Term, bool) {
	t, ok := e.Descriptions[language]
	return t, ok
}

// AliasList returns the alias list for a language. The returned slice is
// the entity's own storage; callers that mutate it must copy first.
func (e *Entity) AliasList(language string) []Term {
	return e.Aliases[language]
}

// StatementsFor returns all statements whose main snak uses the given
// property, in document order.
func (e *Entity) StatementsFor(property string) []Statement {
	var out []Statement
	for _, s := range e.Statements {
		if s.Property() == property {
			out = append(out, s)
		}
	}
	return out
}

// IsItem reports whether the entity is an item.
func (e *Entity) IsItem() bool { return e.Type == TypeItem }

// IsProperty reports whether the entity is a property.
func (e *Entity) IsProperty() bool { return e.Type == TypeProperty }

// ValidateID checks that an entity ID has the expected Q/P shape.
func ValidateID(id string) error {
	if len(id) < 2 {
		return errors.NewValidationError("id", id, "entity ID too short")
	}
	prefix := id[0]
	if prefix != 'Q' && prefix != 'P' && prefix != 'q' && prefix != 'p' {
		return errors.NewValidationError("id", id, "entity ID must start with Q or P")
	}
	digits := id[1:]
	if strings.Trim(digits, "0123456789") != "" {
		return errors.NewValidationError("id", id, "entity ID must be a Q/P prefix followed by digits")
	}
	return nil
}

// TypeForID derives the entity type from an ID prefix.
func TypeForID(id string) (Type, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	if id[0] == 'P' || id[0] == 'p' {
		return TypeProperty, nil
	}
	return TypeItem, nil
}
