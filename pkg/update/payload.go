package update

import (
	"encoding/json"

	"github.com/entitykit/wikibase/pkg/entity"
)

// Payload is the edit request body sent to the remote API. Every field is
// omitted entirely when it carries no change: the API treats an absent
// field as "unchanged" and an empty structure as "clear all values", so
// the two must never be conflated.
type Payload struct {
	Labels       map[string]entity.Term   `json:"labels,omitempty"`
	Descriptions map[string]entity.Term   `json:"descriptions,omitempty"`
	Aliases      map[string][]entity.Term `json:"aliases,omitempty"`
	Claims       []StatementChange        `json:"claims,omitempty"`
}

// StatementChange is one entry of the payload's claims list: either a
// statement to add or a removal addressed by GUID.
type StatementChange struct {
	Statement *entity.Statement
	RemoveID  string
}

// MarshalJSON renders an addition as the full statement object and a
// removal as the {"id": ..., "remove": ""} form the API expects.
func (c StatementChange) MarshalJSON() ([]byte, error) {
	if c.RemoveID != "" {
		return json.Marshal(struct {
			ID     string `json:"id"`
			Remove string `json:"remove"`
		}{ID: c.RemoveID, Remove: ""})
	}
	return json.Marshal(c.Statement)
}

// IsRemoval reports whether the change deletes a statement.
func (c StatementChange) IsRemoval() bool {
	return c.RemoveID != ""
}

// Payload projects the planned edit down to its changed parts. It is
// recomputed on every call so it always reflects the final merge state.
func (u *Update) Payload() Payload {
	var p Payload

	if labels := u.Labels(); len(labels) > 0 {
		p.Labels = labels
	}
	if descriptions := u.Descriptions(); len(descriptions) > 0 {
		p.Descriptions = descriptions
	}
	if aliases := u.Aliases(); len(aliases) > 0 {
		p.Aliases = aliases
	}

	for _, s := range u.statements.Additions() {
		added := s
		p.Claims = append(p.Claims, StatementChange{Statement: &added})
	}
	for _, s := range u.statements.Removals() {
		p.Claims = append(p.Claims, StatementChange{RemoveID: s.ID})
	}

	return p
}

// MarshalJSON renders the projected payload.
func (u *Update) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Payload())
}

// IsEmpty reports whether the payload carries no changes.
func (p Payload) IsEmpty() bool {
	return len(p.Labels) == 0 && len(p.Descriptions) == 0 &&
		len(p.Aliases) == 0 && len(p.Claims) == 0
}
