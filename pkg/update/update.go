// Package update plans entity edits. Given the last-known state of an
// entity and a set of requested additions and removals, it computes the
// minimal, non-redundant edit to submit: no-op changes are absorbed,
// duplicate aliases are dropped, and an alias added to a language with no
// label is promoted to the label.
//
// An Update is built in a single pass and read-only afterwards. It is a
// pure in-memory computation with no I/O; submitting the resulting payload
// is the API client's job.
//
//	u, err := update.New(doc,
//	    update.WithLabels(entity.NewTerm("en", "Douglas Adams")),
//	    update.WithAliases(entity.NewTerm("en", "DNA")),
//	)
//	if err != nil {
//	    return err
//	}
//	if u.IsEmpty() {
//	    return nil // nothing to submit
//	}
//	payload := u.Payload()
package update

import (
	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/errors"
)

// Update is a planned edit for one entity: the statement diff plus the
// pending state of every term. Only values that changed relative to the
// snapshot are marked for writing and rendered into the payload.
//
// An Update must not be shared across goroutines while being built;
// once New returns it is immutable and safe to read concurrently.
type Update struct {
	doc        *entity.Entity
	statements StatementDiff

	labels       map[string]*pendingTerm
	descriptions map[string]*pendingTerm
	aliases      map[string]*pendingAliases
}

// New plans an edit on the statements and terms of a document.
//
// Statement changes are reconciled first, then the term snapshot is built
// from the document, then requested term changes are merged in fixed order:
// labels, descriptions, aliases. Alias handling depends on the final label
// state, which is why it runs last.
func New(doc *entity.Entity, opts ...Option) (*Update, error) {
	if doc == nil {
		return nil, &errors.ValidationError{
			Field:   "document",
			Message: "current entity document is required",
		}
	}

	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	u := &Update{doc: doc}
	u.statements = newStatementDiff(doc, o.addStatements, o.deleteStatements, o.match)
	u.initTermsFromDocument()
	u.processLabels(o.labels)
	u.processDescriptions(o.descriptions)
	u.processAliases(o.addAliases, o.deleteAliases)

	return u, nil
}

// EntityID returns the ID of the entity this update targets.
func (u *Update) EntityID() string {
	return u.doc.ID
}

// BaseRevisionID returns the document revision the plan was computed
// against, for optimistic-conflict detection at submit time.
func (u *Update) BaseRevisionID() int64 {
	return u.doc.LastRevisionID
}

// Statements returns the statement-level portion of the edit.
func (u *Update) Statements() StatementDiff {
	return u.statements
}

// Labels returns the labels marked for writing, keyed by language.
func (u *Update) Labels() map[string]entity.Term {
	return dirtyTerms(u.labels)
}

// Descriptions returns the descriptions marked for writing, keyed by
// language.
func (u *Update) Descriptions() map[string]entity.Term {
	return dirtyTerms(u.descriptions)
}

// Aliases returns the full alias lists marked for writing, keyed by
// language. A returned list replaces that language's aliases wholesale.
func (u *Update) Aliases() map[string][]entity.Term {
	out := make(map[string][]entity.Term)
	for lang, list := range u.aliases {
		if !list.write {
			continue
		}
		values := make([]entity.Term, len(list.values))
		copy(values, list.values)
		out[lang] = values
	}
	return out
}

// IsEmpty reports whether the planned edit changes nothing: the statement
// diff is empty and no label, description, or alias list is marked for
// writing. Callers use this to skip submitting no-op edits.
func (u *Update) IsEmpty() bool {
	if !u.statements.IsEmpty() {
		return false
	}
	for _, t := range u.labels {
		if t.write {
			return false
		}
	}
	for _, t := range u.descriptions {
		if t.write {
			return false
		}
	}
	for _, list := range u.aliases {
		if list.write {
			return false
		}
	}
	return true
}

func dirtyTerms(pending map[string]*pendingTerm) map[string]entity.Term {
	out := make(map[string]entity.Term)
	for lang, t := range pending {
		if t.write {
			out[lang] = t.value
		}
	}
	return out
}
