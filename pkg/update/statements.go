package update

import (
	"github.com/entitykit/wikibase/pkg/entity"
)

// MatchMode controls how statement additions and removals are matched
// against the entity's current statements.
type MatchMode string

const (
	// MatchFull matches statements on main snak, rank, qualifiers, and
	// references.
	MatchFull MatchMode = "full"

	// MatchMainValue matches statements on the main snak only, so an
	// addition that differs only in qualifiers or references from an
	// existing statement is treated as already present.
	MatchMainValue MatchMode = "main-value"
)

// matches applies the mode to a pair of statements.
func (m MatchMode) matches(a, b entity.Statement) bool {
	if m == MatchMainValue {
		return a.MatchesMainValue(b)
	}
	return a.Equal(b)
}

// StatementDiff is the statement-level portion of a planned edit: the
// statements to add and the statements to remove, with no-ops already
// filtered out. The zero value is an empty diff.
type StatementDiff struct {
	additions []entity.Statement
	removals  []entity.Statement
}

// newStatementDiff computes the statement diff for an edit plan.
//
// Additions that duplicate a current statement (under mode) or an earlier
// addition in the same plan are dropped. Removals that do not match any
// current statement are dropped; matched removals carry the current
// statement's GUID so the API can address them.
func newStatementDiff(doc *entity.Entity, add, del []entity.Statement, mode MatchMode) StatementDiff {
	var diff StatementDiff

	for _, s := range add {
		if containsStatement(doc.Statements, s, mode) {
			continue
		}
		if containsStatement(diff.additions, s, mode) {
			continue
		}
		diff.additions = append(diff.additions, s)
	}

	for _, s := range del {
		current, ok := findStatement(doc.Statements, s, mode)
		if !ok {
			continue
		}
		if containsStatement(diff.removals, current, MatchFull) {
			continue
		}
		diff.removals = append(diff.removals, current)
	}

	return diff
}

// Additions returns the statements to be added.
func (d StatementDiff) Additions() []entity.Statement {
	return d.additions
}

// Removals returns the current statements to be removed.
func (d StatementDiff) Removals() []entity.Statement {
	return d.removals
}

// IsEmpty reports whether no statement changes are pending.
func (d StatementDiff) IsEmpty() bool {
	return len(d.additions) == 0 && len(d.removals) == 0
}

func containsStatement(statements []entity.Statement, target entity.Statement, mode MatchMode) bool {
	_, ok := findStatement(statements, target, mode)
	return ok
}

func findStatement(statements []entity.Statement, target entity.Statement, mode MatchMode) (entity.Statement, bool) {
	for _, s := range statements {
		if mode.matches(s, target) {
			return s, true
		}
	}
	return entity.Statement{}, false
}
