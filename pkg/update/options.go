package update

import (
	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/errors"
)

// options holds the requested changes for one edit plan.
type options struct {
	addStatements    []entity.Statement
	deleteStatements []entity.Statement
	labels           []entity.Term
	descriptions     []entity.Term
	addAliases       []entity.Term
	deleteAliases    []entity.Term
	match            MatchMode
}

func defaultOptions() *options {
	return &options{
		match: MatchFull,
	}
}

// Option configures an edit plan.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns edit plan options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStatements adds statements to the planned edit. A statement already
// present on the entity (under the configured match mode) is ignored.
func WithStatements(statements ...entity.Statement) Option {
	return func(o *options) error {
		o.addStatements = append(o.addStatements, statements...)
		return nil
	}
}

// WithStatementRemovals removes statements from the entity. Removing a
// statement that is not present is ignored.
func WithStatementRemovals(statements ...entity.Statement) Option {
	return func(o *options) error {
		o.deleteStatements = append(o.deleteStatements, statements...)
		return nil
	}
}

// WithLabels sets labels on the entity. Existing labels for the same
// language are overwritten; setting a label to its current value is a no-op.
func WithLabels(labels ...entity.Term) Option {
	return func(o *options) error {
		o.labels = append(o.labels, labels...)
		return nil
	}
}

// WithDescriptions sets descriptions on the entity. Existing descriptions
// for the same language are overwritten; setting a description to its
// current value is a no-op.
func WithDescriptions(descriptions ...entity.Term) Option {
	return func(o *options) error {
		o.descriptions = append(o.descriptions, descriptions...)
		return nil
	}
}

// WithAliases adds aliases to the entity. The first alias added on a
// language that has no label becomes the label instead. Duplicate aliases
// and aliases equal to the label are ignored.
func WithAliases(aliases ...entity.Term) Option {
	return func(o *options) error {
		o.addAliases = append(o.addAliases, aliases...)
		return nil
	}
}

// WithAliasRemovals removes aliases from the entity. Removals are processed
// after additions, so a removal wins over an addition of the same value
// within one plan.
func WithAliasRemovals(aliases ...entity.Term) Option {
	return func(o *options) error {
		o.deleteAliases = append(o.deleteAliases, aliases...)
		return nil
	}
}

// WithMatchMode sets how statement additions and removals are matched
// against the entity's current statements.
func WithMatchMode(mode MatchMode) Option {
	return func(o *options) error {
		switch mode {
		case MatchFull, MatchMainValue:
			o.match = mode
			return nil
		default:
			return &errors.ValidationError{
				Field:   "match",
				Value:   mode,
				Message: "unknown statement match mode",
			}
		}
	}
}
