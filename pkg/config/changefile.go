// Package config loads the toolkit's YAML files: change files describing
// an edit to one entity, and client settings with environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/errors"
	"github.com/entitykit/wikibase/pkg/update"
)

// ChangeFile describes an edit to one entity. Term maps are keyed by
// language code; statement values are given as the data value's JSON, or
// as a plain string for string-typed values.
type ChangeFile struct {
	Entity  string `yaml:"entity"`
	Summary string `yaml:"summary"`
	Match   string `yaml:"match"`

	Labels       map[string]string `yaml:"labels"`
	Descriptions map[string]string `yaml:"descriptions"`

	Aliases struct {
		Add    map[string][]string `yaml:"add"`
		Remove map[string][]string `yaml:"remove"`
	} `yaml:"aliases"`

	Statements struct {
		Add    []StatementSpec `yaml:"add"`
		Remove []StatementSpec `yaml:"remove"`
	} `yaml:"statements"`
}

// StatementSpec describes one statement in a change file.
type StatementSpec struct {
	Property string `yaml:"property"`
	SnakType string `yaml:"snaktype"`
	Type     string `yaml:"type"`
	Value    string `yaml:"value"`
	Rank     string `yaml:"rank"`
}

// LoadChangeFile reads and validates a change file.
func LoadChangeFile(path string) (*ChangeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParseChangeFile(data)
}

// ParseChangeFile parses and validates change file YAML.
func ParseChangeFile(data []byte) (*ChangeFile, error) {
	var cf ChangeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, errors.WrapParse("yaml", "change file", err)
	}
	if err := entity.ValidateID(cf.Entity); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Options compiles the change file into edit plan options.
func (cf *ChangeFile) Options() ([]update.Option, error) {
	var opts []update.Option

	if cf.Match != "" {
		opts = append(opts, update.WithMatchMode(update.MatchMode(cf.Match)))
	}
	if len(cf.Labels) > 0 {
		labels, err := termList(cf.Labels)
		if err != nil {
			return nil, err
		}
		opts = append(opts, update.WithLabels(labels...))
	}
	if len(cf.Descriptions) > 0 {
		descriptions, err := termList(cf.Descriptions)
		if err != nil {
			return nil, err
		}
		opts = append(opts, update.WithDescriptions(descriptions...))
	}
	if len(cf.Aliases.Add) > 0 {
		aliases, err := aliasList(cf.Aliases.Add)
		if err != nil {
			return nil, err
		}
		opts = append(opts, update.WithAliases(aliases...))
	}
	if len(cf.Aliases.Remove) > 0 {
		removals, err := aliasList(cf.Aliases.Remove)
		if err != nil {
			return nil, err
		}
		opts = append(opts, update.WithAliasRemovals(removals...))
	}

	add, err := statementList(cf.Statements.Add)
	if err != nil {
		return nil, err
	}
	if len(add) > 0 {
		opts = append(opts, update.WithStatements(add...))
	}

	remove, err := statementList(cf.Statements.Remove)
	if err != nil {
		return nil, err
	}
	if len(remove) > 0 {
		opts = append(opts, update.WithStatementRemovals(remove...))
	}

	return opts, nil
}

// termList builds terms from a language-keyed map, normalizing the
// language codes ("EN" and "zh_hans" are accepted, stored canonically).
func termList(byLanguage map[string]string) ([]entity.Term, error) {
	terms := make([]entity.Term, 0, len(byLanguage))
	for lang, text := range byLanguage {
		normalized, err := entity.NormalizeLanguage(lang)
		if err != nil {
			return nil, err
		}
		terms = append(terms, entity.NewTerm(normalized, text))
	}
	return terms, nil
}

func aliasList(byLanguage map[string][]string) ([]entity.Term, error) {
	var terms []entity.Term
	for lang, texts := range byLanguage {
		normalized, err := entity.NormalizeLanguage(lang)
		if err != nil {
			return nil, err
		}
		for _, text := range texts {
			terms = append(terms, entity.NewTerm(normalized, text))
		}
	}
	return terms, nil
}

func statementList(specs []StatementSpec) ([]entity.Statement, error) {
	statements := make([]entity.Statement, 0, len(specs))
	for _, spec := range specs {
		st, err := spec.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}
	return statements, nil
}

func (spec StatementSpec) statement() (entity.Statement, error) {
	if spec.Property == "" {
		return entity.Statement{}, &errors.ValidationError{
			Field:   "property",
			Message: "statement needs a property",
		}
	}

	snakType := entity.SnakType(spec.SnakType)
	if spec.SnakType == "" {
		snakType = entity.SnakValue
	}

	snak := entity.Snak{
		Property: spec.Property,
		SnakType: snakType,
	}
	if snakType == entity.SnakValue {
		dv, err := spec.dataValue()
		if err != nil {
			return entity.Statement{}, err
		}
		snak.DataValue = dv
	}

	return entity.Statement{
		MainSnak: snak,
		Rank:     entity.Rank(spec.Rank),
	}, nil
}

// dataValue turns the written value into a canonical data value. String
// values are written bare; any other type takes the value's JSON.
func (spec StatementSpec) dataValue() (*entity.DataValue, error) {
	valueType := spec.Type
	if valueType == "" {
		valueType = "string"
	}

	if valueType == "string" {
		encoded, err := json.Marshal(spec.Value)
		if err != nil {
			return nil, errors.WrapParse("json", "statement value", err)
		}
		return &entity.DataValue{Type: valueType, Value: string(encoded)}, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(spec.Value)); err != nil {
		return nil, &errors.ValidationError{
			Field:   "value",
			Value:   spec.Value,
			Message: "must be the data value's JSON",
		}
	}
	return &entity.DataValue{Type: valueType, Value: buf.String()}, nil
}
