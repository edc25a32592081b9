package entity

// Term is a language-tagged text value: a label, description, or alias.
// The JSON shape matches the Wikibase wire format for monolingual values.
type Term struct {
	Language string `json:"language" yaml:"language"`
	Text     string `json:"value" yaml:"value"`
}

// NewTerm creates a term for the given language code and text.
func NewTerm(language, text string) Term {
	return Term{Language: language, Text: text}
}

// Equal reports whether two terms carry the same language and text.
func (t Term) Equal(other Term) bool {
	return t.Language == other.Language && t.Text == other.Text
}

// IsZero reports whether the term is the zero value.
func (t Term) IsZero() bool {
	return t.Language == "" && t.Text == ""
}

// ContainsTerm reports whether terms contains a term equal to target.
func ContainsTerm(terms []Term, target Term) bool {
	for _, t := range terms {
		if t.Equal(target) {
			return true
		}
	}
	return false
}

// RemoveTerm returns a new slice with every occurrence of target removed.
// Order of the remaining terms is preserved; the input is not modified.
func RemoveTerm(terms []Term, target Term) []Term {
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if !t.Equal(target) {
			out = append(out, t)
		}
	}
	return out
}
