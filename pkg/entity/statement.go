package entity

// SnakType describes the kind of value a snak carries.
type SnakType string

const (
	// SnakValue is a snak with a concrete data value.
	SnakValue SnakType = "value"
	// SnakNoValue asserts that the property has no value.
	SnakNoValue SnakType = "novalue"
	// SnakSomeValue asserts an unknown value.
	SnakSomeValue SnakType = "somevalue"
)

// Rank is the rank of a statement.
type Rank string

const (
	// RankPreferred marks the best statement for a property.
	RankPreferred Rank = "preferred"
	// RankNormal is the default rank.
	RankNormal Rank = "normal"
	// RankDeprecated marks a statement known to be wrong or outdated.
	RankDeprecated Rank = "deprecated"
)

// DataValue is the value payload of a snak. Value holds the canonical
// string encoding of the value for the given type; the toolkit treats it
// as opaque and compares it byte-for-byte.
type DataValue struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Snak is a property/value assertion, the building block of statements,
// qualifiers, and references.
type Snak struct {
	Property  string     `json:"property" yaml:"property"`
	SnakType  SnakType   `json:"snaktype" yaml:"snaktype"`
	DataValue *DataValue `json:"datavalue,omitempty" yaml:"datavalue,omitempty"`
}

// Equal reports whether two snaks are identical.
func (s Snak) Equal(other Snak) bool {
	if s.Property != other.Property || s.SnakType != other.SnakType {
		return false
	}
	if (s.DataValue == nil) != (other.DataValue == nil) {
		return false
	}
	if s.DataValue == nil {
		return true
	}
	return *s.DataValue == *other.DataValue
}

// Reference is a source for a statement, a group of snaks.
type Reference struct {
	Snaks []Snak `json:"snaks" yaml:"snaks"`
}

// Equal reports whether two references carry the same snaks in the same order.
func (r Reference) Equal(other Reference) bool {
	return snaksEqual(r.Snaks, other.Snaks)
}

// Statement is a claim about an entity: a main snak optionally decorated
// with qualifiers and references. ID is the statement GUID assigned by the
// remote API; locally planned statements have an empty ID.
type Statement struct {
	ID         string      `json:"id,omitempty" yaml:"id,omitempty"`
	MainSnak   Snak        `json:"mainsnak" yaml:"mainsnak"`
	Rank       Rank        `json:"rank,omitempty" yaml:"rank,omitempty"`
	Qualifiers []Snak      `json:"qualifiers,omitempty" yaml:"qualifiers,omitempty"`
	References []Reference `json:"references,omitempty" yaml:"references,omitempty"`
}

// Property returns the property ID of the statement's main snak.
func (s Statement) Property() string {
	return s.MainSnak.Property
}

// Equal reports full statement equality: main snak, rank, qualifiers, and
// references all match. Statement GUIDs are ignored so that a locally
// planned statement compares equal to its persisted counterpart.
func (s Statement) Equal(other Statement) bool {
	if !s.MainSnak.Equal(other.MainSnak) {
		return false
	}
	if s.rank() != other.rank() {
		return false
	}
	if !snaksEqual(s.Qualifiers, other.Qualifiers) {
		return false
	}
	if len(s.References) != len(other.References) {
		return false
	}
	for i := range s.References {
		if !s.References[i].Equal(other.References[i]) {
			return false
		}
	}
	return true
}

// MatchesMainValue reports whether two statements share the same main snak,
// ignoring rank, qualifiers, and references.
func (s Statement) MatchesMainValue(other Statement) bool {
	return s.MainSnak.Equal(other.MainSnak)
}

// rank treats the empty rank as normal.
func (s Statement) rank() Rank {
	if s.Rank == "" {
		return RankNormal
	}
	return s.Rank
}

func snaksEqual(a, b []Snak) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
