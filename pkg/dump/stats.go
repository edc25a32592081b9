package dump

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/errors"
)

// InstanceOfProperty is the property linking an item to its class on
// Wikidata.
const InstanceOfProperty = "P31"

// PropertyUsage counts where one property appears across a dump.
type PropertyUsage struct {
	InMainSnak   int64
	InQualifiers int64
	InReferences int64
}

// Total sums the usage positions.
func (u PropertyUsage) Total() int64 {
	return u.InMainSnak + u.InQualifiers + u.InReferences
}

// UsageStatistics is a Processor that counts property usage and class
// instance counts across a dump. Not safe for concurrent use; Run feeds
// processors sequentially.
type UsageStatistics struct {
	instanceOf string
	properties map[string]*PropertyUsage
	classes    map[string]int64
	entities   int64
}

// NewUsageStatistics creates an empty statistics processor. The property
// used for class membership defaults to InstanceOfProperty; override it
// for wikis with a different ontology.
func NewUsageStatistics(instanceOf string) *UsageStatistics {
	if instanceOf == "" {
		instanceOf = InstanceOfProperty
	}
	return &UsageStatistics{
		instanceOf: instanceOf,
		properties: make(map[string]*PropertyUsage),
		classes:    make(map[string]int64),
	}
}

// Name implements Processor.
func (s *UsageStatistics) Name() string { return "usage-statistics" }

// ProcessEntity implements Processor.
func (s *UsageStatistics) ProcessEntity(doc *entity.Entity) error {
	s.entities++
	for _, st := range doc.Statements {
		s.usage(st.MainSnak.Property).InMainSnak++
		for _, q := range st.Qualifiers {
			s.usage(q.Property).InQualifiers++
		}
		for _, ref := range st.References {
			for _, snak := range ref.Snaks {
				s.usage(snak.Property).InReferences++
			}
		}

		if st.MainSnak.Property == s.instanceOf {
			if class := entityIDValue(st.MainSnak.DataValue); class != "" {
				s.classes[class]++
			}
		}
	}
	return nil
}

// EntityCount returns how many entities have been processed.
func (s *UsageStatistics) EntityCount() int64 { return s.entities }

// Property returns the usage counts recorded for a property.
func (s *UsageStatistics) Property(id string) PropertyUsage {
	if u, ok := s.properties[id]; ok {
		return *u
	}
	return PropertyUsage{}
}

// ClassInstances returns how many entities are instances of the class.
func (s *UsageStatistics) ClassInstances(id string) int64 {
	return s.classes[id]
}

// WritePropertyReport writes per-property usage as CSV, most used first.
func (s *UsageStatistics) WritePropertyReport(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"property", "main_snak", "qualifier", "reference", "total"}); err != nil {
		return errors.WrapIO("write", "property report", err)
	}

	ids := make([]string, 0, len(s.properties))
	for id := range s.properties {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := s.properties[ids[i]].Total(), s.properties[ids[j]].Total()
		if ti != tj {
			return ti > tj
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		u := s.properties[id]
		record := []string{
			id,
			strconv.FormatInt(u.InMainSnak, 10),
			strconv.FormatInt(u.InQualifiers, 10),
			strconv.FormatInt(u.InReferences, 10),
			strconv.FormatInt(u.Total(), 10),
		}
		if err := cw.Write(record); err != nil {
			return errors.WrapIO("write", "property report", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapIO("write", "property report", err)
	}
	return nil
}

// WriteClassReport writes per-class instance counts as CSV, largest first.
func (s *UsageStatistics) WriteClassReport(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"class", "instances"}); err != nil {
		return errors.WrapIO("write", "class report", err)
	}

	ids := make([]string, 0, len(s.classes))
	for id := range s.classes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if s.classes[ids[i]] != s.classes[ids[j]] {
			return s.classes[ids[i]] > s.classes[ids[j]]
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		if err := cw.Write([]string{id, strconv.FormatInt(s.classes[id], 10)}); err != nil {
			return errors.WrapIO("write", "class report", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapIO("write", "class report", err)
	}
	return nil
}

func (s *UsageStatistics) usage(property string) *PropertyUsage {
	u, ok := s.properties[property]
	if !ok {
		u = &PropertyUsage{}
		s.properties[property] = u
	}
	return u
}

// entityIDValue extracts the referenced entity ID from a wikibase-entityid
// data value, or "" when the snak has no such value.
func entityIDValue(dv *entity.DataValue) string {
	if dv == nil || dv.Type != "wikibase-entityid" {
		return ""
	}
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(dv.Value), &v); err != nil {
		return ""
	}
	return v.ID
}
