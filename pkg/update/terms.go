package update

import (
	"slices"

	"github.com/entitykit/wikibase/pkg/entity"
)

// pendingTerm is a term value plus a write flag tracking whether the value
// changed relative to the snapshot and must be sent in the payload.
type pendingTerm struct {
	value entity.Term
	write bool
}

// pendingAliases is the planned state of one language's alias list. The
// remote API replaces a language's alias list atomically, so any change
// marks the whole list for writing.
type pendingAliases struct {
	values []entity.Term
	write  bool
}

// initTermsFromDocument builds the pending-term maps from the current
// document, everything marked clean. Alias slices are copied so merge
// passes never touch the caller's document.
func (u *Update) initTermsFromDocument() {
	u.labels = make(map[string]*pendingTerm, len(u.doc.Labels))
	for lang, term := range u.doc.Labels {
		u.labels[lang] = &pendingTerm{value: term}
	}

	u.descriptions = make(map[string]*pendingTerm, len(u.doc.Descriptions))
	for lang, term := range u.doc.Descriptions {
		u.descriptions[lang] = &pendingTerm{value: term}
	}

	u.aliases = make(map[string]*pendingAliases, len(u.doc.Aliases))
	for lang, list := range u.doc.Aliases {
		u.aliases[lang] = &pendingAliases{values: slices.Clone(list)}
	}
}

// processLabels applies requested labels. A label is only marked for
// writing when it differs from the pending value, and any alias equal to
// the new label is dropped from that language's alias list: a text never
// appears as both label and alias.
func (u *Update) processLabels(labels []entity.Term) {
	for _, label := range labels {
		lang := label.Language
		current, ok := u.labels[lang]
		if ok && current.value.Equal(label) {
			continue
		}
		u.labels[lang] = &pendingTerm{value: label, write: true}

		if list, ok := u.aliases[lang]; ok && entity.ContainsTerm(list.values, label) {
			u.deleteAlias(label)
		}
	}
}

// processDescriptions applies requested descriptions. Same rule as labels
// but with no alias interaction.
func (u *Update) processDescriptions(descriptions []entity.Term) {
	for _, description := range descriptions {
		lang := description.Language
		current, ok := u.descriptions[lang]
		if ok && current.value.Equal(description) {
			continue
		}
		u.descriptions[lang] = &pendingTerm{value: description, write: true}
	}
}

// processAliases applies alias changes, additions first, so that a removal
// always wins over an addition of the same value within one plan.
func (u *Update) processAliases(add, del []entity.Term) {
	for _, alias := range add {
		u.addAlias(alias)
	}
	for _, alias := range del {
		u.deleteAlias(alias)
	}
}

// addAlias merges one alias into the planned state. A language with no
// label adopts its first alias as the label instead; an alias equal to the
// label is skipped; otherwise the alias is inserted with value dedup and
// the list is marked for writing only on genuine insertion.
func (u *Update) addAlias(alias entity.Term) {
	lang := alias.Language

	label, ok := u.labels[lang]
	if !ok {
		u.labels[lang] = &pendingTerm{value: alias, write: true}
		return
	}
	if label.value.Equal(alias) {
		return
	}

	list, ok := u.aliases[lang]
	if !ok {
		list = &pendingAliases{}
		u.aliases[lang] = list
	}
	if !entity.ContainsTerm(list.values, alias) {
		list.values = append(list.values, alias)
		list.write = true
	}
}

// deleteAlias removes one alias from the planned state. The list is marked
// for writing even when the value was not present; see DESIGN.md for why
// this asymmetry with addAlias is kept.
func (u *Update) deleteAlias(alias entity.Term) {
	list, ok := u.aliases[alias.Language]
	if !ok {
		return
	}
	list.values = entity.RemoveTerm(list.values, alias)
	list.write = true
}
