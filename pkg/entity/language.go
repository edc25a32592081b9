package entity

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/entitykit/wikibase/pkg/errors"
)

// NormalizeLanguage canonicalizes a language code to the lowercase BCP 47
// form used as the term map key ("EN" -> "en", "zh_hans" -> "zh-hans").
// Unparseable codes are rejected.
func NormalizeLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errors.NewValidationError("language", code, "language code must not be empty")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", errors.NewValidationError("language", code, "unrecognized language code")
	}
	return strings.ToLower(tag.String()), nil
}

// MustLanguage is NormalizeLanguage for static codes known to be valid.
// It panics on invalid input.
func MustLanguage(code string) string {
	normalized, err := NormalizeLanguage(code)
	if err != nil {
		panic(err)
	}
	return normalized
}
