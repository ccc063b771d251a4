package validation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cursolab/ead-backend/internal/apperr"
)

const maxSlugLen = 100

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSlug canonicalizes a human-supplied identifier: trims, strips
// diacritics, lower-cases, and rejects anything outside [a-z0-9-]. An input
// that is empty after trimming is an error, never a silent default.
func NormalizeSlug(raw string) (string, *apperr.FieldIssue) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &apperr.FieldIssue{
			Code:    "empty-slug",
			Message: "slug must not be empty",
			Path:    []string{"slug"},
		}
	}

	flattened, _, err := transform.String(deaccent, trimmed)
	if err != nil {
		flattened = trimmed
	}
	slug := strings.ToLower(flattened)

	if len(slug) > maxSlugLen {
		return "", &apperr.FieldIssue{
			Code:    "slug-too-long",
			Message: "slug must be at most 100 characters long",
			Path:    []string{"slug"},
		}
	}
	for _, r := range slug {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			continue
		}
		return "", &apperr.FieldIssue{
			Code:    "invalid-slug",
			Message: "slug may only contain lowercase letters, digits and hyphens",
			Path:    []string{"slug"},
		}
	}
	return slug, nil
}
