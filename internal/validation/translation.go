package validation

import (
	"fmt"
	"strconv"

	"github.com/cursolab/ead-backend/internal/apperr"
)

// Translation is the localized tuple every content node carries.
type Translation struct {
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LocaleSet fixes the master locale and the accepted alternates for one
// deployment.
type LocaleSet struct {
	Master    string
	Supported []string
}

func (ls LocaleSet) Allows(locale string) bool {
	for _, l := range ls.Supported {
		if l == locale {
			return true
		}
	}
	return locale == ls.Master
}

const (
	minTitleLen       = 3
	minDescriptionLen = 5
)

// ValidateTranslations checks a translation list against the master-locale
// and uniqueness rules. Pure and deterministic: the same input always yields
// the same issue set, and every violation is reported, not just the first.
func ValidateTranslations(ls LocaleSet, ts []Translation) []apperr.FieldIssue {
	var issues []apperr.FieldIssue

	if len(ts) == 0 {
		issues = append(issues, apperr.FieldIssue{
			Code:    "missing-master-translation",
			Message: fmt.Sprintf("at least a %q translation is required", ls.Master),
			Path:    []string{"translations"},
		})
		return issues
	}

	masterCount := 0
	seen := map[string]bool{}
	for i, t := range ts {
		idx := strconv.Itoa(i)
		if !ls.Allows(t.Locale) {
			issues = append(issues, apperr.FieldIssue{
				Code:    "invalid-locale",
				Message: fmt.Sprintf("locale %q is not supported", t.Locale),
				Path:    []string{"translations", idx, "locale"},
			})
		}
		if t.Locale == ls.Master {
			masterCount++
		}
		if seen[t.Locale] {
			issues = append(issues, apperr.FieldIssue{
				Code:    "duplicate-locale",
				Message: fmt.Sprintf("locale %q appears more than once", t.Locale),
				Path:    []string{"translations", idx, "locale"},
			})
		}
		seen[t.Locale] = true

		if len([]rune(t.Title)) < minTitleLen {
			issues = append(issues, apperr.FieldIssue{
				Code:    "too-small",
				Message: fmt.Sprintf("title must be at least %d characters long", minTitleLen),
				Path:    []string{"translations", idx, "title"},
			})
		}
		if len([]rune(t.Description)) < minDescriptionLen {
			issues = append(issues, apperr.FieldIssue{
				Code:    "too-small",
				Message: fmt.Sprintf("description must be at least %d characters long", minDescriptionLen),
				Path:    []string{"translations", idx, "description"},
			})
		}
	}

	if masterCount == 0 {
		issues = append(issues, apperr.FieldIssue{
			Code:    "missing-master-translation",
			Message: fmt.Sprintf("at least a %q translation is required", ls.Master),
			Path:    []string{"translations"},
		})
	}

	return issues
}
