// Package services holds the mutation orchestrators: per-entity use-cases
// that sequence validation, duplicate checks, dependency or change analysis,
// and the gateway commit. All failures are returned as apperr values; a raw
// gorm error never crosses the handler boundary.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

// mapFindErr splits lookup outcomes: absence is NotFound, anything else is
// a repository failure. The two are never collapsed.
func mapFindErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return apperr.Repository(err)
}

// deleteGuard is the shared removal sequence: confirm the entity exists,
// analyze what still references it, refuse with the full report when
// anything blocks, then commit. A delete that loses the race after the
// existence check surfaces as a repository error.
func deleteGuard(
	ctx context.Context,
	entity string,
	exists func(context.Context) error,
	analyze func(context.Context) (*types.DependencyReport, error),
	remove func(context.Context) error,
) error {
	if err := exists(ctx); err != nil {
		return err
	}
	report, err := analyze(ctx)
	if err != nil {
		return apperr.Repository(err)
	}
	if !report.CanDelete {
		return apperr.HasDependencies(entity, report)
	}
	if err := remove(ctx); err != nil {
		return apperr.Repository(err)
	}
	return nil
}

// translationsDiffer implements the update change policy for translation
// lists: a different count is a change, and so is any proposed locale whose
// title or description differs from the persisted entry. Locales absent
// from the proposal are not compared.
func translationsDiffer(current, proposed []validation.Translation) bool {
	if len(proposed) != len(current) {
		return true
	}
	byLocale := make(map[string]validation.Translation, len(current))
	for _, t := range current {
		byLocale[t.Locale] = t
	}
	for _, p := range proposed {
		cur, ok := byLocale[p.Locale]
		if !ok || cur.Title != p.Title || cur.Description != p.Description {
			return true
		}
	}
	return false
}

func strPtrDiffers(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return true
	}
	return a != nil && *a != *b
}

// masterTitle returns the master-locale title from a validated translation
// list, or "" when absent.
func masterTitle(master string, ts []validation.Translation) string {
	for _, t := range ts {
		if t.Locale == master {
			return t.Title
		}
	}
	return ""
}
