package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/patch"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

func newCourseHarness() (CourseService, *fakeCourseRepo) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(nil, testLogger(), testLocales, repo)
	return svc, repo
}

func validCourseInput(slug, title string) CreateCourseInput {
	return CreateCourseInput{
		Slug: slug,
		Translations: []validation.Translation{
			{Locale: "pt", Title: title, Description: "Descrição completa do curso"},
		},
	}
}

func TestCourseCreate_SuccessThenDuplicateTitle(t *testing.T) {
	svc, _ := newCourseHarness()
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, validCourseInput("matematica-avancada", "Matemática Avançada"))
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("created course has no id")
	}
	if created.Slug != "matematica-avancada" {
		t.Fatalf("unexpected slug %q", created.Slug)
	}

	// Same master title under a different slug must still collide.
	_, err = svc.Create(ctx, nil, validCourseInput("outro-slug", "Matemática Avançada"))
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestCourseCreate_DuplicateSlug(t *testing.T) {
	svc, _ := newCourseHarness()
	ctx := context.Background()

	if _, err := svc.Create(ctx, nil, validCourseInput("curso-base", "Curso Base")); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	_, err := svc.Create(ctx, nil, validCourseInput("curso-base", "Título Diferente"))
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestCourseCreate_NormalizesSlugBeforeDuplicateCheck(t *testing.T) {
	svc, _ := newCourseHarness()
	ctx := context.Background()

	if _, err := svc.Create(ctx, nil, validCourseInput("curso-com-maiusculas", "Curso Um")); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	_, err := svc.Create(ctx, nil, validCourseInput("CURSO-COM-MAIÚSCULAS", "Curso Dois"))
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("expected duplicate after normalization, got %v", err)
	}
}

func TestCourseCreate_CollectsAllValidationIssues(t *testing.T) {
	svc, _ := newCourseHarness()

	_, err := svc.Create(context.Background(), nil, CreateCourseInput{
		Slug: "slug com espaço",
		Translations: []validation.Translation{
			{Locale: "it", Title: "ab", Description: "x"},
		},
	})
	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	// missing master, short title, short description, bad slug
	if len(e.Details) < 4 {
		t.Fatalf("expected all violations reported, got %v", e.Details)
	}
}

func TestCourseUpdate_IdenticalPayloadIsNotModified(t *testing.T) {
	svc, _ := newCourseHarness()
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, validCourseInput("historia-geral", "História Geral"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	in := UpdateCourseInput{
		ID:           created.ID,
		Slug:         patch.Set("historia-geral"),
		Translations: patch.Set(courseTranslationTuples(created)),
	}
	if _, err := svc.Update(ctx, nil, in); apperr.KindOf(err) != apperr.KindNotModified {
		t.Fatalf("expected not modified, got %v", err)
	}
	// Idempotent: the same no-op payload keeps reporting not modified.
	if _, err := svc.Update(ctx, nil, in); apperr.KindOf(err) != apperr.KindNotModified {
		t.Fatalf("expected not modified on repeat, got %v", err)
	}
}

func TestCourseUpdate_AppliesChangesAndChecksDuplicates(t *testing.T) {
	svc, repo := newCourseHarness()
	ctx := context.Background()

	if _, err := svc.Create(ctx, nil, validCourseInput("curso-um", "Curso Um")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.Create(ctx, nil, validCourseInput("curso-dois", "Curso Dois"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Taking the other course's slug collides.
	_, err = svc.Update(ctx, nil, UpdateCourseInput{ID: second.ID, Slug: patch.Set("curso-um")})
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("expected duplicate slug, got %v", err)
	}

	// A fresh slug goes through and persists.
	updated, err := svc.Update(ctx, nil, UpdateCourseInput{ID: second.ID, Slug: patch.Set("curso-tres")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "curso-tres" {
		t.Fatalf("slug not applied: %q", updated.Slug)
	}
	if stored := repo.courses[second.ID]; stored.Slug != "curso-tres" {
		t.Fatalf("slug not persisted: %q", stored.Slug)
	}
}

func TestCourseUpdate_MissingCourse(t *testing.T) {
	svc, _ := newCourseHarness()
	_, err := svc.Update(context.Background(), nil, UpdateCourseInput{ID: uuid.New(), Slug: patch.Set("qualquer")})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCourseDelete_BlockedByDependencies(t *testing.T) {
	svc, repo := newCourseHarness()
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, validCourseInput("curso-com-modulos", "Curso com Módulos"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	repo.deps[created.ID] = &types.DependencyReport{
		CanDelete:         false,
		TotalDependencies: 2,
		Summary:           map[string]int{"modules": 2},
		Dependencies: []types.Dependency{
			{Type: "module", ID: uuid.NewString(), Name: "Módulo 1"},
			{Type: "module", ID: uuid.NewString(), Name: "Módulo 2"},
		},
	}

	err = svc.Delete(ctx, nil, created.ID)
	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindHasDependencies {
		t.Fatalf("expected has_dependencies, got %v", err)
	}
	if e.Report == nil || e.Report.TotalDependencies != 2 {
		t.Fatalf("expected the full report attached, got %+v", e.Report)
	}
	if repo.deleteCalls != 0 {
		t.Fatalf("delete must not reach the gateway when blocked")
	}
}

func TestCourseDelete_SucceedsWithoutDependencies(t *testing.T) {
	svc, repo := newCourseHarness()
	ctx := context.Background()

	created, err := svc.Create(ctx, nil, validCourseInput("curso-livre", "Curso Livre"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(ctx, nil, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if repo.deleteCalls != 1 {
		t.Fatalf("expected exactly one gateway delete, got %d", repo.deleteCalls)
	}
	if _, ok := repo.courses[created.ID]; ok {
		t.Fatalf("course still present after delete")
	}
}

func TestCourseGet_SplitsAbsenceFromFailure(t *testing.T) {
	svc, repo := newCourseHarness()
	ctx := context.Background()

	if _, err := svc.Get(ctx, nil, uuid.New()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	repo.findErr = errors.New("connection refused")
	if _, err := svc.Get(ctx, nil, uuid.New()); apperr.KindOf(err) != apperr.KindRepository {
		t.Fatalf("expected repository error, got %v", err)
	}
}
