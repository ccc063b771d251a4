package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

type fakeModuleRepo struct {
	modules map[uuid.UUID]*types.Module
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{modules: map[uuid.UUID]*types.Module{}}
}

func (f *fakeModuleRepo) Create(ctx context.Context, tx *gorm.DB, m *types.Module) error {
	cp := *m
	f.modules[m.ID] = &cp
	return nil
}

func (f *fakeModuleRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error) {
	m, ok := f.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeModuleRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Module, error) {
	return f.FindBySlugExcludingID(ctx, tx, slug, uuid.Nil)
}

func (f *fakeModuleRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Module, error) {
	for _, m := range f.modules {
		if m.Slug == slug && m.ID != excludeID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeModuleRepo) FindByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Module, error) {
	var out []*types.Module
	for _, m := range f.modules {
		if m.CourseID == courseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeModuleRepo) Update(ctx context.Context, tx *gorm.DB, m *types.Module) error {
	cp := *m
	f.modules[m.ID] = &cp
	return nil
}

func (f *fakeModuleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(f.modules, id)
	return nil
}

func (f *fakeModuleRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	return &types.DependencyReport{CanDelete: true, Summary: map[string]int{}}, nil
}

func newModuleHarness() (ModuleService, *fakeModuleRepo, *fakeCourseRepo) {
	mRepo := newFakeModuleRepo()
	cRepo := newFakeCourseRepo()
	svc := NewModuleService(nil, testLogger(), testLocales, mRepo, cRepo)
	return svc, mRepo, cRepo
}

func seedParentCourse(cRepo *fakeCourseRepo) uuid.UUID {
	id := uuid.New()
	cRepo.courses[id] = &types.Course{ID: id, Slug: "curso-pai"}
	return id
}

func TestModuleCreate_RequiresExistingCourse(t *testing.T) {
	svc, _, _ := newModuleHarness()
	_, err := svc.Create(context.Background(), nil, CreateModuleInput{
		CourseID: uuid.New(),
		Slug:     "modulo-orfao",
		Order:    1,
		Translations: []validation.Translation{
			{Locale: "pt", Title: "Módulo Órfão", Description: "Sem curso pai"},
		},
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestModuleCreate_RejectsNonPositiveOrder(t *testing.T) {
	svc, _, cRepo := newModuleHarness()
	courseID := seedParentCourse(cRepo)

	_, err := svc.Create(context.Background(), nil, CreateModuleInput{
		CourseID: courseID,
		Slug:     "modulo-zero",
		Order:    0,
		Translations: []validation.Translation{
			{Locale: "pt", Title: "Módulo Zero", Description: "Ordem inválida"},
		},
	})
	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	found := false
	for _, is := range e.Details {
		if is.Code == "too-small" && len(is.Path) == 1 && is.Path[0] == "order" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an order issue, got %v", e.Details)
	}
}

func TestModuleListByCourse_PagesInMemory(t *testing.T) {
	svc, mRepo, cRepo := newModuleHarness()
	ctx := context.Background()
	courseID := seedParentCourse(cRepo)

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m := &types.Module{
			ID:        uuid.New(),
			CourseID:  courseID,
			Slug:      uuid.NewString(),
			Order:     i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		mRepo.modules[m.ID] = m
	}
	// A module from another course must not bleed in.
	other := &types.Module{ID: uuid.New(), CourseID: uuid.New(), Slug: "alheio", Order: 1}
	mRepo.modules[other.ID] = other

	items, pg, err := svc.ListByCourse(ctx, nil, courseID, 2, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if pg.Total != 5 || pg.TotalPages != 3 || !pg.HasNext || !pg.HasPrevious {
		t.Fatalf("unexpected page descriptor: %+v", pg)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(items))
	}
	for _, m := range items {
		if m.CourseID != courseID {
			t.Fatalf("foreign module leaked into the course listing")
		}
	}

	items, pg, err = svc.ListByCourse(ctx, nil, courseID, 9, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 || pg.HasNext {
		t.Fatalf("past-end page should be empty with hasNext=false, got %d items %+v", len(items), pg)
	}
}

func TestModuleListByCourse_MissingCourse(t *testing.T) {
	svc, _, _ := newModuleHarness()
	_, _, err := svc.ListByCourse(context.Background(), nil, uuid.New(), 1, 10)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
