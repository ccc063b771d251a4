package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/pagination"
	"github.com/cursolab/ead-backend/internal/patch"
	"github.com/cursolab/ead-backend/internal/repos"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

type CreateModuleInput struct {
	CourseID     uuid.UUID                `json:"-"`
	Slug         string                   `json:"slug"`
	ImageURL     *string                  `json:"imageUrl"`
	Order        int                      `json:"order"`
	Translations []validation.Translation `json:"translations"`
}

type UpdateModuleInput struct {
	ID           uuid.UUID                             `json:"-"`
	Slug         patch.Field[string]                   `json:"slug"`
	ImageURL     patch.Field[*string]                  `json:"imageUrl"`
	Order        patch.Field[int]                      `json:"order"`
	Translations patch.Field[[]validation.Translation] `json:"translations"`
}

type ModuleService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateModuleInput) (*types.Module, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, page, limit int) ([]*types.Module, pagination.Page, error)
	Update(ctx context.Context, tx *gorm.DB, in UpdateModuleInput) (*types.Module, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type moduleService struct {
	db         *gorm.DB
	log        *logger.Logger
	locales    validation.LocaleSet
	moduleRepo repos.ModuleRepo
	courseRepo repos.CourseRepo
}

func NewModuleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	moduleRepo repos.ModuleRepo,
	courseRepo repos.CourseRepo,
) ModuleService {
	return &moduleService{
		db:         db,
		log:        baseLog.With("service", "ModuleService"),
		locales:    locales,
		moduleRepo: moduleRepo,
		courseRepo: courseRepo,
	}
}

func (ms *moduleService) Create(ctx context.Context, tx *gorm.DB, in CreateModuleInput) (*types.Module, error) {
	if _, err := ms.courseRepo.FindByID(ctx, tx, in.CourseID); err != nil {
		return nil, mapFindErr(err, "course")
	}

	issues := validation.ValidateTranslations(ms.locales, in.Translations)
	slug, slugIssue := validation.NormalizeSlug(in.Slug)
	if slugIssue != nil {
		issues = append(issues, *slugIssue)
	}
	if in.Order < 1 {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "order must be at least 1",
			Path:    []string{"order"},
		})
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if _, err := ms.moduleRepo.FindBySlug(ctx, tx, slug); err == nil {
		return nil, apperr.Duplicate("module")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	module := &types.Module{
		ID:       uuid.New(),
		CourseID: in.CourseID,
		Slug:     slug,
		ImageURL: in.ImageURL,
		Order:    in.Order,
	}
	for _, t := range in.Translations {
		module.Translations = append(module.Translations, types.ModuleTranslation{
			ID:          uuid.New(),
			ModuleID:    module.ID,
			Locale:      t.Locale,
			Title:       t.Title,
			Description: t.Description,
		})
	}
	if err := ms.moduleRepo.Create(ctx, tx, module); err != nil {
		return nil, apperr.Repository(err)
	}
	ms.log.Info("module created", "module_id", module.ID, "course_id", module.CourseID, "slug", module.Slug)
	return module, nil
}

func (ms *moduleService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error) {
	module, err := ms.moduleRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "module")
	}
	return module, nil
}

// ListByCourse pages a parent-scoped set: the full child list is fetched
// and sliced in memory, already ordered newest first by the repo.
func (ms *moduleService) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, page, limit int) ([]*types.Module, pagination.Page, error) {
	if _, err := ms.courseRepo.FindByID(ctx, tx, courseID); err != nil {
		return nil, pagination.Page{}, mapFindErr(err, "course")
	}
	modules, err := ms.moduleRepo.FindByCourseID(ctx, tx, courseID)
	if err != nil {
		return nil, pagination.Page{}, apperr.Repository(err)
	}
	page, limit = pagination.Clamp(page, limit)
	total := len(modules)
	return pagination.Slice(modules, page, limit), pagination.Build(page, limit, total), nil
}

func (ms *moduleService) Update(ctx context.Context, tx *gorm.DB, in UpdateModuleInput) (*types.Module, error) {
	module, err := ms.moduleRepo.FindByID(ctx, tx, in.ID)
	if err != nil {
		return nil, mapFindErr(err, "module")
	}

	var issues []apperr.FieldIssue
	slug := module.Slug
	if in.Slug.Supplied() {
		normalized, issue := validation.NormalizeSlug(in.Slug.Value())
		if issue != nil {
			issues = append(issues, *issue)
		} else {
			slug = normalized
		}
	}
	if in.Order.Supplied() && in.Order.Value() < 1 {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "order must be at least 1",
			Path:    []string{"order"},
		})
	}
	if in.Translations.Supplied() {
		issues = append(issues, validation.ValidateTranslations(ms.locales, in.Translations.Value())...)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if !ms.detectChanges(module, in, slug) {
		return nil, apperr.NotModified("module")
	}

	if slug != module.Slug {
		if _, err := ms.moduleRepo.FindBySlugExcludingID(ctx, tx, slug, module.ID); err == nil {
			return nil, apperr.Duplicate("module")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Repository(err)
		}
	}

	module.Slug = slug
	if in.ImageURL.Supplied() {
		module.ImageURL = in.ImageURL.Value()
	}
	if in.Order.Supplied() {
		module.Order = in.Order.Value()
	}
	if in.Translations.Supplied() {
		module.Translations = module.Translations[:0]
		for _, t := range in.Translations.Value() {
			module.Translations = append(module.Translations, types.ModuleTranslation{
				ModuleID:    module.ID,
				Locale:      t.Locale,
				Title:       t.Title,
				Description: t.Description,
			})
		}
	}
	if err := ms.moduleRepo.Update(ctx, tx, module); err != nil {
		return nil, apperr.Repository(err)
	}
	ms.log.Info("module updated", "module_id", module.ID)
	return module, nil
}

func (ms *moduleService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return deleteGuard(ctx, "module",
		func(ctx context.Context) error {
			if _, err := ms.moduleRepo.FindByID(ctx, tx, id); err != nil {
				return mapFindErr(err, "module")
			}
			return nil
		},
		func(ctx context.Context) (*types.DependencyReport, error) {
			return ms.moduleRepo.CheckDependencies(ctx, tx, id, ms.locales.Master)
		},
		func(ctx context.Context) error {
			return ms.moduleRepo.Delete(ctx, tx, id)
		},
	)
}

func (ms *moduleService) detectChanges(module *types.Module, in UpdateModuleInput, slug string) bool {
	if in.Slug.Supplied() && slug != module.Slug {
		return true
	}
	if in.ImageURL.Supplied() && strPtrDiffers(in.ImageURL.Value(), module.ImageURL) {
		return true
	}
	if in.Order.Supplied() && in.Order.Value() != module.Order {
		return true
	}
	if in.Translations.Supplied() && translationsDiffer(moduleTranslationTuples(module), in.Translations.Value()) {
		return true
	}
	return false
}

func moduleTranslationTuples(module *types.Module) []validation.Translation {
	ts := make([]validation.Translation, 0, len(module.Translations))
	for _, t := range module.Translations {
		ts = append(ts, validation.Translation{Locale: t.Locale, Title: t.Title, Description: t.Description})
	}
	return ts
}
