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

type CreateLessonInput struct {
	ModuleID     uuid.UUID                `json:"-"`
	Slug         string                   `json:"slug"`
	ImageURL     *string                  `json:"imageUrl"`
	Order        int                      `json:"order"`
	Translations []validation.Translation `json:"translations"`
}

type UpdateLessonInput struct {
	ID           uuid.UUID                             `json:"-"`
	Slug         patch.Field[string]                   `json:"slug"`
	ImageURL     patch.Field[*string]                  `json:"imageUrl"`
	Order        patch.Field[int]                      `json:"order"`
	Translations patch.Field[[]validation.Translation] `json:"translations"`
}

type LessonService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateLessonInput) (*types.Lesson, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error)
	ListByModule(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, page, limit int) ([]*types.Lesson, pagination.Page, error)
	Update(ctx context.Context, tx *gorm.DB, in UpdateLessonInput) (*types.Lesson, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type lessonService struct {
	db         *gorm.DB
	log        *logger.Logger
	locales    validation.LocaleSet
	lessonRepo repos.LessonRepo
	moduleRepo repos.ModuleRepo
}

func NewLessonService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	lessonRepo repos.LessonRepo,
	moduleRepo repos.ModuleRepo,
) LessonService {
	return &lessonService{
		db:         db,
		log:        baseLog.With("service", "LessonService"),
		locales:    locales,
		lessonRepo: lessonRepo,
		moduleRepo: moduleRepo,
	}
}

func (ls *lessonService) Create(ctx context.Context, tx *gorm.DB, in CreateLessonInput) (*types.Lesson, error) {
	if _, err := ls.moduleRepo.FindByID(ctx, tx, in.ModuleID); err != nil {
		return nil, mapFindErr(err, "module")
	}

	issues := validation.ValidateTranslations(ls.locales, in.Translations)
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

	if _, err := ls.lessonRepo.FindBySlug(ctx, tx, slug); err == nil {
		return nil, apperr.Duplicate("lesson")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	lesson := &types.Lesson{
		ID:       uuid.New(),
		ModuleID: in.ModuleID,
		Slug:     slug,
		ImageURL: in.ImageURL,
		Order:    in.Order,
	}
	for _, t := range in.Translations {
		lesson.Translations = append(lesson.Translations, types.LessonTranslation{
			ID:          uuid.New(),
			LessonID:    lesson.ID,
			Locale:      t.Locale,
			Title:       t.Title,
			Description: t.Description,
		})
	}
	if err := ls.lessonRepo.Create(ctx, tx, lesson); err != nil {
		return nil, apperr.Repository(err)
	}
	ls.log.Info("lesson created", "lesson_id", lesson.ID, "module_id", lesson.ModuleID, "slug", lesson.Slug)
	return lesson, nil
}

func (ls *lessonService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	lesson, err := ls.lessonRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "lesson")
	}
	return lesson, nil
}

// ListByModule pages through the gateway: lessons are the one child set the
// storage layer paginates directly, ordered by position.
func (ls *lessonService) ListByModule(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, page, limit int) ([]*types.Lesson, pagination.Page, error) {
	if _, err := ls.moduleRepo.FindByID(ctx, tx, moduleID); err != nil {
		return nil, pagination.Page{}, mapFindErr(err, "module")
	}
	page, limit = pagination.Clamp(page, limit)
	lessons, total, err := ls.lessonRepo.FindByModuleIDPaginated(ctx, tx, moduleID, limit, pagination.Offset(page, limit))
	if err != nil {
		return nil, pagination.Page{}, apperr.Repository(err)
	}
	return lessons, pagination.Build(page, limit, int(total)), nil
}

func (ls *lessonService) Update(ctx context.Context, tx *gorm.DB, in UpdateLessonInput) (*types.Lesson, error) {
	lesson, err := ls.lessonRepo.FindByID(ctx, tx, in.ID)
	if err != nil {
		return nil, mapFindErr(err, "lesson")
	}

	var issues []apperr.FieldIssue
	slug := lesson.Slug
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
		issues = append(issues, validation.ValidateTranslations(ls.locales, in.Translations.Value())...)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if !ls.detectChanges(lesson, in, slug) {
		return nil, apperr.NotModified("lesson")
	}

	if slug != lesson.Slug {
		if _, err := ls.lessonRepo.FindBySlugExcludingID(ctx, tx, slug, lesson.ID); err == nil {
			return nil, apperr.Duplicate("lesson")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Repository(err)
		}
	}

	lesson.Slug = slug
	if in.ImageURL.Supplied() {
		lesson.ImageURL = in.ImageURL.Value()
	}
	if in.Order.Supplied() {
		lesson.Order = in.Order.Value()
	}
	if in.Translations.Supplied() {
		lesson.Translations = lesson.Translations[:0]
		for _, t := range in.Translations.Value() {
			lesson.Translations = append(lesson.Translations, types.LessonTranslation{
				LessonID:    lesson.ID,
				Locale:      t.Locale,
				Title:       t.Title,
				Description: t.Description,
			})
		}
	}
	if err := ls.lessonRepo.Update(ctx, tx, lesson); err != nil {
		return nil, apperr.Repository(err)
	}
	ls.log.Info("lesson updated", "lesson_id", lesson.ID)
	return lesson, nil
}

func (ls *lessonService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return deleteGuard(ctx, "lesson",
		func(ctx context.Context) error {
			if _, err := ls.lessonRepo.FindByID(ctx, tx, id); err != nil {
				return mapFindErr(err, "lesson")
			}
			return nil
		},
		func(ctx context.Context) (*types.DependencyReport, error) {
			return ls.lessonRepo.CheckDependencies(ctx, tx, id, ls.locales.Master)
		},
		func(ctx context.Context) error {
			return ls.lessonRepo.Delete(ctx, tx, id)
		},
	)
}

func (ls *lessonService) detectChanges(lesson *types.Lesson, in UpdateLessonInput, slug string) bool {
	if in.Slug.Supplied() && slug != lesson.Slug {
		return true
	}
	if in.ImageURL.Supplied() && strPtrDiffers(in.ImageURL.Value(), lesson.ImageURL) {
		return true
	}
	if in.Order.Supplied() && in.Order.Value() != lesson.Order {
		return true
	}
	if in.Translations.Supplied() && translationsDiffer(lessonTranslationTuples(lesson), in.Translations.Value()) {
		return true
	}
	return false
}

func lessonTranslationTuples(lesson *types.Lesson) []validation.Translation {
	ts := make([]validation.Translation, 0, len(lesson.Translations))
	for _, t := range lesson.Translations {
		ts = append(ts, validation.Translation{Locale: t.Locale, Title: t.Title, Description: t.Description})
	}
	return ts
}
