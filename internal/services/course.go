package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/pagination"
	"github.com/cursolab/ead-backend/internal/patch"
	"github.com/cursolab/ead-backend/internal/repos"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

type CreateCourseInput struct {
	Slug         string                   `json:"slug"`
	ImageURL     *string                  `json:"imageUrl"`
	Metadata     datatypes.JSON           `json:"metadata"`
	Translations []validation.Translation `json:"translations"`
}

type UpdateCourseInput struct {
	ID           uuid.UUID                             `json:"-"`
	Slug         patch.Field[string]                   `json:"slug"`
	ImageURL     patch.Field[*string]                  `json:"imageUrl"`
	Metadata     patch.Field[datatypes.JSON]           `json:"metadata"`
	Translations patch.Field[[]validation.Translation] `json:"translations"`
}

type CourseService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateCourseInput) (*types.Course, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	List(ctx context.Context, tx *gorm.DB, page, limit int) ([]*types.Course, pagination.Page, error)
	Update(ctx context.Context, tx *gorm.DB, in UpdateCourseInput) (*types.Course, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type courseService struct {
	db         *gorm.DB
	log        *logger.Logger
	locales    validation.LocaleSet
	courseRepo repos.CourseRepo
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	courseRepo repos.CourseRepo,
) CourseService {
	return &courseService{
		db:         db,
		log:        baseLog.With("service", "CourseService"),
		locales:    locales,
		courseRepo: courseRepo,
	}
}

func (cs *courseService) Create(ctx context.Context, tx *gorm.DB, in CreateCourseInput) (*types.Course, error) {
	issues := validation.ValidateTranslations(cs.locales, in.Translations)
	slug, slugIssue := validation.NormalizeSlug(in.Slug)
	if slugIssue != nil {
		issues = append(issues, *slugIssue)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if _, err := cs.courseRepo.FindBySlug(ctx, tx, slug); err == nil {
		return nil, apperr.Duplicate("course")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	title := masterTitle(cs.locales.Master, in.Translations)
	if _, err := cs.courseRepo.FindByTitle(ctx, tx, cs.locales.Master, title); err == nil {
		return nil, apperr.Duplicate("course")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	course := &types.Course{
		ID:       uuid.New(),
		Slug:     slug,
		ImageURL: in.ImageURL,
		Metadata: in.Metadata,
	}
	for _, t := range in.Translations {
		course.Translations = append(course.Translations, types.CourseTranslation{
			ID:          uuid.New(),
			CourseID:    course.ID,
			Locale:      t.Locale,
			Title:       t.Title,
			Description: t.Description,
		})
	}
	if err := cs.courseRepo.Create(ctx, tx, course); err != nil {
		return nil, apperr.Repository(err)
	}
	cs.log.Info("course created", "course_id", course.ID, "slug", course.Slug)
	return course, nil
}

func (cs *courseService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	course, err := cs.courseRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "course")
	}
	return course, nil
}

func (cs *courseService) List(ctx context.Context, tx *gorm.DB, page, limit int) ([]*types.Course, pagination.Page, error) {
	page, limit = pagination.Clamp(page, limit)
	courses, total, err := cs.courseRepo.FindAllPaginated(ctx, tx, limit, pagination.Offset(page, limit))
	if err != nil {
		return nil, pagination.Page{}, apperr.Repository(err)
	}
	return courses, pagination.Build(page, limit, int(total)), nil
}

func (cs *courseService) Update(ctx context.Context, tx *gorm.DB, in UpdateCourseInput) (*types.Course, error) {
	course, err := cs.courseRepo.FindByID(ctx, tx, in.ID)
	if err != nil {
		return nil, mapFindErr(err, "course")
	}

	var issues []apperr.FieldIssue
	slug := course.Slug
	if in.Slug.Supplied() {
		normalized, issue := validation.NormalizeSlug(in.Slug.Value())
		if issue != nil {
			issues = append(issues, *issue)
		} else {
			slug = normalized
		}
	}
	if in.Translations.Supplied() {
		issues = append(issues, validation.ValidateTranslations(cs.locales, in.Translations.Value())...)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if !cs.detectChanges(course, in, slug) {
		return nil, apperr.NotModified("course")
	}

	if slug != course.Slug {
		if _, err := cs.courseRepo.FindBySlugExcludingID(ctx, tx, slug, course.ID); err == nil {
			return nil, apperr.Duplicate("course")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Repository(err)
		}
	}
	if in.Translations.Supplied() {
		title := masterTitle(cs.locales.Master, in.Translations.Value())
		if title != "" && title != courseMasterTitle(cs.locales.Master, course) {
			if _, err := cs.courseRepo.FindByTitleExcludingID(ctx, tx, cs.locales.Master, title, course.ID); err == nil {
				return nil, apperr.Duplicate("course")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Repository(err)
			}
		}
	}

	course.Slug = slug
	if in.ImageURL.Supplied() {
		course.ImageURL = in.ImageURL.Value()
	}
	if in.Metadata.Supplied() {
		course.Metadata = in.Metadata.Value()
	}
	if in.Translations.Supplied() {
		course.Translations = course.Translations[:0]
		for _, t := range in.Translations.Value() {
			course.Translations = append(course.Translations, types.CourseTranslation{
				CourseID:    course.ID,
				Locale:      t.Locale,
				Title:       t.Title,
				Description: t.Description,
			})
		}
	}
	if err := cs.courseRepo.Update(ctx, tx, course); err != nil {
		return nil, apperr.Repository(err)
	}
	cs.log.Info("course updated", "course_id", course.ID)
	return course, nil
}

func (cs *courseService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return deleteGuard(ctx, "course",
		func(ctx context.Context) error {
			if _, err := cs.courseRepo.FindByID(ctx, tx, id); err != nil {
				return mapFindErr(err, "course")
			}
			return nil
		},
		func(ctx context.Context) (*types.DependencyReport, error) {
			return cs.courseRepo.CheckDependencies(ctx, tx, id, cs.locales.Master)
		},
		func(ctx context.Context) error {
			return cs.courseRepo.Delete(ctx, tx, id)
		},
	)
}

func (cs *courseService) detectChanges(course *types.Course, in UpdateCourseInput, slug string) bool {
	if in.Slug.Supplied() && slug != course.Slug {
		return true
	}
	if in.ImageURL.Supplied() && strPtrDiffers(in.ImageURL.Value(), course.ImageURL) {
		return true
	}
	if in.Metadata.Supplied() && string(in.Metadata.Value()) != string(course.Metadata) {
		return true
	}
	if in.Translations.Supplied() && translationsDiffer(courseTranslationTuples(course), in.Translations.Value()) {
		return true
	}
	return false
}

func courseTranslationTuples(course *types.Course) []validation.Translation {
	ts := make([]validation.Translation, 0, len(course.Translations))
	for _, t := range course.Translations {
		ts = append(ts, validation.Translation{Locale: t.Locale, Title: t.Title, Description: t.Description})
	}
	return ts
}

func courseMasterTitle(master string, course *types.Course) string {
	for _, t := range course.Translations {
		if t.Locale == master {
			return t.Title
		}
	}
	return ""
}
