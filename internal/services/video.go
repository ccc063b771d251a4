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

type CreateVideoInput struct {
	LessonID          *uuid.UUID               `json:"-"`
	Slug              string                   `json:"slug"`
	ProviderVideoID   string                   `json:"providerVideoId"`
	DurationInSeconds int                      `json:"durationInSeconds"`
	Translations      []validation.Translation `json:"translations"`
}

type UpdateVideoInput struct {
	ID                uuid.UUID                             `json:"-"`
	Slug              patch.Field[string]                   `json:"slug"`
	ProviderVideoID   patch.Field[string]                   `json:"providerVideoId"`
	DurationInSeconds patch.Field[int]                      `json:"durationInSeconds"`
	LessonID          patch.Field[*uuid.UUID]               `json:"lessonId"`
	Translations      patch.Field[[]validation.Translation] `json:"translations"`
}

type VideoService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateVideoInput) (*types.Video, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Video, error)
	ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, page, limit int) ([]*types.Video, pagination.Page, error)
	Update(ctx context.Context, tx *gorm.DB, in UpdateVideoInput) (*types.Video, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type videoService struct {
	db         *gorm.DB
	log        *logger.Logger
	locales    validation.LocaleSet
	videoRepo  repos.VideoRepo
	lessonRepo repos.LessonRepo
}

func NewVideoService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	videoRepo repos.VideoRepo,
	lessonRepo repos.LessonRepo,
) VideoService {
	return &videoService{
		db:         db,
		log:        baseLog.With("service", "VideoService"),
		locales:    locales,
		videoRepo:  videoRepo,
		lessonRepo: lessonRepo,
	}
}

func (vs *videoService) Create(ctx context.Context, tx *gorm.DB, in CreateVideoInput) (*types.Video, error) {
	if in.LessonID != nil {
		if _, err := vs.lessonRepo.FindByID(ctx, tx, *in.LessonID); err != nil {
			return nil, mapFindErr(err, "lesson")
		}
	}

	issues := validation.ValidateTranslations(vs.locales, in.Translations)
	slug, slugIssue := validation.NormalizeSlug(in.Slug)
	if slugIssue != nil {
		issues = append(issues, *slugIssue)
	}
	if in.ProviderVideoID == "" {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "providerVideoId must not be empty",
			Path:    []string{"providerVideoId"},
		})
	}
	if in.DurationInSeconds < 1 {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "durationInSeconds must be at least 1",
			Path:    []string{"durationInSeconds"},
		})
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if _, err := vs.videoRepo.FindBySlug(ctx, tx, slug); err == nil {
		return nil, apperr.Duplicate("video")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	video := &types.Video{
		ID:                uuid.New(),
		Slug:              slug,
		LessonID:          in.LessonID,
		ProviderVideoID:   in.ProviderVideoID,
		DurationInSeconds: in.DurationInSeconds,
	}
	for _, t := range in.Translations {
		video.Translations = append(video.Translations, types.VideoTranslation{
			ID:          uuid.New(),
			VideoID:     video.ID,
			Locale:      t.Locale,
			Title:       t.Title,
			Description: t.Description,
		})
	}
	if err := vs.videoRepo.Create(ctx, tx, video); err != nil {
		return nil, apperr.Repository(err)
	}
	vs.log.Info("video created", "video_id", video.ID, "slug", video.Slug)
	return video, nil
}

func (vs *videoService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Video, error) {
	video, err := vs.videoRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "video")
	}
	return video, nil
}

func (vs *videoService) ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, page, limit int) ([]*types.Video, pagination.Page, error) {
	if _, err := vs.lessonRepo.FindByID(ctx, tx, lessonID); err != nil {
		return nil, pagination.Page{}, mapFindErr(err, "lesson")
	}
	videos, err := vs.videoRepo.FindByLessonID(ctx, tx, lessonID)
	if err != nil {
		return nil, pagination.Page{}, apperr.Repository(err)
	}
	page, limit = pagination.Clamp(page, limit)
	total := len(videos)
	return pagination.Slice(videos, page, limit), pagination.Build(page, limit, total), nil
}

func (vs *videoService) Update(ctx context.Context, tx *gorm.DB, in UpdateVideoInput) (*types.Video, error) {
	video, err := vs.videoRepo.FindByID(ctx, tx, in.ID)
	if err != nil {
		return nil, mapFindErr(err, "video")
	}

	var issues []apperr.FieldIssue
	slug := video.Slug
	if in.Slug.Supplied() {
		normalized, issue := validation.NormalizeSlug(in.Slug.Value())
		if issue != nil {
			issues = append(issues, *issue)
		} else {
			slug = normalized
		}
	}
	if in.ProviderVideoID.Supplied() && in.ProviderVideoID.Value() == "" {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "providerVideoId must not be empty",
			Path:    []string{"providerVideoId"},
		})
	}
	if in.DurationInSeconds.Supplied() && in.DurationInSeconds.Value() < 1 {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "durationInSeconds must be at least 1",
			Path:    []string{"durationInSeconds"},
		})
	}
	if in.Translations.Supplied() {
		issues = append(issues, validation.ValidateTranslations(vs.locales, in.Translations.Value())...)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if in.LessonID.Supplied() && in.LessonID.Value() != nil {
		if _, err := vs.lessonRepo.FindByID(ctx, tx, *in.LessonID.Value()); err != nil {
			return nil, mapFindErr(err, "lesson")
		}
	}

	if !vs.detectChanges(video, in, slug) {
		return nil, apperr.NotModified("video")
	}

	if slug != video.Slug {
		if _, err := vs.videoRepo.FindBySlugExcludingID(ctx, tx, slug, video.ID); err == nil {
			return nil, apperr.Duplicate("video")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Repository(err)
		}
	}

	video.Slug = slug
	if in.ProviderVideoID.Supplied() {
		video.ProviderVideoID = in.ProviderVideoID.Value()
	}
	if in.DurationInSeconds.Supplied() {
		video.DurationInSeconds = in.DurationInSeconds.Value()
	}
	if in.LessonID.Supplied() {
		video.LessonID = in.LessonID.Value()
	}
	if in.Translations.Supplied() {
		video.Translations = video.Translations[:0]
		for _, t := range in.Translations.Value() {
			video.Translations = append(video.Translations, types.VideoTranslation{
				VideoID:     video.ID,
				Locale:      t.Locale,
				Title:       t.Title,
				Description: t.Description,
			})
		}
	}
	if err := vs.videoRepo.Update(ctx, tx, video); err != nil {
		return nil, apperr.Repository(err)
	}
	vs.log.Info("video updated", "video_id", video.ID)
	return video, nil
}

func (vs *videoService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return deleteGuard(ctx, "video",
		func(ctx context.Context) error {
			if _, err := vs.videoRepo.FindByID(ctx, tx, id); err != nil {
				return mapFindErr(err, "video")
			}
			return nil
		},
		func(ctx context.Context) (*types.DependencyReport, error) {
			return vs.videoRepo.CheckDependencies(ctx, tx, id, vs.locales.Master)
		},
		func(ctx context.Context) error {
			return vs.videoRepo.Delete(ctx, tx, id)
		},
	)
}

func (vs *videoService) detectChanges(video *types.Video, in UpdateVideoInput, slug string) bool {
	if in.Slug.Supplied() && slug != video.Slug {
		return true
	}
	if in.ProviderVideoID.Supplied() && in.ProviderVideoID.Value() != video.ProviderVideoID {
		return true
	}
	if in.DurationInSeconds.Supplied() && in.DurationInSeconds.Value() != video.DurationInSeconds {
		return true
	}
	if in.LessonID.Supplied() && uuidPtrDiffers(in.LessonID.Value(), video.LessonID) {
		return true
	}
	if in.Translations.Supplied() && translationsDiffer(videoTranslationTuples(video), in.Translations.Value()) {
		return true
	}
	return false
}

func uuidPtrDiffers(a, b *uuid.UUID) bool {
	if (a == nil) != (b == nil) {
		return true
	}
	return a != nil && *a != *b
}

func videoTranslationTuples(video *types.Video) []validation.Translation {
	ts := make([]validation.Translation, 0, len(video.Translations))
	for _, t := range video.Translations {
		ts = append(ts, validation.Translation{Locale: t.Locale, Title: t.Title, Description: t.Description})
	}
	return ts
}
