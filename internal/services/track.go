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

type CreateTrackInput struct {
	Slug         string                   `json:"slug"`
	ImageURL     *string                  `json:"imageUrl"`
	CourseIDs    []uuid.UUID              `json:"courseIds"`
	Translations []validation.Translation `json:"translations"`
}

type UpdateTrackInput struct {
	ID           uuid.UUID                             `json:"-"`
	Slug         patch.Field[string]                   `json:"slug"`
	ImageURL     patch.Field[*string]                  `json:"imageUrl"`
	CourseIDs    patch.Field[[]uuid.UUID]              `json:"courseIds"`
	Translations patch.Field[[]validation.Translation] `json:"translations"`
}

type TrackService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateTrackInput) (*types.Track, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Track, error)
	List(ctx context.Context, tx *gorm.DB, page, limit int) ([]*types.Track, pagination.Page, error)
	Update(ctx context.Context, tx *gorm.DB, in UpdateTrackInput) (*types.Track, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type trackService struct {
	db         *gorm.DB
	log        *logger.Logger
	locales    validation.LocaleSet
	trackRepo  repos.TrackRepo
	courseRepo repos.CourseRepo
}

func NewTrackService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	trackRepo repos.TrackRepo,
	courseRepo repos.CourseRepo,
) TrackService {
	return &trackService{
		db:         db,
		log:        baseLog.With("service", "TrackService"),
		locales:    locales,
		trackRepo:  trackRepo,
		courseRepo: courseRepo,
	}
}

func (ts *trackService) Create(ctx context.Context, tx *gorm.DB, in CreateTrackInput) (*types.Track, error) {
	issues := validation.ValidateTranslations(ts.locales, in.Translations)
	slug, slugIssue := validation.NormalizeSlug(in.Slug)
	if slugIssue != nil {
		issues = append(issues, *slugIssue)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if _, err := ts.trackRepo.FindBySlug(ctx, tx, slug); err == nil {
		return nil, apperr.Duplicate("track")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	title := masterTitle(ts.locales.Master, in.Translations)
	if _, err := ts.trackRepo.FindByTitle(ctx, tx, ts.locales.Master, title); err == nil {
		return nil, apperr.Duplicate("track")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	// Every referenced course must exist before the join rows are written.
	for _, courseID := range in.CourseIDs {
		if _, err := ts.courseRepo.FindByID(ctx, tx, courseID); err != nil {
			return nil, mapFindErr(err, "course")
		}
	}

	track := &types.Track{
		ID:       uuid.New(),
		Slug:     slug,
		ImageURL: in.ImageURL,
	}
	for _, t := range in.Translations {
		track.Translations = append(track.Translations, types.TrackTranslation{
			ID:          uuid.New(),
			TrackID:     track.ID,
			Locale:      t.Locale,
			Title:       t.Title,
			Description: t.Description,
		})
	}
	for _, courseID := range in.CourseIDs {
		track.Courses = append(track.Courses, types.TrackCourse{
			ID:       uuid.New(),
			TrackID:  track.ID,
			CourseID: courseID,
		})
	}
	if err := ts.trackRepo.Create(ctx, tx, track); err != nil {
		return nil, apperr.Repository(err)
	}
	ts.log.Info("track created", "track_id", track.ID, "slug", track.Slug)
	return track, nil
}

func (ts *trackService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Track, error) {
	track, err := ts.trackRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "track")
	}
	return track, nil
}

func (ts *trackService) List(ctx context.Context, tx *gorm.DB, page, limit int) ([]*types.Track, pagination.Page, error) {
	page, limit = pagination.Clamp(page, limit)
	tracks, total, err := ts.trackRepo.FindAllPaginated(ctx, tx, limit, pagination.Offset(page, limit))
	if err != nil {
		return nil, pagination.Page{}, apperr.Repository(err)
	}
	return tracks, pagination.Build(page, limit, int(total)), nil
}

func (ts *trackService) Update(ctx context.Context, tx *gorm.DB, in UpdateTrackInput) (*types.Track, error) {
	track, err := ts.trackRepo.FindByID(ctx, tx, in.ID)
	if err != nil {
		return nil, mapFindErr(err, "track")
	}

	var issues []apperr.FieldIssue
	slug := track.Slug
	if in.Slug.Supplied() {
		normalized, issue := validation.NormalizeSlug(in.Slug.Value())
		if issue != nil {
			issues = append(issues, *issue)
		} else {
			slug = normalized
		}
	}
	if in.Translations.Supplied() {
		issues = append(issues, validation.ValidateTranslations(ts.locales, in.Translations.Value())...)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if !ts.detectChanges(track, in, slug) {
		return nil, apperr.NotModified("track")
	}

	if slug != track.Slug {
		if _, err := ts.trackRepo.FindBySlugExcludingID(ctx, tx, slug, track.ID); err == nil {
			return nil, apperr.Duplicate("track")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Repository(err)
		}
	}
	if in.Translations.Supplied() {
		title := masterTitle(ts.locales.Master, in.Translations.Value())
		if title != "" && title != trackMasterTitle(ts.locales.Master, track) {
			if _, err := ts.trackRepo.FindByTitleExcludingID(ctx, tx, ts.locales.Master, title, track.ID); err == nil {
				return nil, apperr.Duplicate("track")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Repository(err)
			}
		}
	}
	if in.CourseIDs.Supplied() {
		for _, courseID := range in.CourseIDs.Value() {
			if _, err := ts.courseRepo.FindByID(ctx, tx, courseID); err != nil {
				return nil, mapFindErr(err, "course")
			}
		}
	}

	track.Slug = slug
	if in.ImageURL.Supplied() {
		track.ImageURL = in.ImageURL.Value()
	}
	if in.Translations.Supplied() {
		track.Translations = track.Translations[:0]
		for _, t := range in.Translations.Value() {
			track.Translations = append(track.Translations, types.TrackTranslation{
				TrackID:     track.ID,
				Locale:      t.Locale,
				Title:       t.Title,
				Description: t.Description,
			})
		}
	}
	if in.CourseIDs.Supplied() {
		track.Courses = track.Courses[:0]
		for _, courseID := range in.CourseIDs.Value() {
			track.Courses = append(track.Courses, types.TrackCourse{
				TrackID:  track.ID,
				CourseID: courseID,
			})
		}
	}
	if err := ts.trackRepo.Update(ctx, tx, track); err != nil {
		return nil, apperr.Repository(err)
	}
	ts.log.Info("track updated", "track_id", track.ID)
	return track, nil
}

func (ts *trackService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return deleteGuard(ctx, "track",
		func(ctx context.Context) error {
			if _, err := ts.trackRepo.FindByID(ctx, tx, id); err != nil {
				return mapFindErr(err, "track")
			}
			return nil
		},
		func(ctx context.Context) (*types.DependencyReport, error) {
			return ts.trackRepo.CheckDependencies(ctx, tx, id, ts.locales.Master)
		},
		func(ctx context.Context) error {
			return ts.trackRepo.Delete(ctx, tx, id)
		},
	)
}

func (ts *trackService) detectChanges(track *types.Track, in UpdateTrackInput, slug string) bool {
	if in.Slug.Supplied() && slug != track.Slug {
		return true
	}
	if in.ImageURL.Supplied() && strPtrDiffers(in.ImageURL.Value(), track.ImageURL) {
		return true
	}
	if in.CourseIDs.Supplied() && courseIDsDiffer(track.Courses, in.CourseIDs.Value()) {
		return true
	}
	if in.Translations.Supplied() && translationsDiffer(trackTranslationTuples(track), in.Translations.Value()) {
		return true
	}
	return false
}

func courseIDsDiffer(current []types.TrackCourse, proposed []uuid.UUID) bool {
	if len(current) != len(proposed) {
		return true
	}
	have := make(map[uuid.UUID]bool, len(current))
	for _, edge := range current {
		have[edge.CourseID] = true
	}
	for _, id := range proposed {
		if !have[id] {
			return true
		}
	}
	return false
}

func trackMasterTitle(master string, track *types.Track) string {
	for _, t := range track.Translations {
		if t.Locale == master {
			return t.Title
		}
	}
	return ""
}

func trackTranslationTuples(track *types.Track) []validation.Translation {
	ts := make([]validation.Translation, 0, len(track.Translations))
	for _, t := range track.Translations {
		ts = append(ts, validation.Translation{Locale: t.Locale, Title: t.Title, Description: t.Description})
	}
	return ts
}
