package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type TrackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, track *types.Track) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Track, error)
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Track, error)
	FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Track, error)
	FindByTitle(ctx context.Context, tx *gorm.DB, locale, title string) (*types.Track, error)
	FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, locale, title string, excludeID uuid.UUID) (*types.Track, error)
	FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Track, int64, error)
	Update(ctx context.Context, tx *gorm.DB, track *types.Track) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error)
}

type trackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackRepo(db *gorm.DB, baseLog *logger.Logger) TrackRepo {
	repoLog := baseLog.With("repo", "TrackRepo")
	return &trackRepo{db: db, log: repoLog}
}

func (tr *trackRepo) Create(ctx context.Context, tx *gorm.DB, track *types.Track) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Create(track).Error
}

func (tr *trackRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var track types.Track
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Preload("Courses").
		Where("id = ?", id).
		First(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (tr *trackRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var track types.Track
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Preload("Courses").
		Where("slug = ?", slug).
		First(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (tr *trackRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var track types.Track
	if err := transaction.WithContext(ctx).
		Where("slug = ? AND id <> ?", slug, excludeID).
		First(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (tr *trackRepo) FindByTitle(ctx context.Context, tx *gorm.DB, locale, title string) (*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var track types.Track
	if err := transaction.WithContext(ctx).
		Joins("JOIN track_translation tt ON tt.track_id = track.id").
		Where("tt.locale = ? AND tt.title = ?", locale, title).
		First(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (tr *trackRepo) FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, locale, title string, excludeID uuid.UUID) (*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var track types.Track
	if err := transaction.WithContext(ctx).
		Joins("JOIN track_translation tt ON tt.track_id = track.id").
		Where("tt.locale = ? AND tt.title = ? AND track.id <> ?", locale, title, excludeID).
		First(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (tr *trackRepo) FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Track, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Track{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tracks []*types.Track
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Preload("Courses").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tracks).Error; err != nil {
		return nil, 0, err
	}
	return tracks, total, nil
}

// Update rewrites the track row, its translation set and its course
// associations atomically. The track owns its edges; stale join rows must
// not survive the rewrite.
func (tr *trackRepo) Update(ctx context.Context, tx *gorm.DB, track *types.Track) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("track_id = ?", track.ID).Delete(&types.TrackTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Where("track_id = ?", track.ID).Delete(&types.TrackCourse{}).Error; err != nil {
			return err
		}
		if err := t.Omit("Translations", "Courses").Save(track).Error; err != nil {
			return err
		}
		for i := range track.Translations {
			track.Translations[i].ID = uuid.New()
			track.Translations[i].TrackID = track.ID
		}
		if err := t.Create(&track.Translations).Error; err != nil {
			return err
		}
		if len(track.Courses) == 0 {
			return nil
		}
		for i := range track.Courses {
			track.Courses[i].ID = uuid.New()
			track.Courses[i].TrackID = track.ID
		}
		return t.Create(&track.Courses).Error
	})
}

func (tr *trackRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("track_id = ?", id).Delete(&types.TrackTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Where("track_id = ?", id).Delete(&types.TrackCourse{}).Error; err != nil {
			return err
		}
		res := t.Where("id = ?", id).Delete(&types.Track{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CheckDependencies reports the courses still associated with this track;
// the caller must detach them before deletion.
func (tr *trackRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var courses []types.Course
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Joins("JOIN track_course tc ON tc.course_id = course.id").
		Where("tc.track_id = ?", id).
		Find(&courses).Error; err != nil {
		return nil, err
	}

	deps := []types.Dependency{}
	for _, c := range courses {
		deps = append(deps, types.Dependency{
			Type:           "course",
			ID:             c.ID.String(),
			Name:           courseName(c, locale),
			ActionRequired: "detach the course from this track first",
		})
	}
	return &types.DependencyReport{
		CanDelete:         len(deps) == 0,
		TotalDependencies: len(deps),
		Summary:           map[string]int{"courses": len(courses)},
		Dependencies:      deps,
	}, nil
}

func courseName(c types.Course, locale string) string {
	for _, t := range c.Translations {
		if t.Locale == locale {
			return t.Title
		}
	}
	return c.Slug
}
