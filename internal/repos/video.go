package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type VideoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, video *types.Video) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Video, error)
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Video, error)
	FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Video, error)
	FindByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Video, error)
	Update(ctx context.Context, tx *gorm.DB, video *types.Video) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error)
}

type videoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	repoLog := baseLog.With("repo", "VideoRepo")
	return &videoRepo{db: db, log: repoLog}
}

func (vr *videoRepo) Create(ctx context.Context, tx *gorm.DB, video *types.Video) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).Create(video).Error
}

func (vr *videoRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var video types.Video
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("id = ?", id).
		First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (vr *videoRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var video types.Video
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("slug = ?", slug).
		First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (vr *videoRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var video types.Video
	if err := transaction.WithContext(ctx).
		Where("slug = ? AND id <> ?", slug, excludeID).
		First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (vr *videoRepo) FindByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Video, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var videos []*types.Video
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("lesson_id = ?", lessonID).
		Order("created_at DESC").
		Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (vr *videoRepo) Update(ctx context.Context, tx *gorm.DB, video *types.Video) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("video_id = ?", video.ID).Delete(&types.VideoTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Omit("Translations").Save(video).Error; err != nil {
			return err
		}
		for i := range video.Translations {
			video.Translations[i].ID = uuid.New()
			video.Translations[i].VideoID = video.ID
		}
		return t.Create(&video.Translations).Error
	})
}

func (vr *videoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("video_id = ?", id).Delete(&types.VideoTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Where("video_id = ?", id).Delete(&types.VideoLink{}).Error; err != nil {
			return err
		}
		res := t.Where("id = ?", id).Delete(&types.Video{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CheckDependencies: seen-records block deletion (viewer history must be
// kept consistent); external stream links block it too. Translations and
// links counts are also surfaced in summary for display.
func (vr *videoRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var seen []types.VideoSeen
	if err := transaction.WithContext(ctx).
		Where("video_id = ?", id).
		Find(&seen).Error; err != nil {
		return nil, err
	}
	var links []types.VideoLink
	if err := transaction.WithContext(ctx).
		Where("video_id = ?", id).
		Find(&links).Error; err != nil {
		return nil, err
	}
	var translationCount int64
	if err := transaction.WithContext(ctx).
		Model(&types.VideoTranslation{}).
		Where("video_id = ?", id).
		Count(&translationCount).Error; err != nil {
		return nil, err
	}

	deps := []types.Dependency{}
	for _, s := range seen {
		deps = append(deps, types.Dependency{
			Type:           "seen_record",
			ID:             s.ID.String(),
			Name:           "viewer " + s.ViewerID.String(),
			ActionRequired: "clear the viewing history for this video first",
		})
	}
	for _, l := range links {
		deps = append(deps, types.Dependency{
			Type:           "stream_link",
			ID:             l.ID.String(),
			Name:           l.StreamURL,
			ActionRequired: "remove the external stream links first",
		})
	}

	return &types.DependencyReport{
		CanDelete:         len(deps) == 0,
		TotalDependencies: len(deps),
		Summary: map[string]int{
			"seenRecords":  len(seen),
			"streamLinks":  len(links),
			"translations": int(translationCount),
		},
		Dependencies: deps,
	}, nil
}
