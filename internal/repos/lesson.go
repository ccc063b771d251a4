package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error)
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Lesson, error)
	FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Lesson, error)
	FindByModuleIDPaginated(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, limit, offset int) ([]*types.Lesson, int64, error)
	Update(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (lr *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).Create(lesson).Error
}

func (lr *lessonRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var lesson types.Lesson
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("id = ?", id).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (lr *lessonRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var lesson types.Lesson
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("slug = ?", slug).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (lr *lessonRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var lesson types.Lesson
	if err := transaction.WithContext(ctx).
		Where("slug = ? AND id <> ?", slug, excludeID).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindByModuleIDPaginated pages at the gateway: lessons under one module can
// grow large, so the composer takes this path instead of a full fetch.
func (lr *lessonRepo) FindByModuleIDPaginated(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, limit, offset int) ([]*types.Lesson, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("module_id = ?", moduleID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var lessons []*types.Lesson
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("module_id = ?", moduleID).
		Order("position ASC").
		Limit(limit).
		Offset(offset).
		Find(&lessons).Error; err != nil {
		return nil, 0, err
	}
	return lessons, total, nil
}

func (lr *lessonRepo) Update(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("lesson_id = ?", lesson.ID).Delete(&types.LessonTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Omit("Translations").Save(lesson).Error; err != nil {
			return err
		}
		for i := range lesson.Translations {
			lesson.Translations[i].ID = uuid.New()
			lesson.Translations[i].LessonID = lesson.ID
		}
		return t.Create(&lesson.Translations).Error
	})
}

func (lr *lessonRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("lesson_id = ?", id).Delete(&types.LessonTranslation{}).Error; err != nil {
			return err
		}
		res := t.Where("id = ?", id).Delete(&types.Lesson{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (lr *lessonRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var videos []types.Video
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("lesson_id = ?", id).
		Find(&videos).Error; err != nil {
		return nil, err
	}
	var documents []types.Document
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("lesson_id = ?", id).
		Find(&documents).Error; err != nil {
		return nil, err
	}
	var assessments []types.Assessment
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", id).
		Find(&assessments).Error; err != nil {
		return nil, err
	}

	deps := []types.Dependency{}
	for _, v := range videos {
		deps = append(deps, types.Dependency{
			Type:           "video",
			ID:             v.ID.String(),
			Name:           videoName(v, locale),
			ActionRequired: "delete or move the videos in this lesson first",
		})
	}
	for _, d := range documents {
		deps = append(deps, types.Dependency{
			Type:           "document",
			ID:             d.ID.String(),
			Name:           documentName(d, locale),
			ActionRequired: "delete the documents in this lesson first",
		})
	}
	for _, a := range assessments {
		deps = append(deps, types.Dependency{
			Type:           "assessment",
			ID:             a.ID.String(),
			Name:           a.Title,
			ActionRequired: "detach or delete the assessments in this lesson first",
		})
	}

	return &types.DependencyReport{
		CanDelete:         len(deps) == 0,
		TotalDependencies: len(deps),
		Summary: map[string]int{
			"videos":      len(videos),
			"documents":   len(documents),
			"assessments": len(assessments),
		},
		Dependencies: deps,
	}, nil
}

func videoName(v types.Video, locale string) string {
	for _, t := range v.Translations {
		if t.Locale == locale {
			return t.Title
		}
	}
	return v.Slug
}

func documentName(d types.Document, locale string) string {
	for _, t := range d.Translations {
		if t.Locale == locale {
			return t.Title
		}
	}
	return d.Filename
}
