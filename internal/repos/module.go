package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, module *types.Module) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error)
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Module, error)
	FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Module, error)
	FindByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Module, error)
	Update(ctx context.Context, tx *gorm.DB, module *types.Module) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	repoLog := baseLog.With("repo", "ModuleRepo")
	return &moduleRepo{db: db, log: repoLog}
}

func (mr *moduleRepo) Create(ctx context.Context, tx *gorm.DB, module *types.Module) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Create(module).Error
}

func (mr *moduleRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var module types.Module
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("id = ?", id).
		First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (mr *moduleRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var module types.Module
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("slug = ?", slug).
		First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (mr *moduleRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var module types.Module
	if err := transaction.WithContext(ctx).
		Where("slug = ? AND id <> ?", slug, excludeID).
		First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// FindByCourseID returns the full unpaginated set for the parent; the list
// composer filters and slices in memory.
func (mr *moduleRepo) FindByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Module, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var modules []*types.Module
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (mr *moduleRepo) Update(ctx context.Context, tx *gorm.DB, module *types.Module) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("module_id = ?", module.ID).Delete(&types.ModuleTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Omit("Translations").Save(module).Error; err != nil {
			return err
		}
		for i := range module.Translations {
			module.Translations[i].ID = uuid.New()
			module.Translations[i].ModuleID = module.ID
		}
		return t.Create(&module.Translations).Error
	})
}

func (mr *moduleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("module_id = ?", id).Delete(&types.ModuleTranslation{}).Error; err != nil {
			return err
		}
		res := t.Where("id = ?", id).Delete(&types.Module{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CheckDependencies lists the lessons still inside this module, with child
// counts so the caller can show what each lesson drags along.
func (mr *moduleRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var lessons []types.Lesson
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("module_id = ?", id).
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	deps := []types.Dependency{}
	for _, l := range lessons {
		var videoCount, documentCount, assessmentCount int64
		if err := transaction.WithContext(ctx).
			Model(&types.Video{}).
			Where("lesson_id = ?", l.ID).
			Count(&videoCount).Error; err != nil {
			return nil, err
		}
		if err := transaction.WithContext(ctx).
			Model(&types.Document{}).
			Where("lesson_id = ?", l.ID).
			Count(&documentCount).Error; err != nil {
			return nil, err
		}
		if err := transaction.WithContext(ctx).
			Model(&types.Assessment{}).
			Where("lesson_id = ?", l.ID).
			Count(&assessmentCount).Error; err != nil {
			return nil, err
		}
		deps = append(deps, types.Dependency{
			Type:           "lesson",
			ID:             l.ID.String(),
			Name:           lessonName(l, locale),
			ActionRequired: "delete or move the lessons in this module first",
			RelatedEntities: map[string]int{
				"videos":      int(videoCount),
				"documents":   int(documentCount),
				"assessments": int(assessmentCount),
			},
		})
	}

	return &types.DependencyReport{
		CanDelete:         len(deps) == 0,
		TotalDependencies: len(deps),
		Summary:           map[string]int{"lessons": len(lessons)},
		Dependencies:      deps,
	}, nil
}

func lessonName(l types.Lesson, locale string) string {
	for _, t := range l.Translations {
		if t.Locale == locale {
			return t.Title
		}
	}
	return l.Slug
}
