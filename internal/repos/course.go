package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, course *types.Course) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Course, error)
	FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Course, error)
	FindByTitle(ctx context.Context, tx *gorm.DB, locale, title string) (*types.Course, error)
	FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, locale, title string, excludeID uuid.UUID) (*types.Course, error)
	FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Course, int64, error)
	Update(ctx context.Context, tx *gorm.DB, course *types.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Create(course).Error
}

func (cr *courseRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var course types.Course
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("id = ?", id).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var course types.Course
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("slug = ?", slug).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var course types.Course
	if err := transaction.WithContext(ctx).
		Where("slug = ? AND id <> ?", slug, excludeID).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) FindByTitle(ctx context.Context, tx *gorm.DB, locale, title string) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var course types.Course
	if err := transaction.WithContext(ctx).
		Joins("JOIN course_translation ct ON ct.course_id = course.id").
		Where("ct.locale = ? AND ct.title = ?", locale, title).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, locale, title string, excludeID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var course types.Course
	if err := transaction.WithContext(ctx).
		Joins("JOIN course_translation ct ON ct.course_id = course.id").
		Where("ct.locale = ? AND ct.title = ? AND course.id <> ?", locale, title, excludeID).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Course, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Course{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var courses []*types.Course
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// Update rewrites the course row and replaces its translation set in one
// transaction; partial translation rows are never left behind.
func (cr *courseRepo) Update(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("course_id = ?", course.ID).Delete(&types.CourseTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Omit("Translations").Save(course).Error; err != nil {
			return err
		}
		for i := range course.Translations {
			course.Translations[i].ID = uuid.New()
			course.Translations[i].CourseID = course.ID
		}
		return t.Create(&course.Translations).Error
	})
}

func (cr *courseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("course_id = ?", id).Delete(&types.CourseTranslation{}).Error; err != nil {
			return err
		}
		res := t.Where("id = ?", id).Delete(&types.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CheckDependencies enumerates everything that blocks deleting this course:
// its modules and the track associations that still point at it. Any lookup
// error aborts the analysis; no partial report is returned.
func (cr *courseRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var modules []types.Module
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("course_id = ?", id).
		Find(&modules).Error; err != nil {
		return nil, err
	}

	lessonCounts := map[uuid.UUID]int{}
	if len(modules) > 0 {
		moduleIDs := make([]uuid.UUID, 0, len(modules))
		for _, m := range modules {
			moduleIDs = append(moduleIDs, m.ID)
		}
		var rows []struct {
			ModuleID uuid.UUID
			N        int
		}
		if err := transaction.WithContext(ctx).
			Model(&types.Lesson{}).
			Select("module_id, COUNT(*) AS n").
			Where("module_id IN ?", moduleIDs).
			Group("module_id").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			lessonCounts[r.ModuleID] = r.N
		}
	}

	var tracks []types.Track
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Joins("JOIN track_course tc ON tc.track_id = track.id").
		Where("tc.course_id = ?", id).
		Find(&tracks).Error; err != nil {
		return nil, err
	}

	deps := []types.Dependency{}
	for _, m := range modules {
		deps = append(deps, types.Dependency{
			Type:           "module",
			ID:             m.ID.String(),
			Name:           moduleName(m, locale),
			ActionRequired: "delete or move the modules in this course first",
			RelatedEntities: map[string]int{
				"lessons": lessonCounts[m.ID],
			},
		})
	}
	for _, t := range tracks {
		deps = append(deps, types.Dependency{
			Type:           "track",
			ID:             t.ID.String(),
			Name:           trackName(t, locale),
			ActionRequired: "detach this course from the track first",
		})
	}

	return &types.DependencyReport{
		CanDelete:         len(deps) == 0,
		TotalDependencies: len(deps),
		Summary: map[string]int{
			"modules": len(modules),
			"tracks":  len(tracks),
		},
		Dependencies: deps,
	}, nil
}

func moduleName(m types.Module, locale string) string {
	for _, t := range m.Translations {
		if t.Locale == locale {
			return t.Title
		}
	}
	return m.Slug
}

func trackName(t types.Track, locale string) string {
	for _, tr := range t.Translations {
		if tr.Locale == locale {
			return tr.Title
		}
	}
	return t.Slug
}
