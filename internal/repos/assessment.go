package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error)
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Assessment, error)
	FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Assessment, error)
	FindByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Assessment, error)
	FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, title string, excludeID uuid.UUID) (*types.Assessment, error)
	FindByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Assessment, error)
	FindAll(ctx context.Context, tx *gorm.DB) ([]*types.Assessment, error)
	FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Assessment, int64, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (ar *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Create(assessment).Error
}

func (ar *assessmentRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var assessment types.Assessment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (ar *assessmentRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var assessment types.Assessment
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (ar *assessmentRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var assessment types.Assessment
	if err := transaction.WithContext(ctx).
		Where("slug = ? AND id <> ?", slug, excludeID).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (ar *assessmentRepo) FindByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var assessment types.Assessment
	if err := transaction.WithContext(ctx).
		Where("title = ?", title).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (ar *assessmentRepo) FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, title string, excludeID uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var assessment types.Assessment
	if err := transaction.WithContext(ctx).
		Where("title = ? AND id <> ?", title, excludeID).
		First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (ar *assessmentRepo) FindByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var assessments []*types.Assessment
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (ar *assessmentRepo) FindAll(ctx context.Context, tx *gorm.DB) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var assessments []*types.Assessment
	if err := transaction.WithContext(ctx).
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (ar *assessmentRepo) FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Assessment, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Assessment{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var assessments []*types.Assessment
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&assessments).Error; err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}

func (ar *assessmentRepo) Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(assessment).Error
}

func (ar *assessmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Assessment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ar *assessmentRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var arguments []types.Argument
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", id).
		Find(&arguments).Error; err != nil {
		return nil, err
	}
	var questions []types.Question
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", id).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	var attempts []types.Attempt
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", id).
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	deps := []types.Dependency{}
	for _, a := range arguments {
		deps = append(deps, types.Dependency{
			Type:           "argument",
			ID:             a.ID.String(),
			Name:           a.Title,
			ActionRequired: "delete the arguments in this assessment first",
		})
	}
	for _, q := range questions {
		deps = append(deps, types.Dependency{
			Type:           "question",
			ID:             q.ID.String(),
			Name:           q.Text,
			ActionRequired: "delete the questions in this assessment first",
		})
	}
	for _, at := range attempts {
		deps = append(deps, types.Dependency{
			Type:           "attempt",
			ID:             at.ID.String(),
			Name:           "attempt " + at.ID.String(),
			ActionRequired: "attempts must be archived before the assessment can be removed",
		})
	}

	return &types.DependencyReport{
		CanDelete:         len(deps) == 0,
		TotalDependencies: len(deps),
		Summary: map[string]int{
			"arguments": len(arguments),
			"questions": len(questions),
			"attempts":  len(attempts),
		},
		Dependencies: deps,
	}, nil
}
