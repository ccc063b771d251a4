package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type ArgumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, argument *types.Argument) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Argument, error)
	FindByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Argument, error)
	FindByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Argument, error)
	Update(ctx context.Context, tx *gorm.DB, argument *types.Argument) error
}

type argumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArgumentRepo(db *gorm.DB, baseLog *logger.Logger) ArgumentRepo {
	repoLog := baseLog.With("repo", "ArgumentRepo")
	return &argumentRepo{db: db, log: repoLog}
}

func (ar *argumentRepo) Create(ctx context.Context, tx *gorm.DB, argument *types.Argument) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Create(argument).Error
}

func (ar *argumentRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Argument, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var argument types.Argument
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&argument).Error; err != nil {
		return nil, err
	}
	return &argument, nil
}

func (ar *argumentRepo) FindByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Argument, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var argument types.Argument
	if err := transaction.WithContext(ctx).
		Where("title = ?", title).
		First(&argument).Error; err != nil {
		return nil, err
	}
	return &argument, nil
}

func (ar *argumentRepo) FindByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Argument, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var arguments []*types.Argument
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at DESC").
		Find(&arguments).Error; err != nil {
		return nil, err
	}
	return arguments, nil
}

func (ar *argumentRepo) Update(ctx context.Context, tx *gorm.DB, argument *types.Argument) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(argument).Error
}
