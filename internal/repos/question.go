package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *types.Question) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error)
	FindByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Question, error)
	CreateOption(ctx context.Context, tx *gorm.DB, option *types.QuestionOption) error
	FindOptionsByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.QuestionOption, error)
	CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.Answer) error
	FindAnswerByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Answer, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (qr *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *types.Question) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).Create(question).Error
}

func (qr *questionRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var question types.Question
	if err := transaction.WithContext(ctx).
		Preload("Options").
		Preload("Answer").
		Preload("Answer.Translations").
		Where("id = ?", id).
		First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (qr *questionRepo) FindByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var questions []*types.Question
	if err := transaction.WithContext(ctx).
		Preload("Options").
		Preload("Answer").
		Where("assessment_id = ?", assessmentID).
		Order("created_at ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (qr *questionRepo) CreateOption(ctx context.Context, tx *gorm.DB, option *types.QuestionOption) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).Create(option).Error
}

func (qr *questionRepo) FindOptionsByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.QuestionOption, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var options []*types.QuestionOption
	if err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (qr *questionRepo) CreateAnswer(ctx context.Context, tx *gorm.DB, answer *types.Answer) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).Create(answer).Error
}

func (qr *questionRepo) FindAnswerByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var answer types.Answer
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("question_id = ?", questionID).
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}
