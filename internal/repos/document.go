package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, document *types.Document) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error)
	FindByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Document, error)
	Update(ctx context.Context, tx *gorm.DB, document *types.Document) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (dr *documentRepo) Create(ctx context.Context, tx *gorm.DB, document *types.Document) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).Create(document).Error
}

func (dr *documentRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var document types.Document
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("id = ?", id).
		First(&document).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

func (dr *documentRepo) FindByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var documents []*types.Document
	if err := transaction.WithContext(ctx).
		Preload("Translations").
		Where("lesson_id = ?", lessonID).
		Order("created_at DESC").
		Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

func (dr *documentRepo) Update(ctx context.Context, tx *gorm.DB, document *types.Document) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("document_id = ?", document.ID).Delete(&types.DocumentTranslation{}).Error; err != nil {
			return err
		}
		if err := t.Omit("Translations").Save(document).Error; err != nil {
			return err
		}
		for i := range document.Translations {
			document.Translations[i].ID = uuid.New()
			document.Translations[i].DocumentID = document.ID
		}
		return t.Create(&document.Translations).Error
	})
}

func (dr *documentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		if err := t.Where("document_id = ?", id).Delete(&types.DocumentTranslation{}).Error; err != nil {
			return err
		}
		res := t.Where("id = ?", id).Delete(&types.Document{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CheckDependencies: nothing blocks document deletion; translations are
// part of the document and cascade away with it. They still show up in the
// summary so the report shape stays uniform across entity kinds.
func (dr *documentRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var translationCount int64
	if err := transaction.WithContext(ctx).
		Model(&types.DocumentTranslation{}).
		Where("document_id = ?", id).
		Count(&translationCount).Error; err != nil {
		return nil, err
	}
	return &types.DependencyReport{
		CanDelete:         true,
		TotalDependencies: 0,
		Summary:           map[string]int{"translations": int(translationCount)},
		Dependencies:      []types.Dependency{},
	}, nil
}
