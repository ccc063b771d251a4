package services

import (
	"context"
	"strconv"

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

// DocumentTranslationInput extends the common translation tuple with the
// localized download URL.
type DocumentTranslationInput struct {
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type CreateDocumentInput struct {
	LessonID     uuid.UUID                  `json:"-"`
	Filename     string                     `json:"filename"`
	Translations []DocumentTranslationInput `json:"translations"`
}

type UpdateDocumentInput struct {
	ID           uuid.UUID                               `json:"-"`
	Filename     patch.Field[string]                     `json:"filename"`
	Translations patch.Field[[]DocumentTranslationInput] `json:"translations"`
}

type DocumentService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateDocumentInput) (*types.Document, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error)
	ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, page, limit int) ([]*types.Document, pagination.Page, error)
	Update(ctx context.Context, tx *gorm.DB, in UpdateDocumentInput) (*types.Document, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type documentService struct {
	db           *gorm.DB
	log          *logger.Logger
	locales      validation.LocaleSet
	documentRepo repos.DocumentRepo
	lessonRepo   repos.LessonRepo
}

func NewDocumentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	documentRepo repos.DocumentRepo,
	lessonRepo repos.LessonRepo,
) DocumentService {
	return &documentService{
		db:           db,
		log:          baseLog.With("service", "DocumentService"),
		locales:      locales,
		documentRepo: documentRepo,
		lessonRepo:   lessonRepo,
	}
}

func validateDocumentTranslations(ls validation.LocaleSet, ts []DocumentTranslationInput) []apperr.FieldIssue {
	tuples := make([]validation.Translation, 0, len(ts))
	for _, t := range ts {
		tuples = append(tuples, validation.Translation{Locale: t.Locale, Title: t.Title, Description: t.Description})
	}
	issues := validation.ValidateTranslations(ls, tuples)
	for i, t := range ts {
		if t.URL == "" {
			issues = append(issues, apperr.FieldIssue{
				Code:    "too-small",
				Message: "url must not be empty",
				Path:    []string{"translations", strconv.Itoa(i), "url"},
			})
		}
	}
	return issues
}


func (ds *documentService) Create(ctx context.Context, tx *gorm.DB, in CreateDocumentInput) (*types.Document, error) {
	if _, err := ds.lessonRepo.FindByID(ctx, tx, in.LessonID); err != nil {
		return nil, mapFindErr(err, "lesson")
	}

	issues := validateDocumentTranslations(ds.locales, in.Translations)
	if in.Filename == "" {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "filename must not be empty",
			Path:    []string{"filename"},
		})
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	document := &types.Document{
		ID:       uuid.New(),
		LessonID: in.LessonID,
		Filename: in.Filename,
	}
	for _, t := range in.Translations {
		document.Translations = append(document.Translations, types.DocumentTranslation{
			ID:          uuid.New(),
			DocumentID:  document.ID,
			Locale:      t.Locale,
			Title:       t.Title,
			Description: t.Description,
			URL:         t.URL,
		})
	}
	if err := ds.documentRepo.Create(ctx, tx, document); err != nil {
		return nil, apperr.Repository(err)
	}
	ds.log.Info("document created", "document_id", document.ID, "lesson_id", document.LessonID)
	return document, nil
}

func (ds *documentService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error) {
	document, err := ds.documentRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "document")
	}
	return document, nil
}

func (ds *documentService) ListByLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, page, limit int) ([]*types.Document, pagination.Page, error) {
	if _, err := ds.lessonRepo.FindByID(ctx, tx, lessonID); err != nil {
		return nil, pagination.Page{}, mapFindErr(err, "lesson")
	}
	documents, err := ds.documentRepo.FindByLessonID(ctx, tx, lessonID)
	if err != nil {
		return nil, pagination.Page{}, apperr.Repository(err)
	}
	page, limit = pagination.Clamp(page, limit)
	total := len(documents)
	return pagination.Slice(documents, page, limit), pagination.Build(page, limit, total), nil
}

func (ds *documentService) Update(ctx context.Context, tx *gorm.DB, in UpdateDocumentInput) (*types.Document, error) {
	document, err := ds.documentRepo.FindByID(ctx, tx, in.ID)
	if err != nil {
		return nil, mapFindErr(err, "document")
	}

	var issues []apperr.FieldIssue
	if in.Filename.Supplied() && in.Filename.Value() == "" {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "filename must not be empty",
			Path:    []string{"filename"},
		})
	}
	if in.Translations.Supplied() {
		issues = append(issues, validateDocumentTranslations(ds.locales, in.Translations.Value())...)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if !ds.detectChanges(document, in) {
		return nil, apperr.NotModified("document")
	}

	if in.Filename.Supplied() {
		document.Filename = in.Filename.Value()
	}
	if in.Translations.Supplied() {
		document.Translations = document.Translations[:0]
		for _, t := range in.Translations.Value() {
			document.Translations = append(document.Translations, types.DocumentTranslation{
				DocumentID:  document.ID,
				Locale:      t.Locale,
				Title:       t.Title,
				Description: t.Description,
				URL:         t.URL,
			})
		}
	}
	if err := ds.documentRepo.Update(ctx, tx, document); err != nil {
		return nil, apperr.Repository(err)
	}
	ds.log.Info("document updated", "document_id", document.ID)
	return document, nil
}

func (ds *documentService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return deleteGuard(ctx, "document",
		func(ctx context.Context) error {
			if _, err := ds.documentRepo.FindByID(ctx, tx, id); err != nil {
				return mapFindErr(err, "document")
			}
			return nil
		},
		func(ctx context.Context) (*types.DependencyReport, error) {
			return ds.documentRepo.CheckDependencies(ctx, tx, id, ds.locales.Master)
		},
		func(ctx context.Context) error {
			return ds.documentRepo.Delete(ctx, tx, id)
		},
	)
}

func (ds *documentService) detectChanges(document *types.Document, in UpdateDocumentInput) bool {
	if in.Filename.Supplied() && in.Filename.Value() != document.Filename {
		return true
	}
	if !in.Translations.Supplied() {
		return false
	}
	current := document.Translations
	proposed := in.Translations.Value()
	if len(proposed) != len(current) {
		return true
	}
	byLocale := make(map[string]types.DocumentTranslation, len(current))
	for _, t := range current {
		byLocale[t.Locale] = t
	}
	for _, p := range proposed {
		cur, ok := byLocale[p.Locale]
		if !ok || cur.Title != p.Title || cur.Description != p.Description || cur.URL != p.URL {
			return true
		}
	}
	return false
}
