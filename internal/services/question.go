package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/repos"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

type CreateArgumentInput struct {
	Title        string     `json:"title"`
	AssessmentID *uuid.UUID `json:"assessmentId"`
}

type CreateQuestionInput struct {
	AssessmentID uuid.UUID  `json:"-"`
	Text         string     `json:"text"`
	Type         string     `json:"type"`
	ArgumentID   *uuid.UUID `json:"argumentId"`
}

type CreateOptionInput struct {
	QuestionID uuid.UUID `json:"-"`
	Text       string    `json:"text"`
}

type AnswerTranslationInput struct {
	Locale      string `json:"locale"`
	Explanation string `json:"explanation"`
}

type CreateAnswerInput struct {
	QuestionID      uuid.UUID                `json:"-"`
	CorrectOptionID *uuid.UUID               `json:"correctOptionId"`
	Explanation     string                   `json:"explanation"`
	Translations    []AnswerTranslationInput `json:"translations"`
}

type QuestionService interface {
	CreateArgument(ctx context.Context, tx *gorm.DB, in CreateArgumentInput) (*types.Argument, error)
	GetArgument(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Argument, error)
	ListArguments(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Argument, error)
	CreateQuestion(ctx context.Context, tx *gorm.DB, in CreateQuestionInput) (*types.Question, error)
	GetQuestion(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error)
	ListQuestions(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Question, error)
	CreateOption(ctx context.Context, tx *gorm.DB, in CreateOptionInput) (*types.QuestionOption, error)
	ListOptions(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.QuestionOption, error)
	CreateAnswer(ctx context.Context, tx *gorm.DB, in CreateAnswerInput) (*types.Answer, error)
	GetAnswer(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Answer, error)
}

type questionService struct {
	db             *gorm.DB
	log            *logger.Logger
	locales        validation.LocaleSet
	questionRepo   repos.QuestionRepo
	argumentRepo   repos.ArgumentRepo
	assessmentRepo repos.AssessmentRepo
}

func NewQuestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	questionRepo repos.QuestionRepo,
	argumentRepo repos.ArgumentRepo,
	assessmentRepo repos.AssessmentRepo,
) QuestionService {
	return &questionService{
		db:             db,
		log:            baseLog.With("service", "QuestionService"),
		locales:        locales,
		questionRepo:   questionRepo,
		argumentRepo:   argumentRepo,
		assessmentRepo: assessmentRepo,
	}
}

func (qs *questionService) CreateArgument(ctx context.Context, tx *gorm.DB, in CreateArgumentInput) (*types.Argument, error) {
	if len([]rune(in.Title)) < 3 {
		return nil, apperr.Validation([]apperr.FieldIssue{{
			Code:    "too-small",
			Message: "title must be at least 3 characters long",
			Path:    []string{"title"},
		}})
	}
	if in.AssessmentID != nil {
		if _, err := qs.assessmentRepo.FindByID(ctx, tx, *in.AssessmentID); err != nil {
			return nil, mapFindErr(err, "assessment")
		}
	}
	if _, err := qs.argumentRepo.FindByTitle(ctx, tx, in.Title); err == nil {
		return nil, apperr.Duplicate("argument")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	argument := &types.Argument{
		ID:           uuid.New(),
		Title:        in.Title,
		AssessmentID: in.AssessmentID,
	}
	if err := qs.argumentRepo.Create(ctx, tx, argument); err != nil {
		return nil, apperr.Repository(err)
	}
	qs.log.Info("argument created", "argument_id", argument.ID)
	return argument, nil
}

func (qs *questionService) GetArgument(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Argument, error) {
	argument, err := qs.argumentRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "argument")
	}
	return argument, nil
}

func (qs *questionService) ListArguments(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Argument, error) {
	if _, err := qs.assessmentRepo.FindByID(ctx, tx, assessmentID); err != nil {
		return nil, mapFindErr(err, "assessment")
	}
	arguments, err := qs.argumentRepo.FindByAssessmentID(ctx, tx, assessmentID)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	return arguments, nil
}

// questionTypeFor maps the owning assessment's type to the only question
// type it accepts.
func questionTypeFor(assessmentType string) string {
	if assessmentType == types.AssessmentTypeOpenEnded {
		return types.QuestionTypeOpen
	}
	return types.QuestionTypeMultipleChoice
}

func (qs *questionService) CreateQuestion(ctx context.Context, tx *gorm.DB, in CreateQuestionInput) (*types.Question, error) {
	if len([]rune(in.Text)) < 10 {
		return nil, apperr.Validation([]apperr.FieldIssue{{
			Code:    "too-small",
			Message: "text must be at least 10 characters long",
			Path:    []string{"text"},
		}})
	}

	assessment, err := qs.assessmentRepo.FindByID(ctx, tx, in.AssessmentID)
	if err != nil {
		return nil, mapFindErr(err, "assessment")
	}

	if expected := questionTypeFor(assessment.Type); in.Type != expected {
		return nil, apperr.Validation([]apperr.FieldIssue{{
			Code:    "question-type-mismatch",
			Message: assessment.Type + " assessments only accept " + expected + " questions",
			Path:    []string{"type"},
		}})
	}

	if in.ArgumentID != nil {
		if _, err := qs.argumentRepo.FindByID(ctx, tx, *in.ArgumentID); err != nil {
			return nil, mapFindErr(err, "argument")
		}
	}

	question := &types.Question{
		ID:           uuid.New(),
		Text:         in.Text,
		Type:         in.Type,
		AssessmentID: in.AssessmentID,
		ArgumentID:   in.ArgumentID,
	}
	if err := qs.questionRepo.Create(ctx, tx, question); err != nil {
		return nil, apperr.Repository(err)
	}
	qs.log.Info("question created", "question_id", question.ID, "assessment_id", question.AssessmentID)
	return question, nil
}

func (qs *questionService) GetQuestion(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error) {
	question, err := qs.questionRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "question")
	}
	return question, nil
}

func (qs *questionService) ListQuestions(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Question, error) {
	if _, err := qs.assessmentRepo.FindByID(ctx, tx, assessmentID); err != nil {
		return nil, mapFindErr(err, "assessment")
	}
	questions, err := qs.questionRepo.FindByAssessmentID(ctx, tx, assessmentID)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	return questions, nil
}

func (qs *questionService) CreateOption(ctx context.Context, tx *gorm.DB, in CreateOptionInput) (*types.QuestionOption, error) {
	if in.Text == "" {
		return nil, apperr.Validation([]apperr.FieldIssue{{
			Code:    "too-small",
			Message: "text must not be empty",
			Path:    []string{"text"},
		}})
	}
	if _, err := qs.questionRepo.FindByID(ctx, tx, in.QuestionID); err != nil {
		return nil, mapFindErr(err, "question")
	}

	option := &types.QuestionOption{
		ID:         uuid.New(),
		QuestionID: in.QuestionID,
		Text:       in.Text,
	}
	if err := qs.questionRepo.CreateOption(ctx, tx, option); err != nil {
		return nil, apperr.Repository(err)
	}
	return option, nil
}

func (qs *questionService) ListOptions(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.QuestionOption, error) {
	if _, err := qs.questionRepo.FindByID(ctx, tx, questionID); err != nil {
		return nil, mapFindErr(err, "question")
	}
	options, err := qs.questionRepo.FindOptionsByQuestionID(ctx, tx, questionID)
	if err != nil {
		return nil, apperr.Repository(err)
	}
	return options, nil
}

func (qs *questionService) CreateAnswer(ctx context.Context, tx *gorm.DB, in CreateAnswerInput) (*types.Answer, error) {
	if in.Explanation == "" {
		return nil, apperr.Validation([]apperr.FieldIssue{{
			Code:    "too-small",
			Message: "explanation must not be empty",
			Path:    []string{"explanation"},
		}})
	}

	question, err := qs.questionRepo.FindByID(ctx, tx, in.QuestionID)
	if err != nil {
		return nil, mapFindErr(err, "question")
	}

	// Multiple-choice questions need a correct option that actually belongs
	// to them; open questions take none.
	if question.Type == types.QuestionTypeMultipleChoice {
		if in.CorrectOptionID == nil {
			return nil, apperr.Validation([]apperr.FieldIssue{{
				Code:    "missing-correct-option",
				Message: "MULTIPLE_CHOICE questions require a correctOptionId",
				Path:    []string{"correctOptionId"},
			}})
		}
		options, err := qs.questionRepo.FindOptionsByQuestionID(ctx, tx, in.QuestionID)
		if err != nil {
			return nil, apperr.Repository(err)
		}
		found := false
		for _, opt := range options {
			if opt.ID == *in.CorrectOptionID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.Validation([]apperr.FieldIssue{{
				Code:    "invalid-correct-option",
				Message: "correctOptionId does not belong to this question",
				Path:    []string{"correctOptionId"},
			}})
		}
	} else if in.CorrectOptionID != nil {
		return nil, apperr.Validation([]apperr.FieldIssue{{
			Code:    "invalid-correct-option",
			Message: "OPEN questions take no correctOptionId",
			Path:    []string{"correctOptionId"},
		}})
	}

	if _, err := qs.questionRepo.FindAnswerByQuestionID(ctx, tx, in.QuestionID); err == nil {
		return nil, apperr.Duplicate("answer")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	answer := &types.Answer{
		ID:              uuid.New(),
		QuestionID:      in.QuestionID,
		CorrectOptionID: in.CorrectOptionID,
		Explanation:     in.Explanation,
	}
	seen := map[string]bool{}
	for _, t := range in.Translations {
		if !qs.locales.Allows(t.Locale) || seen[t.Locale] {
			return nil, apperr.Validation([]apperr.FieldIssue{{
				Code:    "invalid-locale",
				Message: "translations must use unique, supported locales",
				Path:    []string{"translations"},
			}})
		}
		seen[t.Locale] = true
		answer.Translations = append(answer.Translations, types.AnswerTranslation{
			ID:          uuid.New(),
			AnswerID:    answer.ID,
			Locale:      t.Locale,
			Explanation: t.Explanation,
		})
	}
	if err := qs.questionRepo.CreateAnswer(ctx, tx, answer); err != nil {
		return nil, apperr.Repository(err)
	}
	qs.log.Info("answer created", "answer_id", answer.ID, "question_id", answer.QuestionID)
	return answer, nil
}

func (qs *questionService) GetAnswer(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Answer, error) {
	answer, err := qs.questionRepo.FindAnswerByQuestionID(ctx, tx, questionID)
	if err != nil {
		return nil, mapFindErr(err, "answer")
	}
	return answer, nil
}
