package services

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/pagination"
	"github.com/cursolab/ead-backend/internal/patch"
	"github.com/cursolab/ead-backend/internal/repos"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

type CreateAssessmentInput struct {
	Slug               string     `json:"slug"`
	Title              string     `json:"title"`
	Description        *string    `json:"description"`
	Type               string     `json:"type"`
	QuizPosition       *string    `json:"quizPosition"`
	PassingScore       *int       `json:"passingScore"`
	TimeLimitInMinutes *int       `json:"timeLimitInMinutes"`
	RandomizeQuestions bool       `json:"randomizeQuestions"`
	RandomizeOptions   bool       `json:"randomizeOptions"`
	LessonID           *uuid.UUID `json:"lessonId"`
}

type UpdateAssessmentInput struct {
	ID                 uuid.UUID               `json:"-"`
	Slug               patch.Field[string]     `json:"slug"`
	Title              patch.Field[string]     `json:"title"`
	Description        patch.Field[*string]    `json:"description"`
	Type               patch.Field[string]     `json:"type"`
	QuizPosition       patch.Field[*string]    `json:"quizPosition"`
	PassingScore       patch.Field[*int]       `json:"passingScore"`
	TimeLimitInMinutes patch.Field[*int]       `json:"timeLimitInMinutes"`
	RandomizeQuestions patch.Field[bool]       `json:"randomizeQuestions"`
	RandomizeOptions   patch.Field[bool]       `json:"randomizeOptions"`
	LessonID           patch.Field[*uuid.UUID] `json:"lessonId"`
}

// ListAssessmentsFilter selects the retrieval path: a lesson scope pulls the
// full child set into memory, while a bare type filter pages globally and
// recounts against the full set.
type ListAssessmentsFilter struct {
	LessonID *uuid.UUID
	Type     *string
}

type AssessmentService interface {
	Create(ctx context.Context, tx *gorm.DB, in CreateAssessmentInput) (*types.Assessment, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error)
	List(ctx context.Context, tx *gorm.DB, filter ListAssessmentsFilter, page, limit int) ([]*types.Assessment, pagination.Page, error)
	Update(ctx context.Context, tx *gorm.DB, in UpdateAssessmentInput) (*types.Assessment, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type assessmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	locales        validation.LocaleSet
	assessmentRepo repos.AssessmentRepo
	lessonRepo     repos.LessonRepo
}

func NewAssessmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locales validation.LocaleSet,
	assessmentRepo repos.AssessmentRepo,
	lessonRepo repos.LessonRepo,
) AssessmentService {
	return &assessmentService{
		db:             db,
		log:            baseLog.With("service", "AssessmentService"),
		locales:        locales,
		assessmentRepo: assessmentRepo,
		lessonRepo:     lessonRepo,
	}
}

func validAssessmentType(t string) bool {
	return t == types.AssessmentTypeQuiz || t == types.AssessmentTypeSimulado || t == types.AssessmentTypeOpenEnded
}

// validateAssessmentRules enforces the type-conditional field rules shared
// by create and update.
func validateAssessmentRules(a *types.Assessment) []apperr.FieldIssue {
	var issues []apperr.FieldIssue
	if !validAssessmentType(a.Type) {
		issues = append(issues, apperr.FieldIssue{
			Code:    "invalid-type",
			Message: "type must be one of QUIZ, SIMULADO, OPEN_ENDED",
			Path:    []string{"type"},
		})
		return issues
	}
	if a.Type == types.AssessmentTypeQuiz {
		if a.QuizPosition == nil {
			issues = append(issues, apperr.FieldIssue{
				Code:    "missing-quiz-position",
				Message: "QUIZ assessments require a quizPosition",
				Path:    []string{"quizPosition"},
			})
		} else if *a.QuizPosition != types.QuizPositionBeforeLesson && *a.QuizPosition != types.QuizPositionAfterLesson {
			issues = append(issues, apperr.FieldIssue{
				Code:    "invalid-quiz-position",
				Message: "quizPosition must be BEFORE_LESSON or AFTER_LESSON",
				Path:    []string{"quizPosition"},
			})
		}
	} else if a.QuizPosition != nil {
		issues = append(issues, apperr.FieldIssue{
			Code:    "invalid-quiz-position",
			Message: "quizPosition is only allowed for QUIZ assessments",
			Path:    []string{"quizPosition"},
		})
	}
	if a.Type != types.AssessmentTypeSimulado && a.TimeLimitInMinutes != nil {
		issues = append(issues, apperr.FieldIssue{
			Code:    "invalid-time-limit",
			Message: "timeLimitInMinutes is only allowed for SIMULADO assessments",
			Path:    []string{"timeLimitInMinutes"},
		})
	}
	if a.Type != types.AssessmentTypeOpenEnded {
		if a.PassingScore == nil {
			issues = append(issues, apperr.FieldIssue{
				Code:    "missing-passing-score",
				Message: "passingScore is required for QUIZ and SIMULADO assessments",
				Path:    []string{"passingScore"},
			})
		} else if *a.PassingScore < 0 || *a.PassingScore > 100 {
			issues = append(issues, apperr.FieldIssue{
				Code:    "invalid-passing-score",
				Message: "passingScore must be between 0 and 100",
				Path:    []string{"passingScore"},
			})
		}
	}
	if len([]rune(a.Title)) < 3 {
		issues = append(issues, apperr.FieldIssue{
			Code:    "too-small",
			Message: "title must be at least 3 characters long",
			Path:    []string{"title"},
		})
	}
	return issues
}

func (as *assessmentService) Create(ctx context.Context, tx *gorm.DB, in CreateAssessmentInput) (*types.Assessment, error) {
	slug, slugIssue := validation.NormalizeSlug(in.Slug)
	assessment := &types.Assessment{
		ID:                 uuid.New(),
		Slug:               slug,
		Title:              in.Title,
		Description:        in.Description,
		Type:               in.Type,
		QuizPosition:       in.QuizPosition,
		PassingScore:       in.PassingScore,
		TimeLimitInMinutes: in.TimeLimitInMinutes,
		RandomizeQuestions: in.RandomizeQuestions,
		RandomizeOptions:   in.RandomizeOptions,
		LessonID:           in.LessonID,
	}
	issues := validateAssessmentRules(assessment)
	if slugIssue != nil {
		issues = append(issues, *slugIssue)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if in.LessonID != nil {
		if _, err := as.lessonRepo.FindByID(ctx, tx, *in.LessonID); err != nil {
			return nil, mapFindErr(err, "lesson")
		}
	}

	if _, err := as.assessmentRepo.FindByTitle(ctx, tx, in.Title); err == nil {
		return nil, apperr.Duplicate("assessment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}
	if _, err := as.assessmentRepo.FindBySlug(ctx, tx, slug); err == nil {
		return nil, apperr.Duplicate("assessment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Repository(err)
	}

	if err := as.assessmentRepo.Create(ctx, tx, assessment); err != nil {
		return nil, apperr.Repository(err)
	}
	as.log.Info("assessment created", "assessment_id", assessment.ID, "type", assessment.Type)
	return assessment, nil
}

func (as *assessmentService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	assessment, err := as.assessmentRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, mapFindErr(err, "assessment")
	}
	return assessment, nil
}

// List implements the dual retrieval strategy. With a lesson scope the full
// child set is fetched and filtered, sorted and sliced in memory. Without
// one, a single page comes from the gateway; a type filter then forces a
// recount against the full set so totals stay consistent with the filter.
// The recount runs concurrently with the page fetch on the pooled handle
// only; a transaction is bound to one connection and stays sequential.
func (as *assessmentService) List(ctx context.Context, tx *gorm.DB, filter ListAssessmentsFilter, page, limit int) ([]*types.Assessment, pagination.Page, error) {
	page, limit = pagination.Clamp(page, limit)

	if filter.LessonID != nil {
		if _, err := as.lessonRepo.FindByID(ctx, tx, *filter.LessonID); err != nil {
			return nil, pagination.Page{}, mapFindErr(err, "lesson")
		}
		scoped, err := as.assessmentRepo.FindByLessonID(ctx, tx, *filter.LessonID)
		if err != nil {
			return nil, pagination.Page{}, apperr.Repository(err)
		}
		filtered := filterAssessmentsByType(scoped, filter.Type)
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
		total := len(filtered)
		return pagination.Slice(filtered, page, limit), pagination.Build(page, limit, total), nil
	}

	var (
		items         []*types.Assessment
		total         int64
		filteredTotal int
	)
	fetchPage := func(ctx context.Context) error {
		var err error
		items, total, err = as.assessmentRepo.FindAllPaginated(ctx, tx, limit, pagination.Offset(page, limit))
		return err
	}
	recount := func(ctx context.Context) error {
		all, err := as.assessmentRepo.FindAll(ctx, tx)
		if err != nil {
			return err
		}
		filteredTotal = len(filterAssessmentsByType(all, filter.Type))
		return nil
	}

	if tx == nil && filter.Type != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return fetchPage(gctx) })
		g.Go(func() error { return recount(gctx) })
		if err := g.Wait(); err != nil {
			return nil, pagination.Page{}, apperr.Repository(err)
		}
	} else {
		if err := fetchPage(ctx); err != nil {
			return nil, pagination.Page{}, apperr.Repository(err)
		}
		if filter.Type != nil {
			if err := recount(ctx); err != nil {
				return nil, pagination.Page{}, apperr.Repository(err)
			}
		}
	}

	if filter.Type != nil {
		items = filterAssessmentsByType(items, filter.Type)
		return items, pagination.Build(page, limit, filteredTotal), nil
	}
	return items, pagination.Build(page, limit, int(total)), nil
}

func filterAssessmentsByType(items []*types.Assessment, t *string) []*types.Assessment {
	if t == nil {
		return items
	}
	filtered := make([]*types.Assessment, 0, len(items))
	for _, a := range items {
		if a.Type == *t {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func (as *assessmentService) Update(ctx context.Context, tx *gorm.DB, in UpdateAssessmentInput) (*types.Assessment, error) {
	assessment, err := as.assessmentRepo.FindByID(ctx, tx, in.ID)
	if err != nil {
		return nil, mapFindErr(err, "assessment")
	}

	proposed := *assessment
	var issues []apperr.FieldIssue
	if in.Slug.Supplied() {
		normalized, issue := validation.NormalizeSlug(in.Slug.Value())
		if issue != nil {
			issues = append(issues, *issue)
		} else {
			proposed.Slug = normalized
		}
	}
	if in.Title.Supplied() {
		proposed.Title = in.Title.Value()
	}
	if in.Description.Supplied() {
		proposed.Description = in.Description.Value()
	}
	if in.Type.Supplied() {
		proposed.Type = in.Type.Value()
	}
	if in.QuizPosition.Supplied() {
		proposed.QuizPosition = in.QuizPosition.Value()
	}
	if in.PassingScore.Supplied() {
		proposed.PassingScore = in.PassingScore.Value()
	}
	if in.TimeLimitInMinutes.Supplied() {
		proposed.TimeLimitInMinutes = in.TimeLimitInMinutes.Value()
	}
	if in.RandomizeQuestions.Supplied() {
		proposed.RandomizeQuestions = in.RandomizeQuestions.Value()
	}
	if in.RandomizeOptions.Supplied() {
		proposed.RandomizeOptions = in.RandomizeOptions.Value()
	}
	if in.LessonID.Supplied() {
		proposed.LessonID = in.LessonID.Value()
	}

	issues = append(issues, validateAssessmentRules(&proposed)...)
	if len(issues) > 0 {
		return nil, apperr.Validation(issues)
	}

	if !assessmentChanged(assessment, &proposed) {
		return nil, apperr.NotModified("assessment")
	}

	if in.LessonID.Supplied() && proposed.LessonID != nil {
		if _, err := as.lessonRepo.FindByID(ctx, tx, *proposed.LessonID); err != nil {
			return nil, mapFindErr(err, "lesson")
		}
	}
	if proposed.Slug != assessment.Slug {
		if _, err := as.assessmentRepo.FindBySlugExcludingID(ctx, tx, proposed.Slug, assessment.ID); err == nil {
			return nil, apperr.Duplicate("assessment")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Repository(err)
		}
	}
	if proposed.Title != assessment.Title {
		if _, err := as.assessmentRepo.FindByTitleExcludingID(ctx, tx, proposed.Title, assessment.ID); err == nil {
			return nil, apperr.Duplicate("assessment")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Repository(err)
		}
	}

	if err := as.assessmentRepo.Update(ctx, tx, &proposed); err != nil {
		return nil, apperr.Repository(err)
	}
	as.log.Info("assessment updated", "assessment_id", proposed.ID)
	return &proposed, nil
}

func (as *assessmentService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return deleteGuard(ctx, "assessment",
		func(ctx context.Context) error {
			if _, err := as.assessmentRepo.FindByID(ctx, tx, id); err != nil {
				return mapFindErr(err, "assessment")
			}
			return nil
		},
		func(ctx context.Context) (*types.DependencyReport, error) {
			return as.assessmentRepo.CheckDependencies(ctx, tx, id, as.locales.Master)
		},
		func(ctx context.Context) error {
			return as.assessmentRepo.Delete(ctx, tx, id)
		},
	)
}

func assessmentChanged(current, proposed *types.Assessment) bool {
	if current.Slug != proposed.Slug || current.Title != proposed.Title || current.Type != proposed.Type {
		return true
	}
	if strPtrDiffers(current.Description, proposed.Description) {
		return true
	}
	if strPtrDiffers(current.QuizPosition, proposed.QuizPosition) {
		return true
	}
	if intPtrDiffers(current.PassingScore, proposed.PassingScore) {
		return true
	}
	if intPtrDiffers(current.TimeLimitInMinutes, proposed.TimeLimitInMinutes) {
		return true
	}
	if current.RandomizeQuestions != proposed.RandomizeQuestions || current.RandomizeOptions != proposed.RandomizeOptions {
		return true
	}
	if uuidPtrDiffers(current.LessonID, proposed.LessonID) {
		return true
	}
	return false
}

func intPtrDiffers(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return true
	}
	return a != nil && *a != *b
}
