package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/patch"
	"github.com/cursolab/ead-backend/internal/types"
)

type fakeAssessmentRepo struct {
	assessments map[uuid.UUID]*types.Assessment
	deps        map[uuid.UUID]*types.DependencyReport
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		assessments: map[uuid.UUID]*types.Assessment{},
		deps:        map[uuid.UUID]*types.DependencyReport{},
	}
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, a *types.Assessment) error {
	cp := *a
	f.assessments[a.ID] = &cp
	return nil
}

func (f *fakeAssessmentRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssessmentRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Assessment, error) {
	return f.FindBySlugExcludingID(ctx, tx, slug, uuid.Nil)
}

func (f *fakeAssessmentRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Assessment, error) {
	for _, a := range f.assessments {
		if a.Slug == slug && a.ID != excludeID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssessmentRepo) FindByTitle(ctx context.Context, tx *gorm.DB, title string) (*types.Assessment, error) {
	return f.FindByTitleExcludingID(ctx, tx, title, uuid.Nil)
}

func (f *fakeAssessmentRepo) FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, title string, excludeID uuid.UUID) (*types.Assessment, error) {
	for _, a := range f.assessments {
		if a.Title == title && a.ID != excludeID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssessmentRepo) FindByLessonID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) ([]*types.Assessment, error) {
	var out []*types.Assessment
	for _, a := range f.assessments {
		if a.LessonID != nil && *a.LessonID == lessonID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) FindAll(ctx context.Context, tx *gorm.DB) ([]*types.Assessment, error) {
	out := make([]*types.Assessment, 0, len(f.assessments))
	for _, a := range f.assessments {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeAssessmentRepo) FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Assessment, int64, error) {
	all, _ := f.FindAll(ctx, tx)
	total := int64(len(all))
	if offset >= len(all) {
		return []*types.Assessment{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeAssessmentRepo) Update(ctx context.Context, tx *gorm.DB, a *types.Assessment) error {
	cp := *a
	f.assessments[a.ID] = &cp
	return nil
}

func (f *fakeAssessmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if _, ok := f.assessments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.assessments, id)
	return nil
}

func (f *fakeAssessmentRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	if r, ok := f.deps[id]; ok {
		return r, nil
	}
	return &types.DependencyReport{CanDelete: true, Summary: map[string]int{}}, nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func newAssessmentHarness() (AssessmentService, *fakeAssessmentRepo, *fakeLessonRepo) {
	aRepo := newFakeAssessmentRepo()
	lRepo := newFakeLessonRepo()
	svc := NewAssessmentService(nil, testLogger(), testLocales, aRepo, lRepo)
	return svc, aRepo, lRepo
}

func seedLesson(lRepo *fakeLessonRepo) uuid.UUID {
	id := uuid.New()
	lRepo.lessons[id] = &types.Lesson{ID: id, Slug: "aula-" + id.String()[:8], ModuleID: uuid.New()}
	return id
}

func seedAssessment(aRepo *fakeAssessmentRepo, title, typ string, lessonID *uuid.UUID, createdAt time.Time) *types.Assessment {
	a := &types.Assessment{
		ID:        uuid.New(),
		Slug:      "prova-" + uuid.NewString()[:8],
		Title:     title,
		Type:      typ,
		LessonID:  lessonID,
		CreatedAt: createdAt,
	}
	if typ == types.AssessmentTypeQuiz {
		a.QuizPosition = strPtr(types.QuizPositionAfterLesson)
		a.PassingScore = intPtr(70)
	}
	if typ == types.AssessmentTypeSimulado {
		a.PassingScore = intPtr(60)
	}
	aRepo.assessments[a.ID] = a
	return a
}

func TestValidateAssessmentRules(t *testing.T) {
	cases := []struct {
		name      string
		a         types.Assessment
		wantCodes []string
	}{
		{
			name: "valid quiz",
			a: types.Assessment{
				Title: "Prova Final", Type: types.AssessmentTypeQuiz,
				QuizPosition: strPtr(types.QuizPositionBeforeLesson), PassingScore: intPtr(70),
			},
		},
		{
			name: "valid simulado with time limit",
			a: types.Assessment{
				Title: "Simulado Nacional", Type: types.AssessmentTypeSimulado,
				PassingScore: intPtr(50), TimeLimitInMinutes: intPtr(90),
			},
		},
		{
			name: "valid open ended",
			a:    types.Assessment{Title: "Redação", Type: types.AssessmentTypeOpenEnded},
		},
		{
			name:      "unknown type short-circuits",
			a:         types.Assessment{Title: "Prova", Type: "EXAM"},
			wantCodes: []string{"invalid-type"},
		},
		{
			name:      "quiz without position or score",
			a:         types.Assessment{Title: "Prova", Type: types.AssessmentTypeQuiz},
			wantCodes: []string{"missing-quiz-position", "missing-passing-score"},
		},
		{
			name: "quiz with bad position value",
			a: types.Assessment{
				Title: "Prova", Type: types.AssessmentTypeQuiz,
				QuizPosition: strPtr("DURING_LESSON"), PassingScore: intPtr(70),
			},
			wantCodes: []string{"invalid-quiz-position"},
		},
		{
			name: "position forbidden outside quiz",
			a: types.Assessment{
				Title: "Simulado", Type: types.AssessmentTypeSimulado,
				QuizPosition: strPtr(types.QuizPositionBeforeLesson), PassingScore: intPtr(70),
			},
			wantCodes: []string{"invalid-quiz-position"},
		},
		{
			name: "time limit forbidden outside simulado",
			a: types.Assessment{
				Title: "Prova", Type: types.AssessmentTypeQuiz,
				QuizPosition: strPtr(types.QuizPositionAfterLesson), PassingScore: intPtr(70),
				TimeLimitInMinutes: intPtr(30),
			},
			wantCodes: []string{"invalid-time-limit"},
		},
		{
			name: "score out of range",
			a: types.Assessment{
				Title: "Prova", Type: types.AssessmentTypeQuiz,
				QuizPosition: strPtr(types.QuizPositionAfterLesson), PassingScore: intPtr(101),
			},
			wantCodes: []string{"invalid-passing-score"},
		},
		{
			name: "score of zero is in range",
			a: types.Assessment{
				Title: "Prova", Type: types.AssessmentTypeQuiz,
				QuizPosition: strPtr(types.QuizPositionAfterLesson), PassingScore: intPtr(0),
			},
		},
		{
			name:      "short title",
			a:         types.Assessment{Title: "ab", Type: types.AssessmentTypeOpenEnded},
			wantCodes: []string{"too-small"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := validateAssessmentRules(&tc.a)
			got := map[string]bool{}
			for _, is := range issues {
				got[is.Code] = true
			}
			if len(issues) != len(tc.wantCodes) {
				t.Fatalf("got %d issues %v, want codes %v", len(issues), issues, tc.wantCodes)
			}
			for _, code := range tc.wantCodes {
				if !got[code] {
					t.Fatalf("missing code %q in %v", code, issues)
				}
			}
		})
	}
}

func TestAssessmentList_LessonScopedFiltersAndSorts(t *testing.T) {
	svc, aRepo, lRepo := newAssessmentHarness()
	ctx := context.Background()

	l1 := seedLesson(lRepo)
	l2 := seedLesson(lRepo)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := seedAssessment(aRepo, "Quiz da Aula 1", types.AssessmentTypeQuiz, &l1, base)
	seedAssessment(aRepo, "Simulado Geral", types.AssessmentTypeSimulado, nil, base.Add(time.Hour))
	seedAssessment(aRepo, "Quiz da Aula 2", types.AssessmentTypeQuiz, &l2, base.Add(2*time.Hour))
	older := seedAssessment(aRepo, "Quiz Antigo da Aula 1", types.AssessmentTypeQuiz, &l1, base.Add(-time.Hour))

	items, pg, err := svc.List(ctx, nil, ListAssessmentsFilter{LessonID: &l1}, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 || pg.Total != 2 {
		t.Fatalf("expected the two lesson-1 assessments, got %d (total %d)", len(items), pg.Total)
	}
	if items[0].ID != a.ID || items[1].ID != older.ID {
		t.Fatalf("expected newest first, got %q then %q", items[0].Title, items[1].Title)
	}

	simulado := types.AssessmentTypeSimulado
	items, pg, err = svc.List(ctx, nil, ListAssessmentsFilter{LessonID: &l1, Type: &simulado}, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 || pg.Total != 0 {
		t.Fatalf("no simulado belongs to lesson 1, got %d (total %d)", len(items), pg.Total)
	}
}

func TestAssessmentList_LessonMustExist(t *testing.T) {
	svc, _, _ := newAssessmentHarness()
	missing := uuid.New()
	_, _, err := svc.List(context.Background(), nil, ListAssessmentsFilter{LessonID: &missing}, 1, 20)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssessmentList_GlobalTypeFilterRecountsTotal(t *testing.T) {
	svc, aRepo, lRepo := newAssessmentHarness()
	ctx := context.Background()

	l1 := seedLesson(lRepo)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedAssessment(aRepo, "Quiz A", types.AssessmentTypeQuiz, &l1, base)
	seedAssessment(aRepo, "Simulado B", types.AssessmentTypeSimulado, nil, base.Add(time.Hour))
	seedAssessment(aRepo, "Quiz C", types.AssessmentTypeQuiz, &l1, base.Add(2*time.Hour))

	quiz := types.AssessmentTypeQuiz
	items, pg, err := svc.List(ctx, nil, ListAssessmentsFilter{Type: &quiz}, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 quizzes on the page, got %d", len(items))
	}
	// The total reflects the filtered universe, not the page row count.
	if pg.Total != 2 {
		t.Fatalf("expected filtered total 2, got %d", pg.Total)
	}

	items, pg, err = svc.List(ctx, nil, ListAssessmentsFilter{}, 1, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 || pg.Total != 3 || !pg.HasNext {
		t.Fatalf("unfiltered page: got %d items, total %d, hasNext %v", len(items), pg.Total, pg.HasNext)
	}
}

func TestAssessmentList_InsideTransactionStaysSequential(t *testing.T) {
	svc, aRepo, lRepo := newAssessmentHarness()
	ctx := context.Background()

	l1 := seedLesson(lRepo)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedAssessment(aRepo, "Quiz A", types.AssessmentTypeQuiz, &l1, base)
	seedAssessment(aRepo, "Simulado B", types.AssessmentTypeSimulado, nil, base.Add(time.Hour))
	seedAssessment(aRepo, "Quiz C", types.AssessmentTypeQuiz, &l1, base.Add(2*time.Hour))

	// A transaction handle is bound to one connection, so the filtered
	// recount must not fan out. Results match the pooled-handle path.
	tx := &gorm.DB{}
	quiz := types.AssessmentTypeQuiz
	items, pg, err := svc.List(ctx, tx, ListAssessmentsFilter{Type: &quiz}, 1, 20)
	if err != nil {
		t.Fatalf("list inside transaction failed: %v", err)
	}
	if len(items) != 2 || pg.Total != 2 {
		t.Fatalf("transactional filtered list: got %d items, total %d", len(items), pg.Total)
	}
}

func TestAssessmentCreate_RequiresExistingLesson(t *testing.T) {
	svc, _, _ := newAssessmentHarness()
	missing := uuid.New()
	_, err := svc.Create(context.Background(), nil, CreateAssessmentInput{
		Slug: "prova-orfa", Title: "Prova Órfã", Type: types.AssessmentTypeOpenEnded,
		LessonID: &missing,
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssessmentCreate_DuplicateTitle(t *testing.T) {
	svc, aRepo, _ := newAssessmentHarness()
	ctx := context.Background()
	seedAssessment(aRepo, "Prova Final", types.AssessmentTypeOpenEnded, nil, time.Now())

	_, err := svc.Create(ctx, nil, CreateAssessmentInput{
		Slug: "prova-final-2", Title: "Prova Final", Type: types.AssessmentTypeOpenEnded,
	})
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestAssessmentUpdate_TypeChangeRevalidatesCombinedState(t *testing.T) {
	svc, aRepo, lRepo := newAssessmentHarness()
	ctx := context.Background()

	l1 := seedLesson(lRepo)
	quiz := seedAssessment(aRepo, "Quiz da Aula", types.AssessmentTypeQuiz, &l1, time.Now())

	// Patching only the type leaves the stored quizPosition in place, which
	// the combined state must reject.
	_, err := svc.Update(ctx, nil, UpdateAssessmentInput{
		ID:   quiz.ID,
		Type: patch.Set(types.AssessmentTypeOpenEnded),
	})
	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Clearing the conditional fields in the same payload goes through.
	updated, err := svc.Update(ctx, nil, UpdateAssessmentInput{
		ID:           quiz.ID,
		Type:         patch.Set(types.AssessmentTypeOpenEnded),
		QuizPosition: patch.Set[*string](nil),
		PassingScore: patch.Set[*int](nil),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Type != types.AssessmentTypeOpenEnded || updated.QuizPosition != nil || updated.PassingScore != nil {
		t.Fatalf("combined patch not applied: %+v", updated)
	}
}

func TestAssessmentUpdate_NoChangesIsNotModified(t *testing.T) {
	svc, aRepo, lRepo := newAssessmentHarness()
	ctx := context.Background()

	l1 := seedLesson(lRepo)
	quiz := seedAssessment(aRepo, "Quiz da Aula", types.AssessmentTypeQuiz, &l1, time.Now())

	_, err := svc.Update(ctx, nil, UpdateAssessmentInput{
		ID:           quiz.ID,
		Title:        patch.Set(quiz.Title),
		QuizPosition: patch.Set(quiz.QuizPosition),
	})
	if apperr.KindOf(err) != apperr.KindNotModified {
		t.Fatalf("expected not modified, got %v", err)
	}
}

func TestAssessmentDelete_BlockedByAttempts(t *testing.T) {
	svc, aRepo, _ := newAssessmentHarness()
	ctx := context.Background()

	a := seedAssessment(aRepo, "Prova com Tentativas", types.AssessmentTypeOpenEnded, nil, time.Now())
	aRepo.deps[a.ID] = &types.DependencyReport{
		CanDelete:         false,
		TotalDependencies: 1,
		Summary:           map[string]int{"attempts": 1},
		Dependencies:      []types.Dependency{{Type: "attempt", ID: uuid.NewString()}},
	}

	err := svc.Delete(ctx, nil, a.ID)
	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindHasDependencies {
		t.Fatalf("expected has_dependencies, got %v", err)
	}
	if _, stillThere := aRepo.assessments[a.ID]; !stillThere {
		t.Fatalf("blocked delete must not remove the assessment")
	}
}
