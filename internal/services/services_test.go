package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/validation"
)

var testLocales = validation.LocaleSet{Master: "pt", Supported: []string{"pt", "it", "es"}}

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// fakeCourseRepo is an in-memory CourseRepo. Lookups that miss return
// gorm.ErrRecordNotFound, matching the real gateway.
type fakeCourseRepo struct {
	courses     map[uuid.UUID]*types.Course
	deps        map[uuid.UUID]*types.DependencyReport
	findErr     error
	deleteCalls int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: map[uuid.UUID]*types.Course{},
		deps:    map[uuid.UUID]*types.DependencyReport{},
	}
}

func (f *fakeCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	c := *course
	f.courses[course.ID] = &c
	return nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Course, error) {
	return f.FindBySlugExcludingID(ctx, tx, slug, uuid.Nil)
}

func (f *fakeCourseRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Course, error) {
	for _, c := range f.courses {
		if c.Slug == slug && c.ID != excludeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) FindByTitle(ctx context.Context, tx *gorm.DB, locale, title string) (*types.Course, error) {
	return f.FindByTitleExcludingID(ctx, tx, locale, title, uuid.Nil)
}

func (f *fakeCourseRepo) FindByTitleExcludingID(ctx context.Context, tx *gorm.DB, locale, title string, excludeID uuid.UUID) (*types.Course, error) {
	for _, c := range f.courses {
		if c.ID == excludeID {
			continue
		}
		for _, t := range c.Translations {
			if t.Locale == locale && t.Title == title {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) FindAllPaginated(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Course, int64, error) {
	all := make([]*types.Course, 0, len(f.courses))
	for _, c := range f.courses {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []*types.Course{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	c := *course
	f.courses[course.ID] = &c
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	f.deleteCalls++
	if _, ok := f.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	if r, ok := f.deps[id]; ok {
		return r, nil
	}
	return &types.DependencyReport{CanDelete: true, Summary: map[string]int{}}, nil
}

type fakeLessonRepo struct {
	lessons map[uuid.UUID]*types.Lesson
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{lessons: map[uuid.UUID]*types.Lesson{}}
}

func (f *fakeLessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	l := *lesson
	f.lessons[lesson.ID] = &l
	return nil
}

func (f *fakeLessonRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	lp := *l
	return &lp, nil
}

func (f *fakeLessonRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Lesson, error) {
	for _, l := range f.lessons {
		if l.Slug == slug {
			lp := *l
			return &lp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLessonRepo) FindBySlugExcludingID(ctx context.Context, tx *gorm.DB, slug string, excludeID uuid.UUID) (*types.Lesson, error) {
	for _, l := range f.lessons {
		if l.Slug == slug && l.ID != excludeID {
			lp := *l
			return &lp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLessonRepo) FindByModuleIDPaginated(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, limit, offset int) ([]*types.Lesson, int64, error) {
	var scoped []*types.Lesson
	for _, l := range f.lessons {
		if l.ModuleID == moduleID {
			lp := *l
			scoped = append(scoped, &lp)
		}
	}
	sort.Slice(scoped, func(i, j int) bool { return scoped[i].CreatedAt.After(scoped[j].CreatedAt) })
	total := int64(len(scoped))
	if offset >= len(scoped) {
		return []*types.Lesson{}, total, nil
	}
	end := offset + limit
	if end > len(scoped) {
		end = len(scoped)
	}
	return scoped[offset:end], total, nil
}

func (f *fakeLessonRepo) Update(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) error {
	l := *lesson
	f.lessons[lesson.ID] = &l
	return nil
}

func (f *fakeLessonRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(f.lessons, id)
	return nil
}

func (f *fakeLessonRepo) CheckDependencies(ctx context.Context, tx *gorm.DB, id uuid.UUID, locale string) (*types.DependencyReport, error) {
	return &types.DependencyReport{CanDelete: true, Summary: map[string]int{}}, nil
}
