package app

import (
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/repos"
)

type Repos struct {
	Course     repos.CourseRepo
	Track      repos.TrackRepo
	Module     repos.ModuleRepo
	Lesson     repos.LessonRepo
	Video      repos.VideoRepo
	Document   repos.DocumentRepo
	Assessment repos.AssessmentRepo
	Argument   repos.ArgumentRepo
	Question   repos.QuestionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:     repos.NewCourseRepo(db, log),
		Track:      repos.NewTrackRepo(db, log),
		Module:     repos.NewModuleRepo(db, log),
		Lesson:     repos.NewLessonRepo(db, log),
		Video:      repos.NewVideoRepo(db, log),
		Document:   repos.NewDocumentRepo(db, log),
		Assessment: repos.NewAssessmentRepo(db, log),
		Argument:   repos.NewArgumentRepo(db, log),
		Question:   repos.NewQuestionRepo(db, log),
	}
}
