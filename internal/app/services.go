package app

import (
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type Services struct {
	Course     services.CourseService
	Track      services.TrackService
	Module     services.ModuleService
	Lesson     services.LessonService
	Video      services.VideoService
	Document   services.DocumentService
	Assessment services.AssessmentService
	Question   services.QuestionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	locales := cfg.Locales()
	return Services{
		Course:     services.NewCourseService(db, log, locales, r.Course),
		Track:      services.NewTrackService(db, log, locales, r.Track, r.Course),
		Module:     services.NewModuleService(db, log, locales, r.Module, r.Course),
		Lesson:     services.NewLessonService(db, log, locales, r.Lesson, r.Module),
		Video:      services.NewVideoService(db, log, locales, r.Video, r.Lesson),
		Document:   services.NewDocumentService(db, log, locales, r.Document, r.Lesson),
		Assessment: services.NewAssessmentService(db, log, locales, r.Assessment, r.Lesson),
		Question:   services.NewQuestionService(db, log, locales, r.Question, r.Argument, r.Assessment),
	}
}
