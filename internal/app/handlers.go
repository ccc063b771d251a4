package app

import (
	"github.com/cursolab/ead-backend/internal/handlers"
	"github.com/cursolab/ead-backend/internal/logger"
)

type Handlers struct {
	Course     *handlers.CourseHandler
	Track      *handlers.TrackHandler
	Module     *handlers.ModuleHandler
	Lesson     *handlers.LessonHandler
	Video      *handlers.VideoHandler
	Document   *handlers.DocumentHandler
	Assessment *handlers.AssessmentHandler
	Question   *handlers.QuestionHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Course:     handlers.NewCourseHandler(log, services.Course),
		Track:      handlers.NewTrackHandler(log, services.Track),
		Module:     handlers.NewModuleHandler(log, services.Module),
		Lesson:     handlers.NewLessonHandler(log, services.Lesson),
		Video:      handlers.NewVideoHandler(log, services.Video),
		Document:   handlers.NewDocumentHandler(log, services.Document),
		Assessment: handlers.NewAssessmentHandler(log, services.Assessment),
		Question:   handlers.NewQuestionHandler(log, services.Question),
	}
}
