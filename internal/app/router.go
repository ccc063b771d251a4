package app

import (
	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/server"
)

func wireRouter(handlers Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		CourseHandler:     handlers.Course,
		TrackHandler:      handlers.Track,
		ModuleHandler:     handlers.Module,
		LessonHandler:     handlers.Lesson,
		VideoHandler:      handlers.Video,
		DocumentHandler:   handlers.Document,
		AssessmentHandler: handlers.Assessment,
		QuestionHandler:   handlers.Question,
	})
}
