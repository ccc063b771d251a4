package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/handlers"
)

type RouterConfig struct {
	CourseHandler     *handlers.CourseHandler
	TrackHandler      *handlers.TrackHandler
	ModuleHandler     *handlers.ModuleHandler
	LessonHandler     *handlers.LessonHandler
	VideoHandler      *handlers.VideoHandler
	DocumentHandler   *handlers.DocumentHandler
	AssessmentHandler *handlers.AssessmentHandler
	QuestionHandler   *handlers.QuestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Courses
	router.POST("/courses", cfg.CourseHandler.Create)
	router.GET("/courses", cfg.CourseHandler.List)
	router.GET("/courses/:id", cfg.CourseHandler.Get)
	router.PATCH("/courses/:id", cfg.CourseHandler.Update)
	router.DELETE("/courses/:id", cfg.CourseHandler.Delete)

	// Tracks
	router.POST("/tracks", cfg.TrackHandler.Create)
	router.GET("/tracks", cfg.TrackHandler.List)
	router.GET("/tracks/:id", cfg.TrackHandler.Get)
	router.PATCH("/tracks/:id", cfg.TrackHandler.Update)
	router.DELETE("/tracks/:id", cfg.TrackHandler.Delete)

	// Modules under a course
	router.POST("/courses/:id/modules", cfg.ModuleHandler.Create)
	router.GET("/courses/:id/modules", cfg.ModuleHandler.ListByCourse)
	router.GET("/modules/:id", cfg.ModuleHandler.Get)
	router.PATCH("/modules/:id", cfg.ModuleHandler.Update)
	router.DELETE("/modules/:id", cfg.ModuleHandler.Delete)

	// Lessons under a module
	router.POST("/modules/:id/lessons", cfg.LessonHandler.Create)
	router.GET("/modules/:id/lessons", cfg.LessonHandler.ListByModule)
	router.GET("/lessons/:id", cfg.LessonHandler.Get)
	router.PATCH("/lessons/:id", cfg.LessonHandler.Update)
	router.DELETE("/lessons/:id", cfg.LessonHandler.Delete)

	// Videos under a lesson
	router.POST("/lessons/:id/videos", cfg.VideoHandler.Create)
	router.GET("/lessons/:id/videos", cfg.VideoHandler.ListByLesson)
	router.GET("/videos/:id", cfg.VideoHandler.Get)
	router.PATCH("/videos/:id", cfg.VideoHandler.Update)
	router.DELETE("/videos/:id", cfg.VideoHandler.Delete)

	// Documents under a lesson
	router.POST("/lessons/:id/documents", cfg.DocumentHandler.Create)
	router.GET("/lessons/:id/documents", cfg.DocumentHandler.ListByLesson)
	router.GET("/documents/:id", cfg.DocumentHandler.Get)
	router.PATCH("/documents/:id", cfg.DocumentHandler.Update)
	router.DELETE("/documents/:id", cfg.DocumentHandler.Delete)

	// Assessments
	router.POST("/assessments", cfg.AssessmentHandler.Create)
	router.GET("/assessments", cfg.AssessmentHandler.List)
	router.GET("/assessments/:id", cfg.AssessmentHandler.Get)
	router.PATCH("/assessments/:id", cfg.AssessmentHandler.Update)
	router.DELETE("/assessments/:id", cfg.AssessmentHandler.Delete)

	// Arguments and questions under an assessment
	router.POST("/arguments", cfg.QuestionHandler.CreateArgument)
	router.GET("/arguments/:id", cfg.QuestionHandler.GetArgument)
	router.GET("/assessments/:id/arguments", cfg.QuestionHandler.ListArguments)
	router.POST("/assessments/:id/questions", cfg.QuestionHandler.CreateQuestion)
	router.GET("/assessments/:id/questions", cfg.QuestionHandler.ListQuestions)
	router.GET("/questions/:id", cfg.QuestionHandler.GetQuestion)
	router.POST("/questions/:id/options", cfg.QuestionHandler.CreateOption)
	router.GET("/questions/:id/options", cfg.QuestionHandler.ListOptions)
	router.POST("/questions/:id/answer", cfg.QuestionHandler.CreateAnswer)
	router.GET("/questions/:id/answer", cfg.QuestionHandler.GetAnswer)

	return router
}
