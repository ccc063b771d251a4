package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type LessonHandler struct {
	log           *logger.Logger
	lessonService services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessonService services.LessonService) *LessonHandler {
	return &LessonHandler{
		log:           log.With("handler", "LessonHandler"),
		lessonService: lessonService,
	}
}

func (h *LessonHandler) Create(c *gin.Context) {
	moduleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CreateLessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.ModuleID = moduleID
	lesson, err := h.lessonService.Create(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Create failed", "error", err, "module_id", moduleID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"lesson": lesson})
}

func (h *LessonHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lesson, err := h.lessonService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"lesson": lesson})
}

func (h *LessonHandler) ListByModule(c *gin.Context) {
	moduleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	lessons, pg, err := h.lessonService.ListByModule(c.Request.Context(), nil, moduleID, page, limit)
	if err != nil {
		h.log.Error("ListByModule failed", "error", err, "module_id", moduleID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessons": lessons, "pagination": pg})
}

func (h *LessonHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateLessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.ID = id
	lesson, err := h.lessonService.Update(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Update failed", "error", err, "lesson_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"lesson": lesson})
}

func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lessonService.Delete(c.Request.Context(), nil, id); err != nil {
		h.log.Error("Delete failed", "error", err, "lesson_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "lesson deleted successfully"})
}
