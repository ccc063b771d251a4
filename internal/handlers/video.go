package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type VideoHandler struct {
	log          *logger.Logger
	videoService services.VideoService
}

func NewVideoHandler(log *logger.Logger, videoService services.VideoService) *VideoHandler {
	return &VideoHandler{
		log:          log.With("handler", "VideoHandler"),
		videoService: videoService,
	}
}

func (h *VideoHandler) Create(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CreateVideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.LessonID = &lessonID
	video, err := h.videoService.Create(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Create failed", "error", err, "lesson_id", lessonID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"video": video})
}

func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	video, err := h.videoService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"video": video})
}

func (h *VideoHandler) ListByLesson(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	videos, pg, err := h.videoService.ListByLesson(c.Request.Context(), nil, lessonID, page, limit)
	if err != nil {
		h.log.Error("ListByLesson failed", "error", err, "lesson_id", lessonID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"videos": videos, "pagination": pg})
}

func (h *VideoHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateVideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.ID = id
	video, err := h.videoService.Update(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Update failed", "error", err, "video_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"video": video})
}

func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.videoService.Delete(c.Request.Context(), nil, id); err != nil {
		h.log.Error("Delete failed", "error", err, "video_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "video deleted successfully"})
}
