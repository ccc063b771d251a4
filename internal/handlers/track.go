package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type TrackHandler struct {
	log          *logger.Logger
	trackService services.TrackService
}

func NewTrackHandler(log *logger.Logger, trackService services.TrackService) *TrackHandler {
	return &TrackHandler{
		log:          log.With("handler", "TrackHandler"),
		trackService: trackService,
	}
}

func (h *TrackHandler) Create(c *gin.Context) {
	var in services.CreateTrackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	track, err := h.trackService.Create(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"track": track})
}

func (h *TrackHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	track, err := h.trackService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"track": track})
}

func (h *TrackHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	tracks, pg, err := h.trackService.List(c.Request.Context(), nil, page, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"tracks": tracks, "pagination": pg})
}

func (h *TrackHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateTrackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.ID = id
	track, err := h.trackService.Update(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Update failed", "error", err, "track_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"track": track})
}

func (h *TrackHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.trackService.Delete(c.Request.Context(), nil, id); err != nil {
		h.log.Error("Delete failed", "error", err, "track_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "track deleted successfully"})
}
