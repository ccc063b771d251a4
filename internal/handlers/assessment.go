package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type AssessmentHandler struct {
	log               *logger.Logger
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		log:               log.With("handler", "AssessmentHandler"),
		assessmentService: assessmentService,
	}
}

func (h *AssessmentHandler) Create(c *gin.Context) {
	var in services.CreateAssessmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	assessment, err := h.assessmentService.Create(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"assessment": assessment})
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	assessment, err := h.assessmentService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessment": assessment})
}

func (h *AssessmentHandler) List(c *gin.Context) {
	var filter services.ListAssessmentsFilter
	if raw := c.Query("lessonId"); raw != "" {
		lessonID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", err)
			return
		}
		filter.LessonID = &lessonID
	}
	if raw := c.Query("type"); raw != "" {
		filter.Type = &raw
	}
	page, limit := pageParams(c)
	assessments, pg, err := h.assessmentService.List(c.Request.Context(), nil, filter, page, limit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessments": assessments, "pagination": pg})
}

func (h *AssessmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateAssessmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.ID = id
	assessment, err := h.assessmentService.Update(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Update failed", "error", err, "assessment_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessment": assessment})
}

func (h *AssessmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assessmentService.Delete(c.Request.Context(), nil, id); err != nil {
		h.log.Error("Delete failed", "error", err, "assessment_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "assessment deleted successfully"})
}
