package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type DocumentHandler struct {
	log             *logger.Logger
	documentService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		log:             log.With("handler", "DocumentHandler"),
		documentService: documentService,
	}
}

func (h *DocumentHandler) Create(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CreateDocumentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.LessonID = lessonID
	document, err := h.documentService.Create(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Create failed", "error", err, "lesson_id", lessonID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"document": document})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	document, err := h.documentService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"document": document})
}

func (h *DocumentHandler) ListByLesson(c *gin.Context) {
	lessonID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	documents, pg, err := h.documentService.ListByLesson(c.Request.Context(), nil, lessonID, page, limit)
	if err != nil {
		h.log.Error("ListByLesson failed", "error", err, "lesson_id", lessonID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"documents": documents, "pagination": pg})
}

func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateDocumentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.ID = id
	document, err := h.documentService.Update(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Update failed", "error", err, "document_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"document": document})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.documentService.Delete(c.Request.Context(), nil, id); err != nil {
		h.log.Error("Delete failed", "error", err, "document_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted successfully"})
}
