package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type ModuleHandler struct {
	log           *logger.Logger
	moduleService services.ModuleService
}

func NewModuleHandler(log *logger.Logger, moduleService services.ModuleService) *ModuleHandler {
	return &ModuleHandler{
		log:           log.With("handler", "ModuleHandler"),
		moduleService: moduleService,
	}
}

func (h *ModuleHandler) Create(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CreateModuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.CourseID = courseID
	module, err := h.moduleService.Create(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Create failed", "error", err, "course_id", courseID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"module": module})
}

func (h *ModuleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	module, err := h.moduleService.Get(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"module": module})
}

func (h *ModuleHandler) ListByCourse(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	modules, pg, err := h.moduleService.ListByCourse(c.Request.Context(), nil, courseID, page, limit)
	if err != nil {
		h.log.Error("ListByCourse failed", "error", err, "course_id", courseID)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"modules": modules, "pagination": pg})
}

func (h *ModuleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateModuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.ID = id
	module, err := h.moduleService.Update(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("Update failed", "error", err, "module_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"module": module})
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.moduleService.Delete(c.Request.Context(), nil, id); err != nil {
		h.log.Error("Delete failed", "error", err, "module_id", id)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "module deleted successfully"})
}
