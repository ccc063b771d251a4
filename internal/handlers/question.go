package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/services"
)

type QuestionHandler struct {
	log             *logger.Logger
	questionService services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		log:             log.With("handler", "QuestionHandler"),
		questionService: questionService,
	}
}

func (h *QuestionHandler) CreateArgument(c *gin.Context) {
	var in services.CreateArgumentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	argument, err := h.questionService.CreateArgument(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("CreateArgument failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"argument": argument})
}

func (h *QuestionHandler) GetArgument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	argument, err := h.questionService.GetArgument(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"argument": argument})
}

func (h *QuestionHandler) ListArguments(c *gin.Context) {
	assessmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	arguments, err := h.questionService.ListArguments(c.Request.Context(), nil, assessmentID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"arguments": arguments})
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	assessmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CreateQuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.AssessmentID = assessmentID
	question, err := h.questionService.CreateQuestion(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("CreateQuestion failed", "error", err, "assessment_id", assessmentID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"question": question})
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	question, err := h.questionService.GetQuestion(c.Request.Context(), nil, id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"question": question})
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	assessmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questions, err := h.questionService.ListQuestions(c.Request.Context(), nil, assessmentID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"questions": questions})
}

func (h *QuestionHandler) CreateOption(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CreateOptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.QuestionID = questionID
	option, err := h.questionService.CreateOption(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("CreateOption failed", "error", err, "question_id", questionID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"option": option})
}

func (h *QuestionHandler) ListOptions(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	options, err := h.questionService.ListOptions(c.Request.Context(), nil, questionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"options": options})
}

func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CreateAnswerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	in.QuestionID = questionID
	answer, err := h.questionService.CreateAnswer(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("CreateAnswer failed", "error", err, "question_id", questionID)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, gin.H{"answer": answer})
}

func (h *QuestionHandler) GetAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	answer, err := h.questionService.GetAnswer(c.Request.Context(), nil, questionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"answer": answer})
}
