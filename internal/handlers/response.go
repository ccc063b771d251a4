package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/types"
)

type APIError struct {
	Message      string                  `json:"message"`
	Code         string                  `json:"code,omitempty"`
	Details      []apperr.FieldIssue     `json:"details,omitempty"`
	Dependencies *types.DependencyReport `json:"dependencyInfo,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusByKind is the only place protocol status codes meet the domain
// error taxonomy.
var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:      http.StatusBadRequest,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindDuplicate:       http.StatusConflict,
	apperr.KindHasDependencies: http.StatusUnprocessableEntity,
	apperr.KindNotModified:     http.StatusBadRequest,
	apperr.KindRepository:      http.StatusInternalServerError,
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError translates a domain error into the wire envelope. Storage
// failure detail stays out of the response body; callers log it.
func RespondAppError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	status, found := statusByKind[e.Kind]
	if !found {
		status = http.StatusInternalServerError
	}
	msg := e.Error()
	if e.Kind == apperr.KindRepository {
		msg = "unexpected repository failure"
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message:      msg,
			Code:         e.Code,
			Details:      e.Details,
			Dependencies: e.Report,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
