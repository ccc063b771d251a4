package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cursolab/ead-backend/internal/apperr"
	"github.com/cursolab/ead-backend/internal/types"
)

func recordAppError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondAppError(c, err)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return w, envelope
}

func TestRespondAppError_StatusByKind(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: apperr.Validation([]apperr.FieldIssue{{Code: "too-small", Path: []string{"title"}}}), wantStatus: http.StatusBadRequest, wantCode: "validation_failed"},
		{name: "not found", err: apperr.NotFound("course"), wantStatus: http.StatusNotFound, wantCode: "course_not_found"},
		{name: "duplicate", err: apperr.Duplicate("course"), wantStatus: http.StatusConflict, wantCode: "duplicate_course"},
		{name: "has dependencies", err: apperr.HasDependencies("course", &types.DependencyReport{TotalDependencies: 1}), wantStatus: http.StatusUnprocessableEntity, wantCode: "course_has_dependencies"},
		{name: "not modified", err: apperr.NotModified("course"), wantStatus: http.StatusBadRequest, wantCode: "course_not_modified"},
		{name: "repository", err: apperr.Repository(errors.New("pq: connection reset")), wantStatus: http.StatusInternalServerError, wantCode: "repository_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, envelope := recordAppError(t, tc.err)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", envelope.Error.Code, tc.wantCode)
			}
		})
	}
}

func TestRespondAppError_MasksRepositoryDetail(t *testing.T) {
	_, envelope := recordAppError(t, apperr.Repository(errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")))
	if strings.Contains(envelope.Error.Message, "10.0.0.5") {
		t.Fatalf("storage detail leaked into the response: %q", envelope.Error.Message)
	}
	if envelope.Error.Message != "unexpected repository failure" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestRespondAppError_CarriesValidationDetails(t *testing.T) {
	issues := []apperr.FieldIssue{
		{Code: "too-small", Message: "title must be at least 3 characters long", Path: []string{"translations", "0", "title"}},
		{Code: "invalid-locale", Message: `locale "fr" is not supported`, Path: []string{"translations", "1", "locale"}},
	}
	_, envelope := recordAppError(t, apperr.Validation(issues))
	if len(envelope.Error.Details) != 2 {
		t.Fatalf("expected both issues on the wire, got %v", envelope.Error.Details)
	}
	if envelope.Error.Details[1].Path[2] != "locale" {
		t.Fatalf("issue paths lost: %v", envelope.Error.Details[1].Path)
	}
}

func TestRespondAppError_AttachesDependencyReport(t *testing.T) {
	report := &types.DependencyReport{
		CanDelete:         false,
		TotalDependencies: 2,
		Summary:           map[string]int{"modules": 2},
	}
	_, envelope := recordAppError(t, apperr.HasDependencies("course", report))
	if envelope.Error.Dependencies == nil || envelope.Error.Dependencies.TotalDependencies != 2 {
		t.Fatalf("dependency report missing from envelope: %+v", envelope.Error)
	}
}

func TestRespondAppError_UnknownErrorIsMasked(t *testing.T) {
	w, envelope := recordAppError(t, errors.New("some stray failure"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(envelope.Error.Message, "stray") {
		t.Fatalf("raw error leaked: %q", envelope.Error.Message)
	}
}
