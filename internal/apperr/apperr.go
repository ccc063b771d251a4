package apperr

import (
	"errors"
	"fmt"

	"github.com/cursolab/ead-backend/internal/types"
)

// Kind classifies a domain failure. The transport layer owns the mapping
// from Kind to protocol status codes; nothing here knows about HTTP.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindDuplicate       Kind = "duplicate"
	KindHasDependencies Kind = "has_dependencies"
	KindNotModified     Kind = "not_modified"
	KindRepository      Kind = "repository"
)

// FieldIssue is one field-level validation violation. Path points at the
// offending value, e.g. ["translations", "1", "title"].
type FieldIssue struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

type Error struct {
	Kind    Kind
	Code    string
	Err     error
	Details []FieldIssue
	Report  *types.DependencyReport
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(details []FieldIssue) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    "validation_failed",
		Err:     errors.New("validation failed"),
		Details: details,
	}
}

func NotFound(entity string) *Error {
	return &Error{
		Kind: KindNotFound,
		Code: entity + "_not_found",
		Err:  fmt.Errorf("%s not found", entity),
	}
}

func Duplicate(entity string) *Error {
	return &Error{
		Kind: KindDuplicate,
		Code: "duplicate_" + entity,
		Err:  fmt.Errorf("%s with the same identifier already exists", entity),
	}
}

func HasDependencies(entity string, report *types.DependencyReport) *Error {
	return &Error{
		Kind:   KindHasDependencies,
		Code:   entity + "_has_dependencies",
		Err:    fmt.Errorf("%s cannot be deleted because it has dependencies", entity),
		Report: report,
	}
}

func NotModified(entity string) *Error {
	return &Error{
		Kind: KindNotModified,
		Code: entity + "_not_modified",
		Err:  fmt.Errorf("no changes detected on %s", entity),
	}
}

func Repository(err error) *Error {
	return &Error{
		Kind: KindRepository,
		Code: "repository_error",
		Err:  err,
	}
}

// KindOf extracts the Kind from any error produced by this package.
// Unrecognized errors report KindRepository so callers fail closed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRepository
}

func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
