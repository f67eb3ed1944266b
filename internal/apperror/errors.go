// Package apperror gives domain failures a stable code, a severity and an
// HTTP status so the CLI, the HTTP API and the run history report them the
// same way.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/katalvlaran/streetroute/connectivity"
	"github.com/katalvlaran/streetroute/core"
	"github.com/katalvlaran/streetroute/euler"
	"github.com/katalvlaran/streetroute/eulerize"
	"github.com/katalvlaran/streetroute/matching"
	"github.com/katalvlaran/streetroute/router"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

// ErrorCode is a stable machine-readable failure code.
type ErrorCode string

const (
	CodeEmptyGraph          ErrorCode = "EMPTY_GRAPH"
	CodeNegativeWeight      ErrorCode = "NEGATIVE_WEIGHT"
	CodeNoMatching          ErrorCode = "NO_MATCHING"
	CodeNotEulerian         ErrorCode = "NOT_EULERIAN"
	CodeUnreachableStart    ErrorCode = "UNREACHABLE_START"
	CodeDisconnectedNodeSet ErrorCode = "DISCONNECTED_NODE_SET"
	CodeInvalidInput        ErrorCode = "INVALID_INPUT"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInternal            ErrorCode = "INTERNAL"
)

// Severity grades an error for logging.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Error is a coded application error.
type Error struct {
	Code     ErrorCode      `json:"code"`
	Message  string         `json:"message"`
	Field    string         `json:"field,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Cause    error          `json:"-"`
	Severity Severity       `json:"severity"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}

	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithDetails attaches a key/value to e and returns e.
func (e *Error) WithDetails(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value

	return e
}

// HTTPStatus maps e.Code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidInput, CodeEmptyGraph, CodeNegativeWeight:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNoMatching, CodeNotEulerian, CodeUnreachableStart, CodeDisconnectedNodeSet:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New creates an error with SeverityError.
func New(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg, Severity: SeverityError}
}

// NewWithField creates an invalid-input style error bound to a request field.
func NewWithField(code ErrorCode, field, msg string) *Error {
	return &Error{Code: code, Message: msg, Field: field, Severity: SeverityError}
}

// Wrap creates an error carrying cause.
func Wrap(cause error, code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg, Cause: cause, Severity: SeverityError}
}

// Is reports whether err carries code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first *Error in err's chain, or the code
// FromDomain would assign.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}

	return classify(err)
}

// FromDomain converts a solver error into an *Error. nil stays nil and an
// existing *Error is returned unchanged.
func FromDomain(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := classify(err)
	out := Wrap(err, code, err.Error())
	if code == CodeInternal {
		out.Severity = SeverityCritical
	}

	return out
}

func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, connectivity.ErrEmptyGraph), errors.Is(err, tsp.ErrNoNodes):
		return CodeEmptyGraph
	case errors.Is(err, shortestpath.ErrNegativeWeight):
		return CodeNegativeWeight
	case errors.Is(err, matching.ErrNoMatching):
		return CodeNoMatching
	case errors.Is(err, euler.ErrNotEulerian), errors.Is(err, eulerize.ErrUnbalanced):
		return CodeNotEulerian
	case errors.Is(err, euler.ErrUnreachableStart):
		return CodeUnreachableStart
	case errors.Is(err, tsp.ErrDisconnectedNodeSet):
		return CodeDisconnectedNodeSet
	case errors.Is(err, core.ErrVertexNotFound), errors.Is(err, shortestpath.ErrVertexNotFound),
		errors.Is(err, shortestpath.ErrUnknownNode), errors.Is(err, core.ErrEdgeNotFound):
		return CodeNotFound
	case errors.Is(err, core.ErrEmptyVertexID), errors.Is(err, core.ErrBadWeight),
		errors.Is(err, router.ErrNilGraph), errors.Is(err, router.ErrUnknownMode),
		errors.Is(err, tsp.ErrUnknownAlgorithm), errors.Is(err, tsp.ErrBadTwoOpt),
		errors.Is(err, tsp.ErrNotExpandable), errors.Is(err, matching.ErrUnknownAlgorithm),
		errors.Is(err, eulerize.ErrUndirectedEdge), errors.Is(err, eulerize.ErrPlanMismatch),
		errors.Is(err, shortestpath.ErrBadWorkers), errors.Is(err, shortestpath.ErrEmptySource):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}
