package dto

import (
	"errors"
	"net/http"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
)

// Transport-level error codes. Domain failures keep their own rule code
// (SLABS_NOT_CONTIGUOUS, BILL_ALREADY_ISSUED, ...).
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// InternalErrorMessage is the only message an unexpected failure exposes
const InternalErrorMessage = "An unexpected error occurred"

var kindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindNotFound:        http.StatusNotFound,
	shared.KindConflict:        http.StatusConflict,
	shared.KindInvalidState:    http.StatusUnprocessableEntity,
	shared.KindInvalidArgument: http.StatusBadRequest,
	shared.KindConfiguration:   http.StatusInternalServerError,
	shared.KindInternal:        http.StatusInternalServerError,
}

// HTTPStatusForKind returns the status code an error kind is answered with
func HTTPStatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts an error into the status code and error body sent to
// the client. Server-side failures never leak their message or cause.
func FromError(err error) (int, string, string) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, ErrCodeInternal, InternalErrorMessage
	}

	status := HTTPStatusForKind(domainErr.Kind)
	if status >= http.StatusInternalServerError {
		code := domainErr.Code
		if domainErr.Kind == shared.KindInternal || code == "" {
			code = ErrCodeInternal
		}
		return status, code, InternalErrorMessage
	}
	return status, domainErr.Code, domainErr.Message
}
