package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/benbeisheim/chesslib-backend/internal/model"
)

const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeIllegalMove  = "ILLEGAL_MOVE"
	ErrCodeGameEnded    = "GAME_ENDED"
)

// AppError carries an error code and HTTP status to the transport layer.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// FromEngine maps a rules engine error onto an AppError. Anything it does
// not recognise becomes an internal error.
func FromEngine(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, model.ErrIllegalMove),
		stderrors.Is(err, model.ErrEmptySource),
		stderrors.Is(err, model.ErrPromotionPending),
		stderrors.Is(err, model.ErrInvalidPromotion),
		stderrors.Is(err, model.ErrUnresolvedPromotion):
		return &AppError{Code: ErrCodeIllegalMove, Message: err.Error(), Status: http.StatusUnprocessableEntity, Err: err}
	case stderrors.Is(err, model.ErrOutOfTurn):
		return &AppError{Code: ErrCodeForbidden, Message: err.Error(), Status: http.StatusForbidden, Err: err}
	case stderrors.Is(err, model.ErrGameEnded):
		return &AppError{Code: ErrCodeGameEnded, Message: err.Error(), Status: http.StatusConflict, Err: err}
	case stderrors.Is(err, model.ErrMalformedNotation),
		stderrors.Is(err, model.ErrOutOfBounds):
		return &AppError{Code: ErrCodeBadRequest, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
	}
	return NewInternalError(err)
}
