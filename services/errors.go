package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorCode classifies service failures so controllers can map them to
// HTTP statuses without string matching.
type ErrorCode string

const (
	ErrCodeInvalid     ErrorCode = "invalid"
	ErrCodeForbidden   ErrorCode = "forbidden"
	ErrCodeNotFound    ErrorCode = "not_found"
	ErrCodeDisabled    ErrorCode = "evaluations_disabled"
	ErrCodeNoQuestions ErrorCode = "no_questions"
	ErrCodePersistence ErrorCode = "persistence"
)

// ServiceError carries a classification code alongside a message safe
// to show to API clients. Err holds the underlying storage error, if any.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewInvalidError(message string) error {
	return &ServiceError{Code: ErrCodeInvalid, Message: message}
}

func NewForbiddenError(message string) error {
	return &ServiceError{Code: ErrCodeForbidden, Message: message}
}

func NewNotFoundError(message string) error {
	return &ServiceError{Code: ErrCodeNotFound, Message: message}
}

func NewDisabledError(message string) error {
	return &ServiceError{Code: ErrCodeDisabled, Message: message}
}

func NewNoQuestionsError(message string) error {
	return &ServiceError{Code: ErrCodeNoQuestions, Message: message}
}

func NewPersistenceError(message string, err error) error {
	return &ServiceError{Code: ErrCodePersistence, Message: message, Err: err}
}

// AsServiceError unwraps err into a *ServiceError when possible.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// isDuplicateKeyError reports whether err came from a unique constraint.
// Driver translation is not always on, so the raw message is checked too.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
