package service

import (
	"errors"
	"fmt"
)

type DomainError struct {
	Code    string
	Message string
	Err     error
}

func WrapError(domainError *DomainError, err error) error {
	return &DomainError{
		Code:    domainError.Code,
		Message: domainError.Message,
		Err:     err,
	}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is сравнивает доменные ошибки по коду и сообщению, чтобы errors.Is работал с обёрнутыми копиями
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

const (
	CodeNotFound          = "NOT_FOUND"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidFormat     = "INVALID_FORMAT"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeTransactionFailed = "TRANSACTION_FAILED"
	CodeInternalError     = "INTERNAL_ERROR"
)

var (
	// NOT_FOUND
	ErrIssueNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "issue not found",
	}
	ErrUserNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "user not found",
	}
	ErrAssigneeNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "assignee user not found",
	}
	ErrAuthorNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "author user not found",
	}
	ErrCommentNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "comment not found",
	}

	// VERSION_CONFLICT
	ErrVersionConflict = &DomainError{
		Code:    CodeVersionConflict,
		Message: "issue was modified by another request, reload and retry",
	}

	// INVALID_TRANSITION
	ErrInvalidTransition = &DomainError{
		Code:    CodeInvalidTransition,
		Message: "only resolved issues can be closed",
	}

	// INVALID_FORMAT
	ErrInvalidFormat = &DomainError{
		Code:    CodeInvalidFormat,
		Message: "only CSV files are accepted",
	}
	ErrMalformedCSV = &DomainError{
		Code:    CodeInvalidFormat,
		Message: "malformed CSV file",
	}

	// VALIDATION_ERROR
	ErrValidation = &DomainError{
		Code:    CodeValidationError,
		Message: "validation failed",
	}

	// INVALID_INPUT
	ErrInvalidInput = &DomainError{
		Code:    CodeInvalidInput,
		Message: "invalid input",
	}

	// ALREADY_EXISTS
	ErrUserExists = &DomainError{
		Code:    CodeAlreadyExists,
		Message: "username or email already registered",
	}
	ErrLabelExists = &DomainError{
		Code:    CodeAlreadyExists,
		Message: "label already exists",
	}

	// TRANSACTION_FAILED
	ErrTransactionFailed = &DomainError{
		Code:    CodeTransactionFailed,
		Message: "transaction failed",
	}

	// INTERNAL_ERROR
	ErrLabelsUpdateFailed = &DomainError{
		Code:    CodeInternalError,
		Message: "failed to update labels",
	}
	ErrInternal = &DomainError{
		Code:    CodeInternalError,
		Message: "internal error",
	}
)

func invalidInput(format string, args ...any) error {
	return WrapError(ErrInvalidInput, fmt.Errorf(format, args...))
}

// asDomainError пропускает доменные ошибки как есть, остальное оборачивает в fallback
func asDomainError(err error, fallback *DomainError) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return WrapError(fallback, err)
}
