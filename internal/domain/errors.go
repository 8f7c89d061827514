package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUnavailable      = "UNAVAILABLE"
	ErrCodeModelContract    = "MODEL_CONTRACT"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuestion      = NewDomainError(ErrCodeValidation, "question is required")
	ErrEmptyTopic         = NewDomainError(ErrCodeValidation, "topic is required")
	ErrReflectionTooShort = NewDomainError(ErrCodeValidation, "reflection is too short to evaluate")
	ErrEmptyGoal          = NewDomainError(ErrCodeValidation, "goal is required")
	ErrInvalidDayCount    = NewDomainError(ErrCodeValidation, "day count must be greater than 0")
	ErrInvalidLeaveDays   = NewDomainError(ErrCodeValidation, "leave days must be greater than 0")
)

// Not found errors
var (
	ErrDayNotFound      = NewDomainError(ErrCodeNotFound, "syllabus day not found")
	ErrSyllabusNotFound = NewDomainError(ErrCodeNotFound, "no syllabus has been generated")
)

// Operation errors
var (
	ErrDayNotActive      = NewDomainError(ErrCodeInvalidOperation, "day is not the active day")
	ErrNoActiveDay       = NewDomainError(ErrCodeInvalidOperation, "syllabus has no active day")
	ErrSyllabusHasActive = NewDomainError(ErrCodeInvalidOperation, "syllabus already has an active day")
)

// Infrastructure errors
var (
	ErrEmbeddingUnavailable  = NewDomainError(ErrCodeUnavailable, "embedding provider unavailable")
	ErrCompletionUnavailable = NewDomainError(ErrCodeUnavailable, "completion provider unavailable")
)

// Model contract errors
var (
	ErrUnparsableModelOutput = NewDomainError(ErrCodeModelContract, "model output could not be parsed")
)
