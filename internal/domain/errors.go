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
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeUnsupported = "UNSUPPORTED_FORMAT"
)

// Validation errors
var (
	ErrInvalidChunkConfig = NewDomainError(ErrCodeValidation, "chunk overlap must be smaller than chunk size")
	ErrEmptyOwnerKey      = NewDomainError(ErrCodeValidation, "owner key must not be empty")
)

// Not found errors
var (
	ErrFolderNotFound = NewDomainError(ErrCodeNotFound, "cv folder not found")
	ErrFileNotFound   = NewDomainError(ErrCodeNotFound, "cv file not found")
)

// Format errors
var (
	ErrUnsupportedFormat = NewDomainError(ErrCodeUnsupported, "unsupported document format")
)
