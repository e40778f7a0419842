package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the listing pipeline.
var (
	// ErrFetch marks any failure to obtain a listing page from a data source.
	ErrFetch = errors.New("failed to fetch listing")

	// ErrSourceUnavailable is returned when a data source signals it cannot serve requests.
	ErrSourceUnavailable = errors.New("data source unavailable")

	// ErrFetchTimeout is returned when a fetch exceeds its deadline.
	ErrFetchTimeout = errors.New("fetch timed out")

	// ErrInvalidItem is returned when an item breaks a data-model invariant.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidRequest is returned for malformed client requests.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownKind is returned for a listing kind the service does not serve.
	ErrUnknownKind = errors.New("unknown listing kind")

	// ErrUnknownRegion is returned when a page has no region with the given name.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnknownVariant is returned for a fetch variant the source does not support.
	ErrUnknownVariant = errors.New("unknown fetch variant")

	// ErrSessionNotFound is returned when a page session is missing or expired.
	ErrSessionNotFound = errors.New("page session not found")

	// ErrNoHistory is returned when back/forward navigation has nowhere to go.
	ErrNoHistory = errors.New("no history entry in that direction")
)

// FetchError wraps a data source failure with the source name.
// Every FetchError matches ErrFetch with errors.Is.
type FetchError struct {
	Source    string
	Err       error
	Retryable bool
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// NewFetchError creates a non-retryable FetchError.
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// NewRetryableFetchError creates a FetchError that a transport may retry.
func NewRetryableFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err, Retryable: true}
}

// NewFetchTimeoutError creates a FetchError for an expired deadline.
func NewFetchTimeoutError(source string) *FetchError {
	return &FetchError{Source: source, Err: ErrFetchTimeout, Retryable: true}
}

// NewSourceUnavailableError creates a FetchError for an unavailable source.
func NewSourceUnavailableError(source string) *FetchError {
	return &FetchError{Source: source, Err: ErrSourceUnavailable, Retryable: true}
}

// FieldError is one corrected or rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field problems in untrusted input.
// For filter parsing it is informational only: the values were already
// replaced by their defaults.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError with a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add records a field problem.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field problem was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ToMap converts the field problems to a map for API responses.
func (e *ValidationError) ToMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Message
	}
	return m
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// WrapInvalidRequest formats a message wrapped with ErrInvalidRequest.
func WrapInvalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// IsFetchError reports whether err is a data source failure.
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsRetryable reports whether err is a FetchError marked retryable.
func IsRetryable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Retryable
}

// IsInvalidRequest reports whether err is an invalid request error.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
