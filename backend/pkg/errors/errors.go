package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph loading/parsing errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeIndex represents vector index errors
	ErrorTypeIndex ErrorType = "index"
	// ErrorTypeRetrieval represents similarity search errors
	ErrorTypeRetrieval ErrorType = "retrieval"
	// ErrorTypeProvider represents embedding/generation provider errors
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphLoadFailed is returned when the graph source is missing or malformed.
// Callers are expected to degrade to an empty graph rather than abort startup.
type ErrGraphLoadFailed struct {
	*BaseError
	Path string
}

func NewGraphLoadFailed(path string, err error) *ErrGraphLoadFailed {
	return &ErrGraphLoadFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to load graph: %s", path), err),
		Path:      path,
	}
}

// Index Errors

// ErrIndexUnavailable is returned when no vector index was built, either
// because the embedding provider failed or no documents were indexable
type ErrIndexUnavailable struct {
	*BaseError
	Reason string
}

func NewIndexUnavailable(reason string) *ErrIndexUnavailable {
	return &ErrIndexUnavailable{
		BaseError: NewBaseError(ErrorTypeIndex, fmt.Sprintf("vector index not available: %s", reason), nil),
		Reason:    reason,
	}
}

// Retrieval Errors

// ErrRetrievalFailed is returned when a similarity search fails
type ErrRetrievalFailed struct {
	*BaseError
	Query string
}

func NewRetrievalFailed(query string, err error) *ErrRetrievalFailed {
	return &ErrRetrievalFailed{
		BaseError: NewBaseError(ErrorTypeRetrieval, "similarity search failed", err),
		Query:     query,
	}
}

// Provider Errors

// ErrProviderCallFailed is returned when an embedding or generation call fails
type ErrProviderCallFailed struct {
	*BaseError
	Operation string // "embedding" or "generation"
	Model     string
	Attempts  int
	Retryable bool
}

func NewProviderCallFailed(operation, model string, attempts int, retryable bool, err error) *ErrProviderCallFailed {
	return &ErrProviderCallFailed{
		BaseError: NewBaseError(ErrorTypeProvider, fmt.Sprintf("%s call failed after %d attempts", operation, attempts), err),
		Operation: operation,
		Model:     model,
		Attempts:  attempts,
		Retryable: retryable,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled mid-operation
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	if providerErr, ok := err.(*ErrProviderCallFailed); ok {
		return providerErr.Retryable
	}
	// Retrieval failures are usually transient network failures
	if IsErrorType(err, ErrorTypeRetrieval) {
		return true
	}
	return false
}
