package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common error types for swarmwatch
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEndpointNotFound indicates a docker endpoint is not configured
	ErrEndpointNotFound = errors.New("endpoint not found")

	// ErrConnectionFailed indicates the docker daemon could not be reached
	ErrConnectionFailed = errors.New("connection failed")

	// ErrRoleRestricted indicates a cluster-wide query was made from a non-manager node
	ErrRoleRestricted = errors.New("cluster-wide data requires a manager node")

	// ErrBackendQuery indicates a list query failed after connectivity was confirmed
	ErrBackendQuery = errors.New("backend query failed")

	// ErrMalformedRecord indicates a raw record could not be decoded
	ErrMalformedRecord = errors.New("malformed record")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrUnhealthy indicates a health check produced alerts above the threshold
	ErrUnhealthy = errors.New("cluster unhealthy")
)

// EndpointError wraps an error with the name of the endpoint it came from
type EndpointError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *EndpointError) Error() string {
	return fmt.Sprintf("endpoint %q: %v", e.Endpoint, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *EndpointError) Unwrap() error {
	return e.Err
}

// WrapEndpointError wraps an error with endpoint context
func WrapEndpointError(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &EndpointError{
		Endpoint: endpoint,
		Err:      err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors, dropping nils
func NewMultiError(errors []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errors)),
	}
	for _, err := range errors {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errors ...error) error {
	return NewMultiError(errors).ErrorOrNil()
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap ties validation failures to ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error, including an expired context deadline
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCancelled checks if an error is a cancellation error, including a cancelled context
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsConnectionError checks if an error is a connection error
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsRoleRestricted checks if an error comes from querying a worker node
func IsRoleRestricted(err error) bool {
	return errors.Is(err, ErrRoleRestricted)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Operation timed out. Please try again or increase the timeout value with --timeout flag."
	case IsCancelled(err):
		return "Operation was cancelled."
	case errors.Is(err, ErrEndpointNotFound):
		return "Endpoint not found. Run 'swarmwatch endpoint list' to see configured endpoints."
	case IsConnectionError(err):
		return "Failed to connect to the Docker daemon. Please check DOCKER_HOST and that the daemon is running."
	case IsRoleRestricted(err):
		return "This node is a swarm worker. Point swarmwatch at a manager to see cluster-wide data."
	case errors.Is(err, ErrUnhealthy):
		return err.Error()
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	default:
		return err.Error()
	}
}
