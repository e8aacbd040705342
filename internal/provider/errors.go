package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShayCichocki/linguist/pkg/models"
)

var (
	// ErrInvalidResponse means the provider answered successfully but the
	// reply did not contain the expected text field at all.
	ErrInvalidResponse = errors.New("invalid provider response")
	// ErrDecodingFailed means the text field was present but was not the
	// expected JSON envelope.
	ErrDecodingFailed = errors.New("could not decode provider response")
	// ErrCancelled marks a run that was cancelled by the caller. It is a
	// terminal state, not a failure.
	ErrCancelled = errors.New("cancelled")
)

// MissingKeyError is returned when the selected provider has no usable credential.
type MissingKeyError struct {
	Provider models.Provider
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider.DisplayName())
}

// NetworkError wraps a transport-level failure that survived every retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError is returned when a provider was reached but rejected the
// request. Message may carry vendor detail such as type, code or status.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Cancelled wraps a context error so callers can match both ErrCancelled
// and the underlying context.Canceled or context.DeadlineExceeded.
func Cancelled(cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// IsCancelled reports whether err represents caller cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// Kind returns a stable, machine-readable name for an error in the taxonomy.
func Kind(err error) string {
	var (
		missing *MissingKeyError
		network *NetworkError
		service *ServiceError
	)
	switch {
	case err == nil:
		return ""
	case IsCancelled(err):
		return "cancelled"
	case errors.As(err, &missing):
		return "missing_key"
	case errors.As(err, &network):
		return "network"
	case errors.As(err, &service):
		return "service_error"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrDecodingFailed):
		return "decoding_failed"
	case errors.Is(err, models.ErrInvalidSpec):
		return "invalid_spec"
	default:
		return "unknown"
	}
}
