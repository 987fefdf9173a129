package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of the external analysis service.
type ErrorKind int

const (
	// KindFatal aborts the item immediately, no further attempts.
	KindFatal ErrorKind = iota
	// KindTransient covers overload, rate limiting and temporary
	// unavailability; eligible for backoff retry.
	KindTransient
	// KindMalformedResponse marks a response that is not parseable as
	// structured data even after extraction. Not retryable.
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "fatal"
	}
}

// ServiceError carries the classification of a failed service call.
type ServiceError struct {
	Kind ErrorKind
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("analysis service (%s): %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from an error chain. Unclassified errors
// are fatal.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindFatal
}

// IsTransient reports whether the error is worth retrying.
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}
