// Package apierror classifies failures from the resume API into a small, fixed taxonomy.
package apierror

import (
	"errors"
	"fmt"
)

// Kind is the classification attached to every failure surfaced by the API client.
type Kind string

const (
	// KindNetwork covers connectivity problems, timeouts and cancellation.
	KindNetwork Kind = "network"
	// KindValidation covers malformed request/response data and 4xx responses.
	KindValidation Kind = "validation"
	// KindServer covers 5xx responses.
	KindServer Kind = "server"
	// KindUnknown is anything that could not be classified.
	KindUnknown Kind = "unknown"
)

// Messages used by the classifier for failures without a better description.
const (
	MessageCancelled  = "Request was cancelled"
	MessageUnexpected = "An unexpected error occurred"
)

// Error is a classified API failure.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // zero when no HTTP status is involved
	Original   any // the value that was classified, if any
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap exposes the original failure when it was an error.
func (e *Error) Unwrap() error {
	if err, ok := e.Original.(error); ok {
		return err
	}
	return nil
}

// New builds a classified error.
func New(kind Kind, message string, original any) *Error {
	return &Error{Kind: kind, Message: message, Original: original}
}

// Cancelled builds the network error reported for aborted requests.
func Cancelled(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: MessageCancelled, Original: cause}
}

// Validation builds a validation error with the given message.
func Validation(message string, original any) *Error {
	return &Error{Kind: KindValidation, Message: message, Original: original}
}

// KindOf returns the kind of a classified error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err's chain holds a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
