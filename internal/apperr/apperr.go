// Package apperr defines the pipeline error taxonomy. Every failure that
// can surface to an API client is wrapped in an *Error carrying a Kind, so
// handlers map kinds to response codes instead of string-matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindValidation      Kind = "validation"       // bad URL, never reached the network
	KindTranscript      Kind = "transcript"       // transport or remote-reported transcript failure
	KindEmptyTranscript Kind = "empty_transcript" // remote succeeded but yielded no usable content
	KindExtraction      Kind = "extraction"       // malformed or unparseable AI output
	KindSafetyBlocked   Kind = "safety_blocked"   // extraction blocked by content-safety filters
	KindStorage         Kind = "storage"          // persistence failure, contained by the archive
	KindBusy            Kind = "busy"             // an analysis is already in flight
)

// Error is a classified pipeline error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error, keeping it in the chain.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err, or an empty Kind for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage returns the message to surface for err. Classified errors
// surface their own message; anything else degrades to a generic one.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "An unexpected processing error occurred"
}
