package analysis

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies pipeline failures.
type Kind string

const (
	KindInput             Kind = "input"
	KindEmptyDocument     Kind = "empty_document"
	KindExtraction        Kind = "extraction"
	KindMalformedResponse Kind = "malformed_response"
	KindProvider          Kind = "provider"
	KindNoInsights        Kind = "no_insights"
	KindCanceled          Kind = "canceled"
)

// Error is the single error type surfaced by the pipeline. Message is safe to
// show to users; Err carries the underlying detail for logs and debug output.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var defaultMessages = map[Kind]string{
	KindInput:             "No PDF file uploaded.",
	KindEmptyDocument:     "This PDF seems to be empty or unreadable. Please make sure it contains clear text or images.",
	KindExtraction:        "We could not read this PDF. It may be corrupted, encrypted, or password-protected.",
	KindMalformedResponse: "AI returned invalid format.",
	KindProvider:          "AI analysis failed.",
	KindNoInsights:        "AI was unable to generate any insights. Try a different file.",
	KindCanceled:          "Analysis was cancelled.",
}

var defaultStatus = map[Kind]int{
	KindInput:             http.StatusBadRequest,
	KindEmptyDocument:     http.StatusUnprocessableEntity,
	KindExtraction:        http.StatusUnprocessableEntity,
	KindMalformedResponse: http.StatusInternalServerError,
	KindProvider:          http.StatusInternalServerError,
	KindNoInsights:        http.StatusInternalServerError,
	KindCanceled:          http.StatusRequestTimeout,
}

// NewError builds an Error with the default message and status for kind.
func NewError(kind Kind, err error) *Error {
	status, ok := defaultStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: kind, Status: status, Message: defaultMessages[kind], Err: err}
}

// KindOf reports the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "Something went wrong while analyzing the document."
}
