// Package apperr holds the error taxonomy shared by the client and the
// order pipeline services. Every remote-call failure is converted into one
// of these at the call site; nothing else crosses a service boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Validation codes surfaced inline next to the offending input.
const (
	CodeEmptyFileList   = "EMPTY_FILE_LIST"
	CodeInvalidQuantity = "INVALID_QUANTITY"
	CodeUnknownField    = "UNKNOWN_FIELD"
	CodeMissingField    = "MISSING_FIELD"
)

// ErrAuthRejected marks a credential rejection (HTTP 401). The client has
// already cleared the stored credential by the time callers see this.
var ErrAuthRejected = errors.New("authentication rejected")

// ValidationError is a client-side input problem. It blocks progress and
// is never sent to the remote service.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// NetworkError covers timeouts and unreachable hosts. Shown to the user as
// a generic retryable message; the cause is kept for logs.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return "network error, please try again" }

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError carries an explicit failure message from the remote service,
// shown to the user verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
