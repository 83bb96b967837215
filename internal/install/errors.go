package install

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrorKind classifies install failures.
type ErrorKind string

const (
	KindNetwork          ErrorKind = "network"
	KindFileSystem       ErrorKind = "filesystem"
	KindSpawn            ErrorKind = "spawn"
	KindConflict         ErrorKind = "conflict"
	KindNotFound         ErrorKind = "not_found"
	KindPersistence      ErrorKind = "persistence"
	KindUnknownToken     ErrorKind = "unknown_token"
	KindAlreadyConfirmed ErrorKind = "already_confirmed"
	KindInvalidRequest   ErrorKind = "invalid_request"
)

// Error is a classified install failure. Message is safe to show to API
// callers; Err carries the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Path    string
	PID     int
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorKind returns the string classification of the error.
func (e *Error) ErrorKind() string {
	if e == nil {
		return ""
	}
	return string(e.Kind)
}

func newError(kind ErrorKind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// ConflictError reports an installer that is still running.
func ConflictError(pid int) *Error {
	return &Error{
		Kind:    KindConflict,
		Op:      "confirm",
		Message: "Please exit installer (pid = " + strconv.Itoa(pid) + ")",
		PID:     pid,
	}
}

// NotFoundError reports a claimed install location that is not a directory.
func NotFoundError(path string, err error) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      "confirm",
		Message: "Installation is not found on " + path,
		Path:    path,
		Err:     err,
	}
}

// InvalidRequestError reports a request that cannot be interpreted.
func InvalidRequestError(op string, err error) *Error {
	message := "invalid request"
	if err != nil {
		message = err.Error()
	}
	return &Error{Kind: KindInvalidRequest, Op: op, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var installErr *Error
	if errors.As(err, &installErr) && installErr != nil {
		return installErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}

// HTTPStatus maps an error to the status code the API responds with.
// Unclassified errors are internal failures.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindConflict, KindNotFound, KindInvalidRequest:
		return http.StatusBadRequest
	case KindUnknownToken:
		return http.StatusForbidden
	case KindAlreadyConfirmed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text an API caller should see for err.
func PublicMessage(err error) string {
	var installErr *Error
	if errors.As(err, &installErr) && installErr != nil && installErr.Message != "" {
		return installErr.Message
	}
	return "internal error"
}

// StatusError is returned by Fetch for non-success HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}
