package platform

import "fmt"

type errorType string

const (
	// InvalidRequest covers both construction/precondition violations and
	// malformed serialized requests.
	InvalidRequest errorType = "invalid_request"

	// InvalidScope is returned when the requested scope list is empty or
	// misses the mandatory openId scope.
	InvalidScope errorType = "invalid_scope"

	// ServerError signals an internal failure, e.g. the secure random
	// source running dry.
	ServerError errorType = "server_error"
)

var (
	ErrInvalidRequest = func() *Error {
		return &Error{ErrorType: InvalidRequest}
	}
	ErrInvalidScope = func() *Error {
		return &Error{ErrorType: InvalidScope}
	}
	ErrServerError = func() *Error {
		return &Error{ErrorType: ServerError}
	}
)

type Error struct {
	Parent      error     `json:"-" schema:"-"`
	ErrorType   errorType `json:"error" schema:"error"`
	Description string    `json:"error_description,omitempty" schema:"error_description,omitempty"`
}

func (e *Error) Error() string {
	message := "ErrorType=" + string(e.ErrorType)
	if e.Description != "" {
		message += " Description=" + e.Description
	}
	if e.Parent != nil {
		message += " Parent=" + e.Parent.Error()
	}
	return message
}

func (e *Error) Unwrap() error {
	return e.Parent
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ErrorType == t.ErrorType &&
		(e.Description == t.Description || t.Description == "")
}

func (e *Error) WithParent(err error) *Error {
	e.Parent = err
	return e
}

func (e *Error) WithDescription(desc string, args ...any) *Error {
	e.Description = fmt.Sprintf(desc, args...)
	return e
}
