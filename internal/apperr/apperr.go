// Package apperr is the error taxonomy shared by the domain services.
// Handlers translate a Kind into a transport status; services only decide
// which kind a failure is.
package apperr

import "errors"

type Kind string

const (
	KindValidation Kind = "validation"
	KindForbidden  Kind = "forbidden"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindExternal   Kind = "external"
	KindInternal   Kind = "internal"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error { return New(KindValidation, code, message) }
func Forbidden(code, message string) *Error  { return New(KindForbidden, code, message) }
func Conflict(code, message string) *Error   { return New(KindConflict, code, message) }
func NotFound(code, message string) *Error   { return New(KindNotFound, code, message) }

// External wraps a collaborator failure.
func External(code, message string, err error) *Error {
	return &Error{Kind: KindExternal, Code: code, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
