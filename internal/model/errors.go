package model

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a class of domain failure.
type ErrorKind string

const (
	KindDuplicateEmail    ErrorKind = "DuplicateEmail"
	KindUserNotFound      ErrorKind = "UserNotFound"
	KindIncorrectPassword ErrorKind = "IncorrectPassword"
	KindNotAuthenticated  ErrorKind = "NotAuthenticated"
	KindNotFound          ErrorKind = "NotFound"
	KindValidation        ErrorKind = "ValidationError"
)

// Error is a domain error carrying a kind and a message meant for the user.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is a domain error of the same kind, so that
// errors.Is(err, ErrNotFound) matches any NotFound error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrDuplicateEmail    = &Error{Kind: KindDuplicateEmail, Message: "An account with this email already exists."}
	ErrUserNotFound      = &Error{Kind: KindUserNotFound, Message: "User not found."}
	ErrIncorrectPassword = &Error{Kind: KindIncorrectPassword, Message: "Incorrect current password."}
	ErrNotAuthenticated  = &Error{Kind: KindNotAuthenticated, Message: "You must be logged in."}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "Record not found."}
	ErrValidation        = &Error{Kind: KindValidation, Message: "Invalid input."}
)

// Validation returns a ValidationError with the given message.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a NotFound error naming what was missing.
func NotFound(what, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %q not found.", what, id)}
}

// KindOf returns the domain kind of err, or "" if err is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
