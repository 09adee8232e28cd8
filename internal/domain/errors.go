package domain

import (
	"errors"
	"fmt"
)

// Kind partitions service failures into the categories the HTTP boundary
// knows how to render.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindUnauthorized    Kind = "unauthorized"
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindInternal        Kind = "internal"
)

// Error is a classified service error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a classified error without a cause.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapE classifies an underlying error.
func WrapE(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for
// unclassified failures.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindInternal
}
