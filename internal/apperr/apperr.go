// Package apperr classifies service failures by how an API client sees them.
package apperr

import (
	"errors"

	goerrors "github.com/go-errors/errors"
)

type Kind int

const (
	// KindInternal is the zero Kind: anything unclassified is a server fault.
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "internal"
	}
}

// Error pairs a message that is safe to show a client with the cause behind
// it. Only internal errors record a stack; the others are expected outcomes.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
	stack []byte
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String() + ": " + e.Msg
	}
	return e.Kind.String() + ": " + e.Msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

func NotFound(msg string, cause error) *Error {
	return &Error{Kind: KindNotFound, Msg: msg, cause: cause}
}

func InvalidInput(msg string, cause error) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg, cause: cause}
}

// Internal wraps cause, recording the caller's stack unless cause already
// carries one.
func Internal(msg string, cause error) *Error {
	e := &Error{Kind: KindInternal, Msg: msg, cause: cause}
	var withStack *goerrors.Error
	switch {
	case errors.As(cause, &withStack):
		e.stack = withStack.Stack()
	case cause != nil:
		e.stack = goerrors.Wrap(cause, 1).Stack()
	default:
		e.stack = goerrors.New(msg).Stack()
	}
	return e
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

func StackOf(err error) []byte {
	var e *Error
	if errors.As(err, &e) {
		return e.stack
	}
	return nil
}
