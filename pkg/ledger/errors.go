package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrRejected   = errors.New("business rule violation")
	ErrData       = errors.New("malformed data")
)

// Error is a ledger failure with a message fit for the operation's caller.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func rejectedf(format string, args ...any) error {
	return &Error{Kind: ErrRejected, Msg: fmt.Sprintf(format, args...)}
}

func dataf(format string, args ...any) error {
	return &Error{Kind: ErrData, Msg: fmt.Sprintf(format, args...)}
}
