package cerr

import (
	"errors"
	"fmt"
)

// Error pairs a classification Code with a user-presentable message and an
// optional underlying error kept for logs only.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func NewError(code Code, msg string, underlying error) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
		Err:  underlying,
	}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code.String(), e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the Code from err, walking the wrap chain.
// A nil error is OK; anything uncoded is Unknown.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Code
	}
	return Unknown
}

// IsCode reports whether err carries the given Code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
