package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var xerr Error
	if errors.As(err, &xerr) {
		return xerr.Code == code
	}

	return false
}

// IsAlreadyExists reports whether err is a uniqueness rejection. Idempotent
// inserts (reactions, badge awards) treat this as a benign race, not a failure.
func IsAlreadyExists(err error) bool {
	return IsCode(err, AlreadyExists)
}
