package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidArgument = errors.New("invalid argument")

type ArgumentError struct {
	message string
}

// [ArgumentError] implements [error]
func (e ArgumentError) Error() string {
	return e.message
}

// Is reports ArgumentError as [ErrInvalidArgument] to [errors.Is].
func (e ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func Errorf(format string, args ...any) ArgumentError {
	return ArgumentError{fmt.Sprintf(format, args...)}
}
