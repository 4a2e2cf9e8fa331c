package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceClosed is returned when a source runs dry before the sentinel.
	ErrSourceClosed = errors.New("source closed")
)

// InputError reports a token that couldn't be read as an integer.
type InputError struct {
	Token string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q : %v", e.Token, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
