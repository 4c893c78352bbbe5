package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrDeclined indicates the confirmation step was answered with no.
	ErrDeclined = errors.New("action declined")
	// ErrUnmounted indicates the session was unmounted; late results are discarded.
	ErrUnmounted = errors.New("session unmounted")
	// ErrNotReady indicates the initial load has not completed.
	ErrNotReady = errors.New("section not loaded")
)

// FetchError wraps any failure of a remote call.
type FetchError struct {
	Section string
	Op      string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Section, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
