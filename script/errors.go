package script

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrMisuse indicates the caller violated the executor's contract,
	// such as passing duplicate dependency names. Snippet failures never
	// match it.
	ErrMisuse = errors.New("engine misuse")

	// ErrClosed indicates a submission after Close.
	ErrClosed = errors.New("executor closed")
)

// MisuseError describes a rejected submission.
type MisuseError struct {
	// Dependency is the offending dependency name, if any.
	Dependency string

	// Reason describes the violation.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the violation, naming the dependency when known.
func (e *MisuseError) Error() string {
	if e.Dependency != "" {
		return fmt.Sprintf("%s: dependency %q: %s", ErrMisuse, e.Dependency, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMisuse, e.Reason)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *MisuseError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// MisuseError matches ErrMisuse to allow sentinel-style error checking.
func (e *MisuseError) Is(target error) bool {
	return target == ErrMisuse
}
