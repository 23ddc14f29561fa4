package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoot reports a root path that does not exist or is not a directory.
	ErrInvalidRoot = errors.New("invalid root path")
	// ErrIgnoredPathRejected reports a root or destination path matching an ignore pattern.
	ErrIgnoredPathRejected = errors.New("path is on the ignore list")
	// ErrDestinationExists reports a mirror destination that is already present.
	ErrDestinationExists = errors.New("destination path already exists")
	// ErrSourceMissing reports a source directory that vanished during a mirror.
	ErrSourceMissing = errors.New("source path does not exist")
	// ErrTocWrite reports a table of contents that could not be written.
	ErrTocWrite = errors.New("table of contents could not be written")
)

// PathError attaches the offending path and a readable reason to one of the sentinel errors.
type PathError struct {
	Kind   error
	Path   string
	Reason string
	Err    error
}

// NewPathError builds a PathError without an underlying cause.
func NewPathError(kind error, path string, reason string) *PathError {
	return &PathError{Kind: kind, Path: path, Reason: reason}
}

// WrapPathError builds a PathError around an underlying cause.
func WrapPathError(kind error, path string, reason string, cause error) *PathError {
	return &PathError{Kind: kind, Path: path, Reason: reason, Err: cause}
}

func (pathError *PathError) Error() string {
	message := fmt.Sprintf("%v: %s", pathError.Kind, pathError.Reason)
	if pathError.Err != nil {
		message += ": " + pathError.Err.Error()
	}
	return message
}

// Is matches the sentinel kind so callers can use errors.Is.
func (pathError *PathError) Is(target error) bool {
	return target == pathError.Kind
}

func (pathError *PathError) Unwrap() error {
	return pathError.Err
}
