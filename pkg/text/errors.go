package text

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrIO marks a file that could not be read or written
	ErrIO = errors.Base("file i/o failed")

	// ErrEncoding marks a file that is not valid UTF-8. It also matches ErrIO.
	ErrEncoding = errors.Base("invalid utf-8 encoding")
)

// 🚨 FileError describes why a single file could not be processed
type FileError struct {
	Path string // File that failed
	Kind error  // ErrIO or ErrEncoding
	Err  error  // Underlying cause, may be nil
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error
func (e *FileError) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return e.Kind == ErrEncoding && target == ErrIO
}
