package mover

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFilesSelected is returned when Move is called without sources.
	ErrNoFilesSelected = errors.New("no files selected")
	// ErrInvalidDestination is returned when the destination name is empty,
	// absolute, or escapes the pictures root.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrDuplicateName marks a source whose base name an earlier source in
	// the same batch already claimed.
	ErrDuplicateName = errors.New("another selected file has the same name")
)

// FileError is the failure of a single rename.
type FileError struct {
	Source string
	Target string
	Err    error
}

func (e FileError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("move %s: %v", e.Source, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// MoveError reports a batch in which at least one rename failed.
type MoveError struct {
	Destination string
	Requested   int
	Moved       []Moved
	Failed      []FileError
}

func (e *MoveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "moved %d of %d files into %s", len(e.Moved), e.Requested, e.Destination)
	if len(e.Failed) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Failed[0].Error())
		if extra := len(e.Failed) - 1; extra > 0 {
			fmt.Fprintf(&b, " (and %d more)", extra)
		}
	}
	return b.String()
}

// Unwrap exposes every per-file cause to errors.Is and errors.As.
func (e *MoveError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, failed := range e.Failed {
		errs = append(errs, failed)
	}
	return errs
}
