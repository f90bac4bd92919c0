package frames

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotFound is returned when ffmpeg cannot be located.
	ErrToolNotFound = errors.New("ffmpeg not found")
	// ErrNoVideos is returned when a batch contains no supported video files.
	ErrNoVideos = errors.New("no video files selected")
)

// ExtractionError reports a failed ffmpeg invocation for one video.
type ExtractionError struct {
	Video  string
	Frame  string
	Output string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extract %s frame from %s: %v", e.Frame, e.Video, e.Err)
	if tail := strings.TrimSpace(e.Output); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// BatchError wraps every per-video failure of a batch.
type BatchError struct {
	Total  int
	Failed []*ExtractionError
}

func (e *BatchError) Error() string {
	if len(e.Failed) == 0 {
		return "frame extraction failed"
	}
	msg := fmt.Sprintf("%d of %d videos failed: %s", len(e.Failed), e.Total, e.Failed[0].Error())
	if extra := len(e.Failed) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Unwrap exposes each ExtractionError to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, failed := range e.Failed {
		errs = append(errs, failed)
	}
	return errs
}
