package model

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an upload carries no bytes.
var ErrEmptyInput = errors.New("empty file received")

// InvalidImageError reports bytes that could not be parsed as a raster image.
type InvalidImageError struct {
	Err error
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image file: %v", e.Err)
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

// DetectionBackendError reports a failure inside the detection model.
type DetectionBackendError struct {
	Backend string
	Err     error
}

func (e *DetectionBackendError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("detection backend failed: %v", e.Err)
	}
	return fmt.Sprintf("detection backend %s failed: %v", e.Backend, e.Err)
}

func (e *DetectionBackendError) Unwrap() error { return e.Err }

// EncodeError reports a failure while serializing the annotated image.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode result image: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// SpeechError reports a failure inside the speech engine. It is logged and
// never returned to an HTTP caller.
type SpeechError struct {
	Text string
	Err  error
}

func (e *SpeechError) Error() string {
	return fmt.Sprintf("speech failed for %q: %v", e.Text, e.Err)
}

func (e *SpeechError) Unwrap() error { return e.Err }
