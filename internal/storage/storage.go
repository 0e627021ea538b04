package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIO means the recording could not be written
	ErrIO = errors.New("failed to write recording")
	// ErrUserCancelled means the user dismissed the save prompt
	ErrUserCancelled = errors.New("save cancelled")
)

// Extension is the container extension of saved recordings
const Extension = ".webm"

// DefaultFileName returns the suggested file name for a recording started at t
func DefaultFileName(t time.Time) string {
	return fmt.Sprintf("screen-recording-%d%s", t.UnixMilli(), Extension)
}

// Chooser picks the destination path of a recording. Implementations
// return ErrUserCancelled when the user declines to save.
type Chooser interface {
	Choose(ctx context.Context, suggested string) (string, error)
}

// Writer persists a recording
type Writer interface {
	WriteFile(ctx context.Context, path string, data []byte) (string, error)
}

// Sink combines a Chooser and a Writer
type Sink struct {
	Chooser Chooser
	Writer  Writer
}

// NewSink creates a sink. A nil chooser saves to the suggested path.
func NewSink(chooser Chooser, writer Writer) *Sink {
	if chooser == nil {
		chooser = AutoChooser{}
	}
	if writer == nil {
		writer = &FileWriter{}
	}
	return &Sink{Chooser: chooser, Writer: writer}
}

// ChooseDestination asks the chooser for a path
func (s *Sink) ChooseDestination(ctx context.Context, suggested string) (string, error) {
	path, err := s.Chooser.Choose(ctx, suggested)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrUserCancelled
	}
	return path, nil
}

// Write stores data at path and returns the path actually written, which
// carries the .webm extension when path had none
func (s *Sink) Write(ctx context.Context, path string, data []byte) (string, error) {
	return s.Writer.WriteFile(ctx, path, data)
}
