package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrEmptySnapshot    = errors.New("empty snapshot")
	ErrSnapshotTooLarge = errors.New("snapshot exceeds size limit")
	ErrNoMatchingPage   = errors.New("no open page matches")
	ErrUnknownEncoding  = errors.New("unsupported content encoding")
)

// SnapshotError wraps errors that occur while loading or parsing a snapshot.
type SnapshotError struct {
	Source string
	Err    error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot error for %s: %v", e.Source, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// SelectorError reports a structural pattern that failed to compile.
type SelectorError struct {
	Name     string
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid %s selector %q: %v", e.Name, e.Selector, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the record pipeline.
type PipelineError struct {
	Stage    string
	RecordID string
	Err      error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q (record %s): %v", e.Stage, e.RecordID, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
