package storage

import (
	"fmt"

	"siteharvest/pkg/failure"
)

type StorageErrorCause string

const (
	ErrCausePathError    StorageErrorCause = "path error"
	ErrCauseWriteFailure StorageErrorCause = "write failed"
)

type StorageError struct {
	Message   string
	Retryable bool
	Cause     StorageErrorCause
	Path      string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %s", e.Cause, e.Message)
}

func (e *StorageError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
