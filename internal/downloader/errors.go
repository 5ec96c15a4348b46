package downloader

import (
	"fmt"

	"siteharvest/internal/metadata"
	"siteharvest/pkg/failure"
)

type DownloadErrorCause string

const (
	ErrCauseURLListUnreadable DownloadErrorCause = "url list file unreadable"
	ErrCauseBadURL            DownloadErrorCause = "malformed url"
	ErrCauseTimeout           DownloadErrorCause = "request timed out"
	ErrCauseNetworkFailure    DownloadErrorCause = "network failure"
	ErrCauseBadStatus         DownloadErrorCause = "non-success status"
)

type DownloadError struct {
	Message   string
	Retryable bool
	Cause     DownloadErrorCause
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download error: %s, %s", e.Cause, e.Message)
}

func (e *DownloadError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *DownloadError) IsRetryable() bool {
	return e.Retryable
}

func mapDownloadErrorToMetadataCause(err *DownloadError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout:
		return metadata.CauseNetworkTimeout
	case ErrCauseNetworkFailure, ErrCauseBadStatus, ErrCauseBadURL:
		return metadata.CauseNetworkFailure
	case ErrCauseURLListUnreadable:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
