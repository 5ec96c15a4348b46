package fetcher

import (
	"fmt"

	"siteharvest/internal/metadata"
	"siteharvest/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout        FetchErrorCause = "request timed out"
	ErrCauseNetworkFailure FetchErrorCause = "network failure"
	ErrCauseBadStatus      FetchErrorCause = "non-success status"
	ErrCauseReadBody       FetchErrorCause = "read response body failed"
)

type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error: %s, %s", e.Cause, e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics to the
// canonical metadata cause table. Observational only.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout:
		return metadata.CauseNetworkTimeout
	case ErrCauseNetworkFailure, ErrCauseBadStatus:
		return metadata.CauseNetworkFailure
	case ErrCauseReadBody:
		return metadata.CauseParseDegraded
	default:
		return metadata.CauseUnknown
	}
}
