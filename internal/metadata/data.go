package metadata

// Canonical cause table for recorded errors. Causes are observational labels,
// mirroring the crawl's error taxonomy; they never drive control flow.
type ErrorCause string

const (
	CauseNetworkTimeout ErrorCause = "network timeout"
	CauseNetworkFailure ErrorCause = "network failure"
	CauseParseDegraded  ErrorCause = "parse degraded"
	CauseRetryExhausted ErrorCause = "retry exhausted"
	CauseStorageFailure ErrorCause = "storage failure"
	CauseUnknown        ErrorCause = "unknown"
)

type ArtifactKind string

const (
	ArtifactURLList  ArtifactKind = "url-list"
	ArtifactHTML     ArtifactKind = "html"
	ArtifactText     ArtifactKind = "text"
	ArtifactDocument ArtifactKind = "document"
	ArtifactImage    ArtifactKind = "image"
	ArtifactOther    ArtifactKind = "file"
)
