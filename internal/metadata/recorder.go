package metadata

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

/*
Recorder captures structured crawl events.

Metadata collected:
- Fetch timestamps, HTTP status codes, retry counts, crawl depth
- Error causes and the component that observed them
- Written artifacts
- Final crawl statistics

Metadata is write-only. No component may read recorded events to influence
crawl decisions; it exists for debuggability and post-run auditability.
*/

// Sink is the write-only event interface handed to every component.
type Sink interface {
	RecordFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int, crawlDepth int)
	RecordError(component string, action string, cause ErrorCause, message string, subject string)
	RecordArtifact(kind ArtifactKind, path string, digest string)
	RecordCrawlSummary(discovered int, extracted int, duration time.Duration)
}

type Recorder struct {
	logger *log.Logger
}

func NewRecorder(w io.Writer) *Recorder {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "siteharvest",
	})
	return &Recorder{logger: logger}
}

func (r *Recorder) RecordFetch(
	fetchURL string,
	httpStatus int,
	duration time.Duration,
	retryCount int,
	crawlDepth int,
) {
	r.logger.Info("fetch",
		"url", fetchURL,
		"status", httpStatus,
		"duration", duration,
		"retries", retryCount,
		"depth", crawlDepth,
	)
}

func (r *Recorder) RecordError(
	component string,
	action string,
	cause ErrorCause,
	message string,
	subject string,
) {
	r.logger.Error("error",
		"component", component,
		"action", action,
		"cause", string(cause),
		"message", message,
		"subject", subject,
	)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, digest string) {
	r.logger.Info("artifact", "kind", string(kind), "path", path, "digest", digest)
}

// RecordCrawlSummary records a terminal, derived summary of a completed crawl.
// It must be called exactly once per crawl execution, after termination.
func (r *Recorder) RecordCrawlSummary(discovered int, extracted int, duration time.Duration) {
	r.logger.Info("crawl complete",
		"discovered", discovered,
		"extracted", extracted,
		"duration", duration,
	)
}
