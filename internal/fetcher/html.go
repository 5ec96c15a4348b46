package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"siteharvest/internal/extract"
	"siteharvest/internal/metadata"
	"siteharvest/pkg/failure"
	"siteharvest/pkg/retry"
)

/*
Responsibilities

- Perform one bounded HTTP GET per page, with retry
- Apply the configured user agent and timeout
- Parse the body into extracted text and normalized outbound links

Fetch semantics

- Any attempt-level failure (timeout, transport error, non-2xx status) is
  retried with a fixed delay up to the configured attempt count
- Exhausting attempts is a terminal, recoverable outcome: the caller treats
  it as "no content, no links" and the crawl continues
- All fetches are logged through the metadata sink

The fetcher mutates no shared state; one PageResult per call.
*/

type HtmlFetcher struct {
	metadataSink metadata.Sink
	httpClient   *http.Client
	userAgent    string
	retryParam   retry.RetryParam
}

func NewHtmlFetcher(
	metadataSink metadata.Sink,
	userAgent string,
	timeout time.Duration,
	retryParam retry.RetryParam,
) HtmlFetcher {
	return HtmlFetcher{
		metadataSink: metadataSink,
		httpClient:   &http.Client{Timeout: timeout},
		userAgent:    userAgent,
		retryParam:   retryParam,
	}
}

func (h *HtmlFetcher) Fetch(
	ctx context.Context,
	pageURL *url.URL,
	crawlDepth int,
) (PageResult, failure.ClassifiedError) {
	callerMethod := "HtmlFetcher.Fetch"
	startTime := time.Now()

	fetchTask := func() (PageResult, failure.ClassifiedError) {
		return h.performFetch(ctx, pageURL)
	}
	result, err := retry.Retry(h.retryParam, fetchTask)

	duration := time.Since(startTime)

	var statusCode int
	var retryCount int
	if err != nil {
		var retryErr *retry.RetryError
		if errors.As(err, &retryErr) {
			retryCount = h.retryParam.MaxAttempts
		}
	} else {
		statusCode = result.Code()
	}

	h.metadataSink.RecordFetch(pageURL.String(), statusCode, duration, retryCount, crawlDepth)

	if err != nil {
		h.recordError(callerMethod, pageURL, err)
		return PageResult{}, err
	}

	return result, nil
}

func (h *HtmlFetcher) recordError(callerMethod string, pageURL *url.URL, err failure.ClassifiedError) {
	cause := metadata.CauseUnknown

	var retryError *retry.RetryError
	var fetchError *FetchError
	switch {
	case errors.As(err, &retryError):
		cause = metadata.CauseRetryExhausted
	case errors.As(err, &fetchError):
		cause = mapFetchErrorToMetadataCause(fetchError)
	}

	h.metadataSink.RecordError("fetcher", callerMethod, cause, err.Error(), pageURL.String())
}

func (h *HtmlFetcher) performFetch(ctx context.Context, pageURL *url.URL) (PageResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return PageResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		if isTimeout(err) {
			cause = ErrCauseTimeout
		}
		return PageResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     cause,
		}
	}
	defer resp.Body.Close()

	// Every non-2xx response is a retryable error condition; the retry budget
	// is the only thing that distinguishes transient from permanent failures.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PageResult{}, &FetchError{
			Message:   fmt.Sprintf("status %d", resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseBadStatus,
		}
	}

	doc, err := extract.NewDocument(resp.Body)
	if err != nil {
		// Only reader failures reach here; malformed HTML parses best-effort.
		return PageResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadBody,
		}
	}

	return PageResult{
		url:        pageURL,
		text:       doc.Text(),
		links:      doc.Links(pageURL),
		statusCode: resp.StatusCode,
	}, nil
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
