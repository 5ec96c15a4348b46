package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteharvest/internal/fetcher"
	"siteharvest/internal/metadata"
	"siteharvest/pkg/retry"
)

// mockSink is a test double for metadata.Sink
type mockSink struct {
	fetchEvents []fetchEvent
	errorEvents []errorEvent
}

type fetchEvent struct {
	fetchURL   string
	httpStatus int
	retryCount int
	crawlDepth int
}

type errorEvent struct {
	component string
	cause     metadata.ErrorCause
	subject   string
}

func (m *mockSink) RecordFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int, crawlDepth int) {
	m.fetchEvents = append(m.fetchEvents, fetchEvent{
		fetchURL:   fetchURL,
		httpStatus: httpStatus,
		retryCount: retryCount,
		crawlDepth: crawlDepth,
	})
}

func (m *mockSink) RecordError(component string, action string, cause metadata.ErrorCause, message string, subject string) {
	m.errorEvents = append(m.errorEvents, errorEvent{component: component, cause: cause, subject: subject})
}

func (m *mockSink) RecordArtifact(kind metadata.ArtifactKind, path string, digest string) {}

func (m *mockSink) RecordCrawlSummary(discovered int, extracted int, duration time.Duration) {}

func testRetryParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(time.Millisecond, maxAttempts)
}

func serverURL(t *testing.T, s *httptest.Server) *url.URL {
	t.Helper()
	u, err := url.Parse(s.URL)
	require.NoError(t, err)
	return u
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "harvest-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`<html><body><p>hello  world</p><a href="/next#frag">next</a><a href="mailto:x@y.z">mail</a></body></html>`))
	}))
	defer server.Close()

	sink := &mockSink{}
	f := fetcher.NewHtmlFetcher(sink, "harvest-test/1.0", time.Second, testRetryParam(3))

	result, err := f.Fetch(context.Background(), serverURL(t, server), 2)
	require.Nil(t, err)

	assert.Equal(t, "hello world", result.Text())
	require.Len(t, result.Links(), 1)
	assert.Equal(t, server.URL+"/next", result.Links()[0].String())
	assert.Equal(t, http.StatusOK, result.Code())

	require.Len(t, sink.fetchEvents, 1)
	assert.Equal(t, http.StatusOK, sink.fetchEvents[0].httpStatus)
	assert.Equal(t, 2, sink.fetchEvents[0].crawlDepth)
	assert.Empty(t, sink.errorEvents)
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`<html><body><p>recovered</p></body></html>`))
	}))
	defer server.Close()

	sink := &mockSink{}
	f := fetcher.NewHtmlFetcher(sink, "harvest-test/1.0", time.Second, testRetryParam(3))

	result, err := f.Fetch(context.Background(), serverURL(t, server), 0)
	require.Nil(t, err)
	assert.Equal(t, "recovered", result.Text())
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sink := &mockSink{}
	f := fetcher.NewHtmlFetcher(sink, "harvest-test/1.0", time.Second, testRetryParam(3))

	_, err := f.Fetch(context.Background(), serverURL(t, server), 0)
	require.NotNil(t, err)

	var retryErr *retry.RetryError
	assert.True(t, errors.As(err, &retryErr))
	assert.Equal(t, int32(3), calls.Load())

	// the fetch event reports the exhausted retry budget
	require.Len(t, sink.fetchEvents, 1)
	assert.Equal(t, 3, sink.fetchEvents[0].retryCount)

	require.Len(t, sink.errorEvents, 1)
	assert.Equal(t, "fetcher", sink.errorEvents[0].component)
	assert.Equal(t, metadata.CauseRetryExhausted, sink.errorEvents[0].cause)
}

func TestFetchConnectionRefusedIsRetriedAndFails(t *testing.T) {
	// a server that is already closed refuses connections
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := serverURL(t, server)
	server.Close()

	sink := &mockSink{}
	f := fetcher.NewHtmlFetcher(sink, "harvest-test/1.0", time.Second, testRetryParam(2))

	_, err := f.Fetch(context.Background(), deadURL, 0)
	require.NotNil(t, err)

	var retryErr *retry.RetryError
	assert.True(t, errors.As(err, &retryErr))
}

func TestFetchMalformedHTMLStillSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>partial <a href="/ok">link`))
	}))
	defer server.Close()

	sink := &mockSink{}
	f := fetcher.NewHtmlFetcher(sink, "harvest-test/1.0", time.Second, testRetryParam(1))

	result, err := f.Fetch(context.Background(), serverURL(t, server), 0)
	require.Nil(t, err)
	assert.Contains(t, result.Text(), "partial")
	require.Len(t, result.Links(), 1)
}
