// Package downloader batch-fetches the resources named in a URL inventory
// file and files them into category directories.
package downloader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"siteharvest/internal/classify"
	"siteharvest/internal/config"
	"siteharvest/internal/extract"
	"siteharvest/internal/metadata"
	"siteharvest/internal/storage"
	"siteharvest/pkg/failure"
	"siteharvest/pkg/fileutil"
	"siteharvest/pkg/retry"
)

/*
Responsibilities
- Read the URL inventory produced by a crawl, one URL per line
- Download only resources on allow-listed hosts
- Route each payload into a category directory by Content-Type, falling back
  to the URL path extension
- Save HTML twice: the raw page under html_pages and its extracted text twin
  under text_content, sharing the same base filename

Per-URL failures are recorded and skipped; only an unreadable URL list aborts
the run.
*/

type Downloader struct {
	cfg          config.Config
	metadataSink metadata.Sink
	storageSink  storage.Sink
	httpClient   *http.Client
	retryParam   retry.RetryParam
}

func New(cfg config.Config, metadataSink metadata.Sink) Downloader {
	return Downloader{
		cfg:          cfg,
		metadataSink: metadataSink,
		storageSink:  storage.NewSink(metadataSink),
		httpClient:   &http.Client{Timeout: cfg.DownloadTimeout()},
		retryParam:   retry.NewRetryParam(cfg.RetryDelay(), cfg.MaxRetries()),
	}
}

// Run downloads every allow-listed URL in the configured list file.
func (d *Downloader) Run(ctx context.Context) (Stats, failure.ClassifiedError) {
	urls, err := d.readURLList(d.cfg.URLListFile())
	if err != nil {
		d.metadataSink.RecordError(
			"downloader",
			"Downloader.Run",
			metadata.CauseStorageFailure,
			err.Error(),
			d.cfg.URLListFile(),
		)
		return Stats{}, err
	}

	allowedHosts := d.cfg.AllowedHosts()

	var stats Stats
	first := true
	for _, rawURL := range urls {
		stats.Processed++

		resourceURL, parseErr := url.Parse(rawURL)
		if parseErr != nil {
			stats.Failed++
			d.recordURLError(rawURL, metadata.CauseUnknown, parseErr.Error())
			continue
		}
		if _, ok := allowedHosts[resourceURL.Host]; !ok {
			stats.Skipped++
			continue
		}

		if !first {
			time.Sleep(d.cfg.Delay())
		}
		first = false

		if saveErr := d.download(ctx, resourceURL); saveErr != nil {
			stats.Failed++
			continue
		}
		stats.Saved++
	}

	return stats, nil
}

func (d *Downloader) readURLList(listPath string) ([]string, failure.ClassifiedError) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, &DownloadError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseURLListUnreadable,
		}
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &DownloadError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseURLListUnreadable,
		}
	}
	return urls, nil
}

// download fetches one resource with the retry budget and files it by
// category. The whole payload is buffered; resources here are crawl-scale
// pages and documents, not arbitrary large files.
func (d *Downloader) download(ctx context.Context, resourceURL *url.URL) failure.ClassifiedError {
	fetchStart := time.Now()

	payload, err := retry.Retry(d.retryParam, func() (downloadedResource, failure.ClassifiedError) {
		return d.performDownload(ctx, resourceURL)
	})

	retryCount := 1
	var retryErr *retry.RetryError
	if errors.As(err, &retryErr) {
		retryCount = d.retryParam.MaxAttempts
	}
	d.metadataSink.RecordFetch(resourceURL.String(), payload.statusCode, time.Since(fetchStart), retryCount, 0)

	if err != nil {
		cause := metadata.CauseUnknown
		var downloadErr *DownloadError
		switch {
		case retryErr != nil:
			cause = metadata.CauseRetryExhausted
		case errors.As(err, &downloadErr):
			cause = mapDownloadErrorToMetadataCause(downloadErr)
		}
		d.recordURLError(resourceURL.String(), cause, err.Error())
		return err
	}

	return d.save(resourceURL, payload)
}

type downloadedResource struct {
	body       []byte
	mediaType  string
	statusCode int
}

func (d *Downloader) performDownload(ctx context.Context, resourceURL *url.URL) (downloadedResource, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL.String(), nil)
	if err != nil {
		return downloadedResource{}, &DownloadError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseBadURL,
		}
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		var timeoutErr interface{ Timeout() bool }
		if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
			cause = ErrCauseTimeout
		}
		return downloadedResource{}, &DownloadError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     cause,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return downloadedResource{statusCode: resp.StatusCode}, &DownloadError{
			Message:   fmt.Sprintf("GET %s returned %d", resourceURL, resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseBadStatus,
		}
	}

	body, err := readBody(resp)
	if err != nil {
		return downloadedResource{statusCode: resp.StatusCode}, &DownloadError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	return downloadedResource{
		body:       body,
		mediaType:  classify.MediaType(resp.Header.Get("Content-Type")),
		statusCode: resp.StatusCode,
	}, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Downloader) save(resourceURL *url.URL, payload downloadedResource) failure.ClassifiedError {
	urlExt := strings.ToLower(path.Ext(resourceURL.Path))
	category := classify.FromContentType(payload.mediaType, urlExt)
	base := fileutil.SanitizeFilename(resourceURL)

	if category == classify.CategoryHTML {
		return d.saveHTML(resourceURL, base, payload.body)
	}

	ext := classify.ExtensionFor(payload.mediaType, resourceURL)
	dir := filepath.Join(d.cfg.DownloadDir(), category.Subdir())
	target := fileutil.UniquePath(dir, base, ext)

	if err := d.storageSink.SaveStream(target, artifactKindFor(category), bytes.NewReader(payload.body)); err != nil {
		return err
	}
	return nil
}

// saveHTML writes the raw page and its extracted text twin. The twin reuses
// the page's final base filename so collision suffixes stay in sync.
func (d *Downloader) saveHTML(resourceURL *url.URL, base string, body []byte) failure.ClassifiedError {
	htmlDir := filepath.Join(d.cfg.DownloadDir(), classify.CategoryHTML.Subdir())
	htmlPath := fileutil.UniquePath(htmlDir, base, ".html")

	if err := d.storageSink.SaveStream(htmlPath, metadata.ArtifactHTML, bytes.NewReader(body)); err != nil {
		return err
	}

	text, err := extract.Text(bytes.NewReader(body))
	if err != nil {
		// raw HTML is already on disk; the missing twin is observational
		d.recordURLError(resourceURL.String(), metadata.CauseParseDegraded, err.Error())
		return nil
	}

	twinBase := strings.TrimSuffix(filepath.Base(htmlPath), ".html")
	textPath := filepath.Join(d.cfg.DownloadDir(), "text_content", twinBase+".txt")
	if saveErr := d.storageSink.SaveText(textPath, metadata.ArtifactText, text); saveErr != nil {
		d.recordURLError(resourceURL.String(), metadata.CauseStorageFailure, saveErr.Error())
	}
	return nil
}

func (d *Downloader) recordURLError(subject string, cause metadata.ErrorCause, message string) {
	d.metadataSink.RecordError("downloader", "Downloader.Run", cause, message, subject)
}

func artifactKindFor(category classify.Category) metadata.ArtifactKind {
	switch category {
	case classify.CategoryDocument:
		return metadata.ArtifactDocument
	case classify.CategoryImage:
		return metadata.ArtifactImage
	default:
		return metadata.ArtifactOther
	}
}
