// Package fetch retrieves catalog pages over HTTP.
//
// The upstream page is fetched once per call. There is no retry and no
// caching; callers that need resilience wrap the fetcher themselves.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// DefaultMaxSize caps response bodies at 32 MB. The catalog page is well
// under 1 MB, so hitting the cap means the URL does not serve the catalog.
const DefaultMaxSize = 32 * 1024 * 1024

const defaultUserAgent = "astroquery-go/1.0"

// ProgressFunc is called as response bytes arrive. total is taken from the
// Content-Length header and is 0 when the server did not send one.
type ProgressFunc func(read, total int64)

// Fetcher downloads catalog pages with a size cap and optional progress
// reporting.
type Fetcher struct {
	client    *http.Client
	maxSize   int64
	userAgent string
	progress  ProgressFunc
}

// NewFetcher creates a fetcher with default settings.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		maxSize:   DefaultMaxSize,
		userAgent: defaultUserAgent,
	}
}

// NewFetcherWithOptions creates a fetcher with a custom timeout, size cap and
// progress callback. A non-positive maxSize falls back to DefaultMaxSize.
func NewFetcherWithOptions(timeout time.Duration, maxSize int64, progress ProgressFunc) *Fetcher {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		maxSize:   maxSize,
		userAgent: defaultUserAgent,
		progress:  progress,
	}
}

// Fetch retrieves the page at url and returns the body as a string.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	content, _, _, err := f.FetchWithMetrics(ctx, url)

	return content, err
}

// FetchWithMetrics returns (content, statusCode, duration, error).
func (f *Fetcher) FetchWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, time.Since(startTime), fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, time.Since(startTime), fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, time.Since(startTime), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// Read one byte past the cap so overflow is distinguishable from an
	// exactly-full body.
	reader := io.Reader(io.LimitReader(resp.Body, f.maxSize+1))
	if f.progress != nil {
		reader = NewChunkReader(reader, resp.ContentLength, f.progress)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", resp.StatusCode, time.Since(startTime), fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > f.maxSize {
		return "", resp.StatusCode, time.Since(startTime), fmt.Errorf("response body exceeds %d byte limit", f.maxSize)
	}

	return string(body), resp.StatusCode, time.Since(startTime), nil
}

// ReadLocalFile reads a previously saved catalog page from disk.
func (f *Fetcher) ReadLocalFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read local file %s: %w", filePath, err)
	}

	return string(content), nil
}
