// Package fetch downloads SUPERIR documents, extracts their text and
// caches the result on disk so repeated runs do not hit the site again.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxDocumentSize caps how much of a response body is read.
const maxDocumentSize = 64 << 20

// Result is one fetched document: its source URL and the cleaned text.
type Result struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`

	// FromCache is true when the result was served from disk. Never
	// persisted.
	FromCache bool `json:"-"`
}

// Fetcher downloads documents over HTTP and extracts their text. PDF
// responses go through the PDF extractor; anything else is taken as plain
// text. Both paths run the same cleanup pass.
type Fetcher struct {
	client    *http.Client
	cache     *DiskCache
	logger    *slog.Logger
	userAgent string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithCache enables the disk cache.
func WithCache(cache *DiskCache) FetcherOption {
	return func(f *Fetcher) { f.cache = cache }
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = client }
}

// WithFetchLogger sets the structured logger.
func WithFetchLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = logger }
}

// NewFetcher creates a Fetcher with a 60 second timeout and no cache.
func NewFetcher(options ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 60 * time.Second},
		logger:    slog.Default(),
		userAgent: "superir-parser/1.0",
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// FetchText returns the cleaned text of the document at url.
func (f *Fetcher) FetchText(ctx context.Context, url string) (Result, error) {
	if f.cache != nil {
		if cached, ok := f.cache.Get(url); ok {
			cached.FromCache = true
			f.logger.Debug("cache hit", "url", url)
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	text, err := f.extractText(url, resp.Header.Get("Content-Type"), data)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		URL:       url,
		Text:      CleanText(text),
		FetchedAt: time.Now().UTC(),
	}

	if f.cache != nil {
		if err := f.cache.Set(url, result); err != nil {
			f.logger.Warn("failed to cache result", "url", url, "error", err)
		}
	}

	f.logger.Info("document fetched", "url", url, "bytes", len(data), "chars", len(result.Text))
	return result, nil
}

func (f *Fetcher) extractText(url, contentType string, data []byte) (string, error) {
	if isPDF(url, contentType, data) {
		text, err := ExtractPDFText(data)
		if err != nil {
			return "", fmt.Errorf("failed to extract PDF text from %s: %w", url, err)
		}
		return text, nil
	}
	return string(data), nil
}

func isPDF(url, contentType string, data []byte) bool {
	if strings.Contains(contentType, "application/pdf") {
		return true
	}
	if strings.HasSuffix(strings.ToLower(url), ".pdf") {
		return true
	}
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
