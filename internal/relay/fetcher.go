package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ralt/webapt/internal/models"
	"github.com/ralt/webapt/internal/utils"
	"github.com/sirupsen/logrus"
)

// Document is an upstream response, decompressed when the URL named a
// compressed file and the upstream answered with success.
type Document struct {
	URL         string            `json:"url"`
	StatusCode  int               `json:"status_code"`
	Body        []byte            `json:"body"`
	Compression utils.Compression `json:"compression"`
}

// OK reports whether the upstream answered with a 2xx status
func (d *Document) OK() bool {
	return d.StatusCode >= 200 && d.StatusCode < 300
}

// Fetcher downloads repository files on behalf of a caller
type Fetcher struct {
	client       *http.Client
	userAgent    string
	retries      int
	retryDelay   time.Duration
	maxBodyBytes int64
	cache        *Cache
}

// NewFetcher creates a Fetcher from the configuration
func NewFetcher(config *models.Config) (*Fetcher, error) {
	f := &Fetcher{
		client:       &http.Client{Timeout: config.Timeout},
		userAgent:    config.UserAgent,
		retries:      config.Retries,
		retryDelay:   500 * time.Millisecond,
		maxBodyBytes: config.MaxBodyBytes,
	}

	if config.CacheDir != "" {
		cache, err := NewCache(config.CacheDir, config.CacheTTL)
		if err != nil {
			return nil, &models.WebAPTError{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("failed to create cache directory: %w", err),
			}
		}
		f.cache = cache
	}

	return f, nil
}

// Fetch downloads rawURL. Network failures and 5xx responses are retried.
// A non-2xx response is returned as a Document with its status code; only
// network, size and decompression failures are errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &models.WebAPTError{
			Type: models.ErrFetch,
			URL:  rawURL,
			Err:  fmt.Errorf("invalid repository URL"),
		}
	}

	if f.cache != nil {
		doc, err := f.cache.Get(rawURL)
		switch {
		case err == nil && doc != nil:
			logrus.Debugf("Cache hit: %s", rawURL)
			return doc, nil
		case errors.Is(err, ErrExpired):
			logrus.Debugf("Cache entry expired: %s", rawURL)
		case err != nil:
			logrus.Warnf("Failed to read cache for %s: %v", rawURL, err)
		}
	}

	var doc *Document
	err = Retry(ctx, f.retries, f.retryDelay, func() error {
		var err error
		doc, err = f.fetchOnce(ctx, rawURL)
		return err
	})
	if err != nil && (doc == nil || !isRetryable(err)) {
		logrus.Warnf("Failed to fetch %s: %v", rawURL, err)
		return nil, &models.WebAPTError{Type: models.ErrFetch, URL: rawURL, Err: err}
	}

	doc.Compression = utils.CompressionFromName(u.Path)
	if doc.OK() && doc.Compression != utils.CompressionNone {
		body, err := doc.Compression.Decompress(doc.Body, f.maxBodyBytes)
		if err != nil {
			logrus.Warnf("Failed to decompress %s: %v", rawURL, err)
			return nil, &models.WebAPTError{Type: models.ErrDecompress, URL: rawURL, Err: err}
		}
		doc.Body = body
	}

	if f.cache != nil && doc.OK() {
		if err := f.cache.Set(doc); err != nil {
			logrus.Warnf("Failed to cache %s: %v", rawURL, err)
		}
	}

	return doc, nil
}

// FetchText downloads rawURL and returns its text, failing on a non-2xx status
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	doc, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !doc.OK() {
		return "", &models.WebAPTError{
			Type: models.ErrUpstreamStatus,
			URL:  rawURL,
			Err:  fmt.Errorf("upstream returned HTTP %d", doc.StatusCode),
		}
	}
	return string(doc.Body), nil
}

// fetchOnce performs a single GET. It returns the document together with a
// RetryableError for 5xx responses.
func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Document, error) {
	logrus.Debugf("Fetching %s", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", f.maxBodyBytes)
	}

	doc := &Document{URL: rawURL, StatusCode: resp.StatusCode, Body: body}
	if resp.StatusCode >= 500 {
		return doc, &RetryableError{Err: fmt.Errorf("upstream returned HTTP %d", resp.StatusCode)}
	}
	return doc, nil
}
