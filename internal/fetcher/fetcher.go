// Package fetcher retrieves raw documents over HTTP and classifies the outcome.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/doctracer/internal/domain"
	"github.com/jonesrussell/doctracer/internal/logger"
)

// Result is the classified outcome of fetching one URL.
type Result struct {
	// Status is ok, http_error or connection_error.
	Status domain.Status
	// HTTPCode is the response status code, zero when no response was received.
	HTTPCode int
	// Body is the response body, or a short diagnostic for connection errors.
	Body []byte
	// ContentType is the response Content-Type header.
	ContentType string
	// Err is the transport error behind a connection_error.
	Err error
}

// HasCode reports whether an HTTP response was received.
func (r Result) HasCode() bool {
	return r.HTTPCode != 0
}

// Config configures a Fetcher.
type Config struct {
	Client       ClientConfig
	UserAgent    string
	MaxBodyBytes int64
	Retry        RetryConfig
}

// Fetcher issues GET requests for documents. It is safe for concurrent use.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	retry        RetryConfig
	logger       logger.Interface
}

// New creates a Fetcher. A nil logger disables logging.
func New(cfg Config, log logger.Interface) *Fetcher {
	if log == nil {
		log = logger.NewNoOp()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Fetcher{
		client:       NewClient(cfg.Client),
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		retry:        cfg.Retry.withDefaults(),
		logger:       log.WithComponent("fetcher"),
	}
}

// Fetch retrieves url. With the default retry policy this is exactly one
// attempt. Failures are returned as data, never as an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	var result Result
	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		start := time.Now()
		result = f.fetchOnce(ctx, url)

		attemptLog := f.logger
		if result.Err != nil {
			attemptLog = attemptLog.WithError(result.Err)
		}
		if result.HasCode() {
			attemptLog = attemptLog.With("http_code", result.HTTPCode)
		}
		attemptLog.Debug("fetch attempt",
			"url", url,
			"attempt", attempt,
			"status", string(result.Status),
			"duration", time.Since(start),
		)

		if result.Status == domain.StatusOK || !retryable(result) || attempt == f.retry.MaxAttempts {
			break
		}

		delay := f.retry.backoff(attempt)
		f.logger.Info("retrying fetch", "url", url, "attempt", attempt, "delay", delay)
		if !sleep(ctx, delay) {
			break
		}
	}
	return result
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return connectionError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return connectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return connectionError(fmt.Errorf("read body: %w", err))
	}

	result := Result{
		Status:      domain.StatusOK,
		HTTPCode:    resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		result.Status = domain.StatusHTTPError
	}
	return result
}

func connectionError(err error) Result {
	return Result{
		Status: domain.StatusConnectionError,
		Body:   []byte(err.Error()),
		Err:    err,
	}
}
