package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/doctracer/internal/domain"
	"github.com/jonesrussell/doctracer/internal/fetcher"
)

// Test configuration constants.
const (
	fetchTestAgent   = "TestTracer/1.0"
	fetchTestTimeout = 2 * time.Second
	fetchTestPage    = "<html><head><title>Notice</title></head><body>hello</body></html>"
)

func newTestFetcher(t *testing.T, mutate func(*fetcher.Config)) *fetcher.Fetcher {
	t.Helper()

	cfg := fetcher.Config{
		Client:    fetcher.ClientConfig{Timeout: fetchTestTimeout},
		UserAgent: fetchTestAgent,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return fetcher.New(cfg, nil)
}

func TestFetch_OK(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fetchTestPage))
	}))
	t.Cleanup(srv.Close)

	res := newTestFetcher(t, nil).Fetch(context.Background(), srv.URL)

	assert.Equal(t, domain.StatusOK, res.Status)
	assert.Equal(t, http.StatusOK, res.HTTPCode)
	assert.True(t, res.HasCode())
	assert.Equal(t, fetchTestPage, string(res.Body))
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
	assert.Equal(t, fetchTestAgent, <-agents)
	assert.NoError(t, res.Err)
}

func TestFetch_DefaultUserAgent(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
	}))
	t.Cleanup(srv.Close)

	f := fetcher.New(fetcher.Config{}, nil)
	res := f.Fetch(context.Background(), srv.URL)

	require.Equal(t, domain.StatusOK, res.Status)
	assert.Equal(t, fetcher.DefaultUserAgent, <-agents)
}

func TestFetch_HTTPErrorKeepsCodeAndBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"not modified", http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte("diagnostic page"))
			}))
			t.Cleanup(srv.Close)

			res := newTestFetcher(t, nil).Fetch(context.Background(), srv.URL)

			assert.Equal(t, domain.StatusHTTPError, res.Status)
			assert.Equal(t, tt.code, res.HTTPCode)
			if tt.code != http.StatusNotModified {
				assert.Equal(t, "diagnostic page", string(res.Body))
			}
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := newTestFetcher(t, nil).Fetch(context.Background(), url)

	assert.Equal(t, domain.StatusConnectionError, res.Status)
	assert.False(t, res.HasCode())
	require.Error(t, res.Err)
	assert.Equal(t, res.Err.Error(), string(res.Body))
}

func TestFetch_InvalidURL(t *testing.T) {
	t.Parallel()

	res := newTestFetcher(t, nil).Fetch(context.Background(), "::not a url")

	assert.Equal(t, domain.StatusConnectionError, res.Status)
	assert.Zero(t, res.HTTPCode)
	assert.NotEmpty(t, res.Body)
}

func TestFetch_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f := newTestFetcher(t, func(c *fetcher.Config) {
		c.Client.Timeout = 50 * time.Millisecond
	})
	res := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, domain.StatusConnectionError, res.Status)
	assert.False(t, res.HasCode())
	assert.Contains(t, strings.ToLower(string(res.Body)), "timeout")
}

func TestFetch_BodyIsBounded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, func(c *fetcher.Config) {
		c.MaxBodyBytes = 100
	})
	res := f.Fetch(context.Background(), srv.URL)

	require.Equal(t, domain.StatusOK, res.Status)
	assert.Len(t, res.Body, 100)
}

func TestFetch_SingleAttemptByDefault(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	res := newTestFetcher(t, nil).Fetch(context.Background(), srv.URL)

	assert.Equal(t, domain.StatusHTTPError, res.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_RetriesServerErrorsWhenConfigured(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("finally"))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, func(c *fetcher.Config) {
		c.Retry = fetcher.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	})
	res := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, domain.StatusOK, res.Status)
	assert.Equal(t, "finally", string(res.Body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, func(c *fetcher.Config) {
		c.Retry = fetcher.RetryConfig{MaxAttempts: 5, InitialDelay: time.Millisecond}
	})
	res := f.Fetch(context.Background(), srv.URL)

	assert.Equal(t, http.StatusNotFound, res.HTTPCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_RetryStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	f := newTestFetcher(t, func(c *fetcher.Config) {
		c.Retry = fetcher.RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour}
	})

	done := make(chan fetcher.Result, 1)
	go func() { done <- f.Fetch(ctx, srv.URL) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case res := <-done:
		assert.NotEqual(t, domain.StatusOK, res.Status)
		assert.Equal(t, int32(1), calls.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not stop after cancellation")
	}
}
