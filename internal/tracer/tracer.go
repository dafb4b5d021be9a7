// Package tracer drives the fetch, extract, scan and report pipeline over a
// batch of URLs.
package tracer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/jonesrussell/doctracer/internal/domain"
	"github.com/jonesrussell/doctracer/internal/extractor"
	"github.com/jonesrussell/doctracer/internal/fetcher"
	"github.com/jonesrussell/doctracer/internal/logger"
	"github.com/jonesrussell/doctracer/internal/report"
)

// Worker pool bounds.
const (
	DefaultWorkers = 8
	MinWorkers     = 1
	MaxWorkers     = 64
)

// ErrInternal wraps a panic recovered while processing one document.
var ErrInternal = errors.New("internal error")

//go:generate mockgen -source=tracer.go -destination=../../testutils/mocks/tracer/tracer.go -package=tracer

// Fetcher retrieves one document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetcher.Result
}

// Extractor reduces a fetched body to text.
type Extractor interface {
	Extract(raw []byte, contentType, pageURL string) (extractor.Result, error)
}

// Scanner finds defect hits in text.
type Scanner interface {
	Scan(text string) []domain.Hit
}

// Recorder receives pipeline measurements.
type Recorder interface {
	SetPoolSize(n int)
	WorkerStarted()
	WorkerDone()
	ObserveFetch(status domain.Status, d time.Duration)
	ObserveReport(r *domain.DocumentReport)
	ObserveBatch(documents int, ok bool)
}

// Tracer runs batches of URLs through the pipeline. It is safe for concurrent use.
type Tracer struct {
	fetcher   Fetcher
	extractor Extractor
	scanner   Scanner
	workers   int
	logger    logger.Interface
	recorder  Recorder
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithWorkers sets the worker pool size, clamped to [MinWorkers, MaxWorkers].
func WithWorkers(n int) Option {
	return func(t *Tracer) {
		t.workers = ClampWorkers(n)
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Interface) Option {
	return func(t *Tracer) {
		if log != nil {
			t.logger = log
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(t *Tracer) {
		if r != nil {
			t.recorder = r
		}
	}
}

// New creates a Tracer from its pipeline stages.
func New(f Fetcher, e Extractor, s Scanner, opts ...Option) *Tracer {
	t := &Tracer{
		fetcher:   f,
		extractor: e,
		scanner:   s,
		workers:   DefaultWorkers,
		logger:    logger.NewNoOp(),
		recorder:  noopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("tracer")
	return t
}

// ClampWorkers bounds n to the supported pool size range.
func ClampWorkers(n int) int {
	return min(max(n, MinWorkers), MaxWorkers)
}

// Run traces every URL and returns one report per URL in input order, plus
// whether every report is ok.
//
// Cancelling ctx stops new fetches from being issued. Fetches already in
// flight run to completion or to their own timeout, and URLs never issued are
// reported as connection errors.
func (t *Tracer) Run(ctx context.Context, urls []string) ([]domain.DocumentReport, bool) {
	runID := uuid.NewString()
	log := t.logger.With("run_id", runID)
	start := time.Now()

	log.Info("batch started", "documents", len(urls), "workers", t.workers)
	t.recorder.SetPoolSize(t.workers)

	reports := make([]domain.DocumentReport, len(urls))
	fetchCtx := context.WithoutCancel(ctx)
	sem := semaphore.NewWeighted(int64(t.workers))

	var wg sync.WaitGroup
	for i, url := range urls {
		if err := t.acquire(ctx, sem); err != nil {
			reason := cancelReason(ctx, err)
			log.Warn("batch cancelled, skipping remaining documents",
				"remaining", len(urls)-i,
				"reason", reason,
			)
			for j := i; j < len(urls); j++ {
				reports[j] = report.NotFetched(urls[j], reason)
			}
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			t.recorder.WorkerStarted()
			defer t.recorder.WorkerDone()

			reports[i] = t.trace(fetchCtx, log, url)
		}()
	}
	wg.Wait()

	ok := true
	for i := range reports {
		t.recorder.ObserveReport(&reports[i])
		if !reports[i].OK() {
			ok = false
		}
	}
	t.recorder.ObserveBatch(len(reports), ok)

	log.Info("batch complete",
		"documents", len(reports),
		"flagged", report.FlaggedCount(reports),
		"ok", ok,
		"duration", time.Since(start),
	)
	return reports, ok
}

func (t *Tracer) acquire(ctx context.Context, sem *semaphore.Weighted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return sem.Acquire(ctx, 1)
}

// trace runs the full pipeline for one URL. A panic in any stage is contained
// to this URL's report.
func (t *Tracer) trace(ctx context.Context, log logger.Interface, url string) (rep domain.DocumentReport) {
	var (
		fetched fetcher.Result
		fetchOK bool
	)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrInternal, r)
			log.WithError(err).Error("document pipeline panicked", "url", url)
			if !fetchOK {
				rep = report.NotFetched(url, err.Error())
				return
			}
			rep = report.Build(url, fetched, extractor.Result{}, err, nil)
		}
	}()

	start := time.Now()
	fetched = t.fetcher.Fetch(ctx, url)
	fetchOK = true
	t.recorder.ObserveFetch(fetched.Status, time.Since(start))

	if fetched.Status != domain.StatusOK {
		failLog := log
		if fetched.Err != nil {
			failLog = failLog.WithError(fetched.Err)
		}
		if fetched.HasCode() {
			failLog = failLog.With("http_code", fetched.HTTPCode)
		}
		failLog.Warn("fetch failed", "url", url, "status", string(fetched.Status))
		return report.Build(url, fetched, extractor.Result{}, nil, nil)
	}

	extracted, err := t.extractor.Extract(fetched.Body, fetched.ContentType, url)
	if err != nil {
		log.WithError(err).Warn("extraction failed", "url", url)
		return report.Build(url, fetched, extractor.Result{}, err, nil)
	}

	hits := t.scanner.Scan(extracted.Text)
	rep = report.Build(url, fetched, extracted, nil, hits)

	log.Debug("document traced",
		"url", url,
		"hits", len(rep.Hits),
		"categories", len(rep.Categories),
	)
	return rep
}

func cancelReason(ctx context.Context, err error) string {
	if cause := context.Cause(ctx); cause != nil {
		return "batch cancelled: " + cause.Error()
	}
	return "batch cancelled: " + err.Error()
}

type noopRecorder struct{}

func (noopRecorder) SetPoolSize(int) {}
func (noopRecorder) WorkerStarted() {}
func (noopRecorder) WorkerDone() {}
func (noopRecorder) ObserveFetch(domain.Status, time.Duration) {}
func (noopRecorder) ObserveReport(*domain.DocumentReport) {}
func (noopRecorder) ObserveBatch(int, bool) {}
