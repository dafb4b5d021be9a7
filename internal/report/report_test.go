package report_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/doctracer/internal/domain"
	"github.com/jonesrussell/doctracer/internal/extractor"
	"github.com/jonesrussell/doctracer/internal/fetcher"
	"github.com/jonesrussell/doctracer/internal/report"
)

const reportURL = "https://example.com/doc"

func okFetch() fetcher.Result {
	return fetcher.Result{Status: domain.StatusOK, HTTPCode: http.StatusOK, Body: []byte("<p>x</p>")}
}

func TestBuild_HTTPError(t *testing.T) {
	t.Parallel()

	fetched := fetcher.Result{Status: domain.StatusHTTPError, HTTPCode: http.StatusNotFound, Body: []byte("missing")}
	r := report.Build(reportURL, fetched, extractor.Result{Title: "ignored"}, nil, []domain.Hit{{Category: "X"}})

	assert.Equal(t, domain.StatusHTTPError, r.Status)
	require.NotNil(t, r.HTTPCode)
	assert.Equal(t, http.StatusNotFound, *r.HTTPCode)
	assert.Nil(t, r.Title)
	assert.Empty(t, r.Hits)
	assert.NotNil(t, r.Hits)
	assert.Empty(t, r.Categories)
	assert.Equal(t, "Could not retrieve page: http_error (code=404).", r.Summary)
	assert.False(t, r.OK())
}

func TestBuild_ConnectionError(t *testing.T) {
	t.Parallel()

	fetched := fetcher.Result{Status: domain.StatusConnectionError, Body: []byte("dial tcp: connection refused")}
	r := report.Build(reportURL, fetched, extractor.Result{}, nil, nil)

	assert.Equal(t, domain.StatusConnectionError, r.Status)
	assert.Nil(t, r.HTTPCode)
	assert.Nil(t, r.Title)
	assert.Equal(t, "Could not retrieve page: connection_error (dial tcp: connection refused).", r.Summary)
}

func TestBuild_ConnectionErrorWithoutDiagnostic(t *testing.T) {
	t.Parallel()

	r := report.Build(reportURL, fetcher.Result{Status: domain.StatusConnectionError}, extractor.Result{}, nil, nil)

	assert.Equal(t, "Could not retrieve page: connection_error (no response).", r.Summary)
}

func TestBuild_ParseError(t *testing.T) {
	t.Parallel()

	r := report.Build(reportURL, okFetch(), extractor.Result{}, errors.New("document is not text"), []domain.Hit{{Category: "X"}})

	assert.Equal(t, domain.StatusParseError, r.Status)
	require.NotNil(t, r.HTTPCode)
	assert.Equal(t, http.StatusOK, *r.HTTPCode)
	assert.Nil(t, r.Title)
	assert.Empty(t, r.Hits)
	assert.Equal(t, "HTML parse failed: document is not text", r.Summary)
}

func TestBuild_Clean(t *testing.T) {
	t.Parallel()

	r := report.Build(reportURL, okFetch(), extractor.Result{Title: "Minutes"}, nil, nil)

	assert.Equal(t, domain.StatusOK, r.Status)
	require.NotNil(t, r.Title)
	assert.Equal(t, "Minutes", *r.Title)
	assert.NotNil(t, r.Hits)
	assert.Empty(t, r.Categories)
	assert.Equal(t, report.SummaryClean, r.Summary)
	assert.True(t, r.OK())
	assert.False(t, r.Flagged())
}

func TestBuild_EmptyTitleIsPresent(t *testing.T) {
	t.Parallel()

	r := report.Build(reportURL, okFetch(), extractor.Result{}, nil, nil)

	require.NotNil(t, r.Title)
	assert.Empty(t, *r.Title)
}

func TestBuild_Flagged(t *testing.T) {
	t.Parallel()

	hits := []domain.Hit{
		{Category: domain.CategoryRubberStamp, Pattern: "a", Excerpt: "a"},
		{Category: domain.CategoryBulkApproval, Pattern: "b", Excerpt: "b"},
		{Category: domain.CategoryRubberStamp, Pattern: "c", Excerpt: "c"},
	}
	r := report.Build(reportURL, okFetch(), extractor.Result{Title: "T"}, nil, hits)

	assert.Equal(t, []domain.Category{domain.CategoryBulkApproval, domain.CategoryRubberStamp}, r.Categories)
	assert.Equal(t, hits, r.Hits)
	assert.Equal(t, "Defects detected — categories: BULK_APPROVAL, RUBBER_STAMP (3 hit(s) total).", r.Summary)
	assert.True(t, r.Flagged())
}

func TestBuild_DoesNotAliasHits(t *testing.T) {
	t.Parallel()

	hits := []domain.Hit{{Category: domain.CategoryProcedural, Pattern: "p", Excerpt: "e"}}
	r := report.Build(reportURL, okFetch(), extractor.Result{}, nil, hits)
	hits[0].Excerpt = "mutated"

	assert.Equal(t, "e", r.Hits[0].Excerpt)
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	hits := []domain.Hit{{Category: domain.CategoryDownstreamTaint, Pattern: "p", Excerpt: "e", Offset: 3}}
	first := report.Build(reportURL, okFetch(), extractor.Result{Title: "T"}, nil, hits)
	second := report.Build(reportURL, okFetch(), extractor.Result{Title: "T"}, nil, hits)

	assert.Equal(t, first, second)
}

func TestNotFetched(t *testing.T) {
	t.Parallel()

	r := report.NotFetched(reportURL, "context canceled")

	assert.Equal(t, domain.StatusConnectionError, r.Status)
	assert.Nil(t, r.HTTPCode)
	assert.Equal(t, "Could not retrieve page: connection_error (context canceled).", r.Summary)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, report.SummaryClean, report.Summarize(nil))
	assert.Equal(t,
		"Defects detected — categories: PROCEDURAL (1 hit(s) total).",
		report.Summarize([]domain.Hit{{Category: domain.CategoryProcedural}}),
	)
}
