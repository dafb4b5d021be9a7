// Package report turns per-stage pipeline results into finalized document reports.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonesrussell/doctracer/internal/domain"
	"github.com/jonesrussell/doctracer/internal/extractor"
	"github.com/jonesrussell/doctracer/internal/fetcher"
)

// Summary texts.
const (
	SummaryClean          = "No defects detected."
	summaryFlagged        = "Defects detected — categories: %s (%d hit(s) total)."
	summaryFetchFailed    = "Could not retrieve page: %s (code=%d)."
	summaryNoConnection   = "Could not retrieve page: %s (%s)."
	summaryParseFailed    = "HTML parse failed: %s"
	categoryListSeparator = ", "
)

// Build assembles the report for one URL. A failed fetch short-circuits
// extraction and scanning, and a non-nil extractErr short-circuits scanning.
// It never fails.
func Build(url string, fetched fetcher.Result, extracted extractor.Result, extractErr error, hits []domain.Hit) domain.DocumentReport {
	r := domain.DocumentReport{
		URL:        url,
		Status:     domain.StatusOK,
		Hits:       []domain.Hit{},
		Categories: []domain.Category{},
	}
	if fetched.HasCode() {
		code := fetched.HTTPCode
		r.HTTPCode = &code
	}

	if fetched.Status != domain.StatusOK {
		r.Status = fetched.Status
		r.Summary = fetchSummary(fetched)
		return r
	}

	if extractErr != nil {
		r.Status = domain.StatusParseError
		r.Summary = fmt.Sprintf(summaryParseFailed, extractErr)
		return r
	}

	title := extracted.Title
	r.Title = &title
	if len(hits) > 0 {
		r.Hits = slices.Clone(hits)
	}
	r.Categories = Categories(r.Hits)
	r.Summary = Summarize(r.Hits)
	return r
}

// NotFetched builds the connection_error report for a URL whose fetch was
// never issued.
func NotFetched(url, reason string) domain.DocumentReport {
	return Build(url, fetcher.Result{Status: domain.StatusConnectionError, Body: []byte(reason)}, extractor.Result{}, nil, nil)
}

// Categories returns the sorted distinct categories among hits.
func Categories(hits []domain.Hit) []domain.Category {
	out := make([]domain.Category, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Category)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Summarize returns the one-line summary for a successfully scanned document.
func Summarize(hits []domain.Hit) string {
	if len(hits) == 0 {
		return SummaryClean
	}

	cats := Categories(hits)
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return fmt.Sprintf(summaryFlagged, strings.Join(names, categoryListSeparator), len(hits))
}

func fetchSummary(fetched fetcher.Result) string {
	if fetched.HasCode() {
		return fmt.Sprintf(summaryFetchFailed, fetched.Status, fetched.HTTPCode)
	}

	reason := strings.TrimSpace(string(fetched.Body))
	if reason == "" && fetched.Err != nil {
		reason = fetched.Err.Error()
	}
	if reason == "" {
		reason = "no response"
	}
	return fmt.Sprintf(summaryNoConnection, fetched.Status, reason)
}
