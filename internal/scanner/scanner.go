// Package scanner runs a signature index against extracted document text and
// produces deduplicated, ordered defect hits with bounded-context excerpts.
package scanner

import (
	"github.com/jonesrussell/doctracer/internal/domain"
	"github.com/jonesrussell/doctracer/internal/signature"
)

// DefaultWindow is the number of characters of context kept on each side of a match.
const DefaultWindow = 100

// Option configures a Scanner.
type Option func(*Scanner)

// WithWindow sets the excerpt window. Negative values are treated as zero.
func WithWindow(window int) Option {
	return func(s *Scanner) {
		if window < 0 {
			window = 0
		}
		s.window = window
	}
}

// WithPrefilter enables or disables the anchor keyword prefilter.
func WithPrefilter(enabled bool) Option {
	return func(s *Scanner) {
		s.usePrefilter = enabled
	}
}

// Scanner matches text against a signature index. It holds no per-scan state
// and is safe for concurrent use.
type Scanner struct {
	index        *signature.Index
	window       int
	usePrefilter bool
	prefilter    *prefilter
}

// New creates a Scanner over idx. The prefilter is enabled by default.
func New(idx *signature.Index, opts ...Option) *Scanner {
	s := &Scanner{
		index:        idx,
		window:       DefaultWindow,
		usePrefilter: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.usePrefilter {
		s.prefilter = newPrefilter(idx)
	}
	return s
}

type hitKey struct {
	category domain.Category
	pattern  string
	start    int
}

// Scan returns every signature hit in text, in category order, then matcher
// order, then left-to-right match order. A (category, pattern, offset) triple
// is reported once.
func (s *Scanner) Scan(text string) []domain.Hit {
	hits := make([]domain.Hit, 0)
	if text == "" {
		return hits
	}

	var candidates map[*signature.Matcher]struct{}
	if s.prefilter != nil {
		candidates = s.prefilter.candidates(text)
	}

	seen := make(map[hitKey]struct{})
	for _, category := range s.index.Categories() {
		for _, m := range s.index.Matchers(category) {
			if candidates != nil && len(m.Anchors()) > 0 {
				if _, ok := candidates[m]; !ok {
					continue
				}
			}

			for _, loc := range m.FindAllIndex(text) {
				key := hitKey{category: category, pattern: m.Pattern(), start: loc[0]}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				hits = append(hits, domain.Hit{
					Category: category,
					Pattern:  m.Pattern(),
					Excerpt:  Excerpt(text, loc[0], loc[1], s.window),
					Offset:   loc[0],
				})
			}
		}
	}
	return hits
}
