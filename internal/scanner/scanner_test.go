package scanner_test

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/doctracer/internal/domain"
	"github.com/jonesrussell/doctracer/internal/scanner"
	"github.com/jonesrussell/doctracer/internal/signature"
)

const scenarioAText = "the authority processed 400 warrants in under a minute " +
	"without individual judicial scrutiny"

// corpus exercises every built-in category plus some noise.
var corpus = []string{
	scenarioAText,
	"The magistrate would rubber-stamp each application. A supplier declaration was simply accepted.",
	"The affidavit was filed without any attempt to verify it and there was no independent verification.",
	"An incorrect address appeared on the warrant; the address was missing from the schedule.",
	"A safety risk was claimed that proved false. The gas escape report was unsubstantiated.",
	"Equifax recorded the defect and the default was tainted. A CCJ entered in error is a nullity.",
	"Billing systems processed the bulk batch in error, so the defect cascaded downstream.",
	"Bundled warrants and batched warrant applications were heard in bulk warrant sessions.",
	"Nothing of interest here, just a quiet afternoon at the library.",
	"",
}

func categoriesOf(hits []domain.Hit) []domain.Category {
	seen := map[domain.Category]bool{}
	var out []domain.Category
	for _, h := range hits {
		if !seen[h.Category] {
			seen[h.Category] = true
			out = append(out, h.Category)
		}
	}
	return out
}

func TestScan_ScenarioA_BulkApproval(t *testing.T) {
	t.Parallel()

	s := scanner.New(signature.Default())
	hits := s.Scan(scenarioAText)

	require.NotEmpty(t, hits)
	assert.Equal(t, []domain.Category{domain.CategoryBulkApproval}, categoriesOf(hits))
}

func TestScan_ScenarioB_NoTerms(t *testing.T) {
	t.Parallel()

	s := scanner.New(signature.Default())
	hits := s.Scan("A pleasant walk through the park on a sunny day.")

	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestScan_EmptyText(t *testing.T) {
	t.Parallel()

	hits := scanner.New(signature.Default()).Scan("")
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestScan_OverlapAcrossCategoriesIsKept(t *testing.T) {
	t.Parallel()

	s := scanner.New(signature.Default())
	hits := s.Scan("They would rubber stamp it.")

	require.Len(t, hits, 2)
	assert.Equal(t, domain.CategoryBulkApproval, hits[0].Category)
	assert.Equal(t, domain.CategoryRubberStamp, hits[1].Category)
	assert.Equal(t, hits[0].Pattern, hits[1].Pattern)
	assert.Equal(t, hits[0].Offset, hits[1].Offset)
}

func TestScan_DistinctOffsetsYieldDistinctHits(t *testing.T) {
	t.Parallel()

	idx, err := signature.Parse([]byte(`
categories:
  - name: STAMP
    patterns:
      - pattern: 'rubber[\s-]stamp'
`))
	require.NoError(t, err)

	hits := scanner.New(idx).Scan("rubber stamp here and a rubber-stamp there")
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Offset)
	assert.Equal(t, 24, hits[1].Offset)
}

func TestScan_DuplicateMatcherCountsOnce(t *testing.T) {
	t.Parallel()

	idx, err := signature.Parse([]byte(`
categories:
  - name: STAMP
    patterns:
      - pattern: 'rubber[\s-]stamp'
        anchors: [rubber]
      - pattern: 'rubber[\s-]stamp'
      - pattern: 'stamp'
`))
	require.NoError(t, err)

	hits := scanner.New(idx).Scan("a rubber stamp")

	// The repeated matcher is deduplicated; the distinct "stamp" pattern is not,
	// even though its match overlaps the first one.
	require.Len(t, hits, 2)
	assert.Equal(t, `rubber[\s-]stamp`, hits[0].Pattern)
	assert.Equal(t, "stamp", hits[1].Pattern)
}

func TestScan_OrderingIsCategoryThenMatcherThenOffset(t *testing.T) {
	t.Parallel()

	s := scanner.New(signature.Default())
	text := "Equifax noted a defect. They rubber-stamp everything. Another rubber stamp."
	hits := s.Scan(text)

	require.Len(t, hits, 5)
	want := []struct {
		category domain.Category
		pattern  string
	}{
		{domain.CategoryBulkApproval, `rubber[\s-]stamp`},
		{domain.CategoryBulkApproval, `rubber[\s-]stamp`},
		{domain.CategoryRubberStamp, `rubber[\s-]stamp`},
		{domain.CategoryRubberStamp, `rubber[\s-]stamp`},
		{domain.CategoryDownstreamTaint, `(credit|cra|equifax|experian|transunion).{0,60}\bdefect`},
	}
	for i, w := range want {
		assert.Equal(t, w.category, hits[i].Category, "hit %d", i)
		assert.Equal(t, w.pattern, hits[i].Pattern, "hit %d", i)
	}
	assert.Less(t, hits[0].Offset, hits[1].Offset)
	assert.Less(t, hits[2].Offset, hits[3].Offset)
}

func TestScan_Deterministic(t *testing.T) {
	t.Parallel()

	s := scanner.New(signature.Default())
	for _, text := range corpus {
		assert.Equal(t, s.Scan(text), s.Scan(text))
	}
}

// TestScan_Complete checks hits against a brute-force evaluation of every
// registered pattern: nothing is dropped and nothing is invented.
func TestScan_Complete(t *testing.T) {
	t.Parallel()

	idx := signature.Default()
	s := scanner.New(idx)

	for _, text := range corpus {
		type key struct {
			category domain.Category
			pattern  string
			offset   int
		}
		want := map[key]bool{}
		for _, c := range idx.Categories() {
			for _, m := range idx.Matchers(c) {
				re := regexp.MustCompile("(?i)" + m.Pattern())
				for _, loc := range re.FindAllStringIndex(text, -1) {
					want[key{c, m.Pattern(), loc[0]}] = true
				}
			}
		}

		got := map[key]bool{}
		for _, h := range s.Scan(text) {
			got[key{h.Category, h.Pattern, h.Offset}] = true
		}
		assert.Equal(t, want, got, "text %q", text)
	}
}

func TestScan_PrefilterMatchesUnfilteredScan(t *testing.T) {
	t.Parallel()

	idx := signature.Default()
	filtered := scanner.New(idx, scanner.WithPrefilter(true))
	unfiltered := scanner.New(idx, scanner.WithPrefilter(false))

	texts := append([]string{
		"The RUBBER STAMP was used",
		"the \u017fupplier declaration was accepted",
		"the evidence was ta\u212aen on trust",
	}, corpus...)

	for _, text := range texts {
		assert.Equal(t, unfiltered.Scan(text), filtered.Scan(text), "text %q", text)
	}
}

func TestScan_ExcerptBounds(t *testing.T) {
	t.Parallel()

	const window = 20
	s := scanner.New(signature.Default(), scanner.WithWindow(window))

	text := strings.Repeat("lorem ipsum ", 10) + "they rubber-stamp applications" + strings.Repeat(" dolor sit", 10)
	hits := s.Scan(text)
	require.NotEmpty(t, hits)

	for _, h := range hits {
		assert.True(t, strings.HasPrefix(h.Excerpt, scanner.Ellipsis))
		assert.True(t, strings.HasSuffix(h.Excerpt, scanner.Ellipsis))

		body := strings.TrimSuffix(strings.TrimPrefix(h.Excerpt, scanner.Ellipsis), scanner.Ellipsis)
		assert.Contains(t, body, "rubber-stamp")
		assert.LessOrEqual(t, utf8.RuneCountInString(body), 2*window+len("rubber-stamp"))
	}
}

func TestScan_ExcerptTouchingEdgesHasNoMarkers(t *testing.T) {
	t.Parallel()

	s := scanner.New(signature.Default())
	hits := s.Scan(scenarioAText)
	require.NotEmpty(t, hits)

	for _, h := range hits {
		assert.Equal(t, scenarioAText, h.Excerpt)
	}
}
