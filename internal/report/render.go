package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jonesrussell/doctracer/internal/domain"
)

// Format selects how a batch of reports is written.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	separatorWidth = 70
	noCode         = "n/a"
	// maxExcerptCell bounds excerpt cells in table output.
	maxExcerptCell = 60
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatTable}
}

// ParseFormat validates s as an output format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write renders reports to w in the given format.
func Write(w io.Writer, format Format, reports []domain.DocumentReport) error {
	switch format {
	case FormatText, "":
		return WriteText(w, reports)
	case FormatJSON:
		return WriteJSON(w, reports)
	case FormatTable:
		return WriteTable(w, reports)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FlaggedCount returns the number of reports with at least one triggered category.
func FlaggedCount(reports []domain.DocumentReport) int {
	n := 0
	for i := range reports {
		if reports[i].Flagged() {
			n++
		}
	}
	return n
}

// WriteJSON writes reports as one indented JSON array.
func WriteJSON(w io.Writer, reports []domain.DocumentReport) error {
	if reports == nil {
		reports = []domain.DocumentReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	return nil
}

// WriteText writes one block per report followed by the batch summary line.
func WriteText(w io.Writer, reports []domain.DocumentReport) error {
	sep := strings.Repeat("=", separatorWidth)

	var b strings.Builder
	for i := range reports {
		r := &reports[i]
		fmt.Fprintf(&b, "\n%s\n", sep)
		fmt.Fprintf(&b, "URL   : %s\n", r.URL)
		fmt.Fprintf(&b, "Status: %s  (HTTP %s)\n", r.Status, codeString(r.HTTPCode))
		if r.Title != nil && *r.Title != "" {
			fmt.Fprintf(&b, "Title : %s\n", *r.Title)
		}
		fmt.Fprintf(&b, "Result: %s\n", r.Summary)
		if len(r.Hits) > 0 {
			fmt.Fprintf(&b, "\nDefect hits (%d):\n", len(r.Hits))
			for j, h := range r.Hits {
				fmt.Fprintf(&b, "  [%d] [%s] %s\n", j+1, h.Category, h.Excerpt)
			}
		}
	}
	fmt.Fprintf(&b, "\n%s\n", sep)
	fmt.Fprintf(&b, "Tracer complete. %d/%d document(s) flagged.\n", FlaggedCount(reports), len(reports))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

// WriteTable writes one row per hit, or one row per document without hits.
func WriteTable(w io.Writer, reports []domain.DocumentReport) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Excerpt", WidthMax: maxExcerptCell, WidthMaxEnforcer: text.WrapSoft},
	})

	t.AppendHeader(table.Row{"#", "URL", "Status", "HTTP", "Category", "Excerpt"})
	for i := range reports {
		r := &reports[i]
		if len(r.Hits) == 0 {
			t.AppendRow(table.Row{i + 1, r.URL, r.Status, codeString(r.HTTPCode), "-", r.Summary})
			continue
		}
		for _, h := range r.Hits {
			t.AppendRow(table.Row{i + 1, r.URL, r.Status, codeString(r.HTTPCode), h.Category, h.Excerpt})
		}
	}
	t.AppendFooter(table.Row{"", "", "", "", "Flagged", fmt.Sprintf("%d/%d", FlaggedCount(reports), len(reports))})

	t.Render()
	return nil
}

func codeString(code *int) string {
	if code == nil {
		return noCode
	}
	return strconv.Itoa(*code)
}
