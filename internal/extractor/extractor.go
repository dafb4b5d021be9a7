// Package extractor reduces raw markup to a document title and plain body text.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/jonesrussell/doctracer/internal/logger"
)

// Mode selects how much of a document is kept as body text.
type Mode string

const (
	// ModeDocument keeps all visible text of the document.
	ModeDocument Mode = "document"
	// ModeArticle keeps only the main article content when it can be identified.
	ModeArticle Mode = "article"
)

// sniffLen is the number of leading bytes inspected to decide whether input is text.
const sniffLen = 512

// nonContentSelectors lists elements stripped before extracting body text.
// The title is read before head is removed.
const nonContentSelectors = "script, style, noscript, template, head"

// nonContentTags mirrors nonContentSelectors for the tokenizer fallback.
var nonContentTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// ErrNotText is returned when the input is not textual at all.
var ErrNotText = errors.New("document is not text")

// Result is the text extracted from one document.
type Result struct {
	// Title is the declared document title, empty when absent.
	Title string
	// Text is the visible text with whitespace runs collapsed to single spaces.
	Text string
}

// Extractor converts markup to text. It holds no per-document state and is
// safe for concurrent use.
type Extractor struct {
	mode   Mode
	logger logger.Interface
}

// New creates an Extractor. A nil logger disables logging.
func New(mode Mode, log logger.Interface) *Extractor {
	if log == nil {
		log = logger.NewNoOp()
	}
	if mode == "" {
		mode = ModeDocument
	}
	return &Extractor{mode: mode, logger: log.WithComponent("extractor")}
}

// Extract decodes raw using the declared content type and returns the title and
// body text. It fails only when raw, or raw once decoded, is not text.
func (e *Extractor) Extract(raw []byte, contentType, pageURL string) (Result, error) {
	if len(raw) == 0 {
		return Result{}, nil
	}
	// A recognized binary signature is rejected before decoding would mask it.
	if detected, ok := sniff(raw); !ok && detected != octetStream {
		return Result{}, fmt.Errorf("%w: detected %s", ErrNotText, detected)
	}

	decoded := decode(raw, contentType)
	if detected, ok := sniff(decoded); !ok {
		return Result{}, fmt.Errorf("%w: detected %s", ErrNotText, detected)
	}

	// The tree parser tolerates any markup; the tokenizer only covers parser
	// or reader failures.
	res, err := extractStrict(decoded)
	if err != nil {
		e.logger.WithError(err).Debug("strict parse failed, using lenient tokenizer", "url", pageURL)
		res = extractLenient(decoded)
	}

	if e.mode == ModeArticle {
		if title, text := articleText(decoded, pageURL); text != "" {
			res.Text = text
			if res.Title == "" {
				res.Title = title
			}
		} else {
			e.logger.Debug("no article content found, keeping full document text", "url", pageURL)
		}
	}

	return res, nil
}

// octetStream is what content sniffing reports for unrecognized binary data.
const octetStream = "application/octet-stream"

// sniff detects the media type of b and reports whether it is textual.
func sniff(b []byte) (string, bool) {
	if len(b) > sniffLen {
		b = b[:sniffLen]
	}
	detected := http.DetectContentType(b)
	return detected, strings.HasPrefix(detected, "text/") ||
		strings.Contains(detected, "xml") ||
		strings.Contains(detected, "json")
}

// utf8BOM survives decoding and would otherwise become body text.
var utf8BOM = []byte("\xef\xbb\xbf")

// decode converts raw to UTF-8, honoring a byte order mark before the declared
// charset. Undecodable input is returned unchanged.
func decode(raw []byte, contentType string) []byte {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return raw
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return raw
	}
	return bytes.TrimPrefix(out, utf8BOM)
}

// extractStrict parses the full document tree.
func extractStrict(doc []byte) (Result, error) {
	root, err := html.ParseWithOptions(bytes.NewReader(doc), html.ParseOptionEnableScripting(true))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	sel := goquery.NewDocumentFromNode(root)
	title := collapse(sel.Find("title").First().Text())

	sel.Find(nonContentSelectors).Remove()

	var b strings.Builder
	for _, n := range sel.Nodes {
		appendText(&b, n)
	}

	return Result{Title: title, Text: collapse(b.String())}, nil
}

// appendText writes every text node under n, separated by spaces.
func appendText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(b, c)
	}
}

// extractLenient walks the token stream without building a tree, tolerating
// arbitrarily malformed markup.
func extractLenient(doc []byte) Result {
	z := html.NewTokenizer(bytes.NewReader(doc))

	var (
		text    strings.Builder
		title   strings.Builder
		skip    int
		inTitle bool
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			return Result{Title: collapse(title.String()), Text: collapse(text.String())}
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "title" {
				inTitle = true
			}
			if nonContentTags[tag] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "title" {
				inTitle = false
			}
			if nonContentTags[tag] && skip > 0 {
				skip--
			}
		case html.TextToken:
			data := html.UnescapeString(string(z.Raw()))
			if inTitle {
				title.WriteString(data)
			}
			if skip == 0 {
				text.WriteString(data)
				text.WriteByte(' ')
			}
		}
	}
}

// collapse replaces every whitespace run with one space and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
