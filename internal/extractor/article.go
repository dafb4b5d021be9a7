package extractor

import (
	"bytes"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// articleText runs a readability extractor over doc and returns the article
// title and collapsed text. Empty strings mean no article could be identified.
func articleText(doc []byte, pageURL string) (title, text string) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return "", ""
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", ""
	}

	article, err := readability.FromReader(bytes.NewReader(doc), parsedURL)
	if err != nil {
		return "", ""
	}

	return collapse(strings.TrimSpace(article.Title)), collapse(article.TextContent)
}
