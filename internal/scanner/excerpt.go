package scanner

import "unicode/utf8"

// Ellipsis marks an excerpt truncated on that side.
const Ellipsis = "…"

// Excerpt returns up to window characters either side of text[start:end],
// match included. The window is counted in runes; start and end are byte
// offsets on rune boundaries.
func Excerpt(text string, start, end, window int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if end < start {
		end = start
	}

	from := start
	for i := 0; i < window && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}

	to := end
	for i := 0; i < window && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	excerpt := text[from:to]
	if from > 0 {
		excerpt = Ellipsis + excerpt
	}
	if to < len(text) {
		excerpt += Ellipsis
	}
	return excerpt
}
