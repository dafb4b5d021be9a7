package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/doctracer/internal/signature"
)

// prefilter decides, in one Aho-Corasick pass over the text, which matchers
// can possibly fire. A matcher without anchors is always a candidate.
type prefilter struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	// anchored maps a keyword index to the matchers that declare it.
	anchored map[int][]*signature.Matcher
}

func newPrefilter(idx *signature.Index) *prefilter {
	p := &prefilter{anchored: make(map[int][]*signature.Matcher)}
	position := make(map[string]int)

	for _, category := range idx.Categories() {
		for _, m := range idx.Matchers(category) {
			for _, anchor := range m.Anchors() {
				kw := foldString(anchor)
				i, ok := position[kw]
				if !ok {
					i = len(p.keywords)
					position[kw] = i
					p.keywords = append(p.keywords, kw)
				}
				p.anchored[i] = append(p.anchored[i], m)
			}
		}
	}

	if len(p.keywords) > 0 {
		p.matcher = ahocorasick.NewStringMatcher(p.keywords)
	}
	return p
}

// candidates returns the set of anchored matchers whose anchors occur in text.
func (p *prefilter) candidates(text string) map[*signature.Matcher]struct{} {
	out := make(map[*signature.Matcher]struct{})
	if p.matcher == nil {
		return out
	}
	for _, i := range p.matcher.MatchThreadSafe([]byte(foldString(text))) {
		for _, m := range p.anchored[i] {
			out[m] = struct{}{}
		}
	}
	return out
}

// foldString maps every rune to the representative the case-insensitive
// regexp engine would treat as equal, preferring lower-case ASCII. This keeps
// characters such as the Kelvin sign or long s matching their ASCII anchors.
func foldString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(foldRune(r))
	}
	return b.String()
}

func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		return unicode.ToLower(r)
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < utf8.RuneSelf {
			return unicode.ToLower(f)
		}
	}
	return unicode.ToLower(r)
}
