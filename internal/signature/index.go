// Package signature holds the immutable table of defect signatures the scanner
// runs against extracted document text.
package signature

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/doctracer/internal/domain"
)

// caseInsensitiveFlag is prepended to every pattern before compilation.
const caseInsensitiveFlag = "(?i)"

//go:embed signatures.yaml
var builtinSignatures []byte

// Errors returned while loading a signature table. All of them are fatal
// configuration errors.
var (
	ErrInvalidPattern    = errors.New("invalid signature pattern")
	ErrEmptyPattern      = errors.New("empty signature pattern")
	ErrEmptyCategory     = errors.New("category name must not be empty")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrNoPatterns        = errors.New("category has no patterns")
	ErrNoCategories      = errors.New("signature table has no categories")
	ErrInvalidAnchor     = errors.New("anchor does not occur in pattern")
)

// Matcher is one compiled, case-insensitive pattern belonging to a category.
// Matchers are immutable and safe for concurrent use.
type Matcher struct {
	category domain.Category
	pattern  string
	anchors  []string
	re       *regexp.Regexp
}

// Category returns the category the matcher belongs to.
func (m *Matcher) Category() domain.Category { return m.category }

// Pattern returns the pattern text as declared.
func (m *Matcher) Pattern() string { return m.pattern }

// Anchors returns the lower-cased anchor keywords of the matcher.
func (m *Matcher) Anchors() []string {
	out := make([]string, len(m.anchors))
	copy(out, m.anchors)
	return out
}

// FindAllIndex returns the byte ranges of all non-overlapping matches in text.
func (m *Matcher) FindAllIndex(text string) [][]int {
	return m.re.FindAllStringIndex(text, -1)
}

// Index maps each category to its ordered matchers. Iteration follows
// declaration order. An Index is never mutated after construction.
type Index struct {
	categories   []domain.Category
	descriptions map[domain.Category]string
	matchers     map[domain.Category][]*Matcher
}

// Categories returns the categories in declaration order.
func (i *Index) Categories() []domain.Category {
	out := make([]domain.Category, len(i.categories))
	copy(out, i.categories)
	return out
}

// Matchers returns the matchers of a category in declaration order.
func (i *Index) Matchers(category domain.Category) []*Matcher {
	src := i.matchers[category]
	out := make([]*Matcher, len(src))
	copy(out, src)
	return out
}

// Description returns the human-readable description of a category.
func (i *Index) Description(category domain.Category) string {
	return i.descriptions[category]
}

// Len returns the total number of matchers across all categories.
func (i *Index) Len() int {
	n := 0
	for _, ms := range i.matchers {
		n += len(ms)
	}
	return n
}

// file mirrors the YAML layout of a signature table.
type file struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Patterns    []struct {
			Pattern string   `yaml:"pattern"`
			Anchors []string `yaml:"anchors"`
		} `yaml:"patterns"`
	} `yaml:"categories"`
}

var (
	defaultIndex *Index
	defaultOnce  sync.Once
)

// Default returns the built-in signature table. It is parsed once per process.
// A broken built-in table is a programming error and panics.
func Default() *Index {
	defaultOnce.Do(func() {
		idx, err := Parse(builtinSignatures)
		if err != nil {
			panic(fmt.Sprintf("signature: built-in table: %v", err))
		}
		defaultIndex = idx
	})
	return defaultIndex
}

// LoadFile reads a signature table from a YAML file.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signature file: %w", err)
	}
	defer f.Close()

	idx, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return idx, nil
}

// Load reads a signature table from r.
func Load(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read signature table: %w", err)
	}
	return Parse(data)
}

// Parse builds an Index from YAML bytes, compiling and validating every pattern.
func Parse(data []byte) (*Index, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse signature table: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, ErrNoCategories
	}

	idx := &Index{
		categories:   make([]domain.Category, 0, len(f.Categories)),
		descriptions: make(map[domain.Category]string, len(f.Categories)),
		matchers:     make(map[domain.Category][]*Matcher, len(f.Categories)),
	}

	for _, c := range f.Categories {
		name := domain.Category(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, ErrEmptyCategory
		}
		if _, dup := idx.matchers[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
		}
		if len(c.Patterns) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoPatterns, name)
		}

		matchers := make([]*Matcher, 0, len(c.Patterns))
		for _, p := range c.Patterns {
			m, err := newMatcher(name, p.Pattern, p.Anchors)
			if err != nil {
				return nil, err
			}
			matchers = append(matchers, m)
		}

		idx.categories = append(idx.categories, name)
		idx.descriptions[name] = strings.TrimSpace(c.Description)
		idx.matchers[name] = matchers
	}

	return idx, nil
}

func newMatcher(category domain.Category, pattern string, anchors []string) (*Matcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w in category %s", ErrEmptyPattern, category)
	}

	re, err := regexp.Compile(caseInsensitiveFlag + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q in category %s: %w", ErrInvalidPattern, pattern, category, err)
	}

	lowered := strings.ToLower(pattern)
	normalized := make([]string, 0, len(anchors))
	for _, a := range anchors {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || !strings.Contains(lowered, a) {
			return nil, fmt.Errorf("%w: %q in %q (%s)", ErrInvalidAnchor, a, pattern, category)
		}
		normalized = append(normalized, a)
	}

	return &Matcher{
		category: category,
		pattern:  pattern,
		anchors:  normalized,
		re:       re,
	}, nil
}
