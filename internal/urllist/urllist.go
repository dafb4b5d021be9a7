// Package urllist reads newline-delimited URL lists.
package urllist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// commentPrefix marks a line that is ignored.
const commentPrefix = "#"

// maxLineBytes bounds a single line of the list.
const maxLineBytes = 1 << 20

// Parse reads one URL per line from r. Lines that are blank or begin with
// "#" after trimming are skipped. Order is preserved and duplicates are kept.
func Parse(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	urls := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// LoadFile reads the URL list at path.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
