package notebook

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
)

// HeaderLines bounds how much of a notebook is scanned for a Tags: line.
const HeaderLines = 20

var tagsLine = regexp.MustCompile(`(?i)Tags:\s*(.+)`)

// ReadTags returns the tags declared on the first Tags: line within the
// notebook header. Unreadable files have no tags.
func ReadTags(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	// Lines are read whole; a long first line must not hide a later Tags: line.
	reader := bufio.NewReader(f)
	for range HeaderLines {
		line, err := reader.ReadString('\n')
		if match := tagsLine.FindStringSubmatch(strings.TrimRight(line, "\r\n")); match != nil {
			return parseTags(match[1])
		}
		if err != nil {
			return nil
		}
	}
	return nil
}

// HasTag reports whether the notebook declares tag. Matching is exact on
// the trimmed token; only the Tags: label is case-insensitive.
func HasTag(path, tag string) bool {
	return slices.Contains(ReadTags(path), tag)
}

func parseTags(list string) []string {
	parts := strings.Split(strings.TrimSpace(list), ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}
