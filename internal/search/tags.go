package search

import (
	"regexp"
	"strings"
)

const (
	// FrontmatterPattern matches a "tags:" line followed by "- tag" items.
	FrontmatterPattern = `(^|\n)tags:(\n- [-_\p{L}\p{N}]+)+`
	// EmbeddedPattern matches #tag# tokens after a line start or a space.
	EmbeddedPattern = `(^|\n| )#([-_\p{L}\p{N}]+)#`
)

var tagItemRe = regexp.MustCompile(`^-\s+([-_\p{L}\p{N}]+)$`)

// ParseFrontmatterTags returns the items of the tag block in a front-matter
// match. Lines before the "tags:" marker are ignored and the block ends at
// the first line that is not a "- item".
func ParseFrontmatterTags(block string) []string {
	var tags []string
	inBlock := false
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "tags:" {
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}

		m := tagItemRe.FindStringSubmatch(line)
		if m == nil {
			inBlock = false
			continue
		}
		tags = append(tags, m[1])
	}
	return tags
}

// ParseEmbeddedTag extracts the tag from one line of rg "file:match" output.
// It returns "" for lines that carry no tag, such as the bare "file:" prefix
// rg prints when a match starts with a newline.
func ParseEmbeddedTag(line string) string {
	if i := strings.LastIndex(line, ":"); i >= 0 {
		line = line[i+1:]
	}
	return strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
}
