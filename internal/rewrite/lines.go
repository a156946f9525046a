package rewrite

import "strings"

// LineIndex maps line numbers of a newline-delimited document to byte ranges.
// Lines follow strings.Split(content, "\n") semantics: a document ending in '\n'
// has a final empty line, and "" has exactly one empty line.
type LineIndex struct {
	content     string
	lineOffsets []int // byte offset where each line begins
}

// NewLineIndex indexes content once so that single lines can be located without splitting.
func NewLineIndex(content string) *LineIndex {
	return &LineIndex{content: content, lineOffsets: BuildLineOffsets(content)}
}

// Content returns the indexed document.
func (li *LineIndex) Content() string {
	return li.content
}

// Count returns the number of lines, including a trailing empty one.
func (li *LineIndex) Count() int {
	return len(li.lineOffsets)
}

// TrailingNewline reports whether the document ends with '\n', i.e. whether
// its last line is the empty remainder after the final newline.
func (li *LineIndex) TrailingNewline() bool {
	return strings.HasSuffix(li.content, "\n")
}

// Bounds returns the byte range [start, end) of line i, excluding its newline.
func (li *LineIndex) Bounds(i int) (start, end int, ok bool) {
	if i < 0 || i >= len(li.lineOffsets) {
		return 0, 0, false
	}
	start = li.lineOffsets[i]
	if i+1 < len(li.lineOffsets) {
		end = li.lineOffsets[i+1] - 1
	} else {
		end = len(li.content)
	}
	return start, end, true
}

// Line returns the text of line i without its newline.
func (li *LineIndex) Line(i int) (string, bool) {
	start, end, ok := li.Bounds(i)
	if !ok {
		return "", false
	}
	return li.content[start:end], true
}

// ReplaceLine returns the content with line i replaced by line. Every other byte,
// including all newlines, is copied verbatim. Out-of-range indices return the content unchanged.
func (li *LineIndex) ReplaceLine(i int, line string) string {
	start, end, ok := li.Bounds(i)
	if !ok {
		return li.content
	}
	var b strings.Builder
	b.Grow(len(li.content) - (end - start) + len(line))
	b.WriteString(li.content[:start])
	b.WriteString(line)
	b.WriteString(li.content[end:])
	return b.String()
}

// BuildLineOffsets returns the byte offsets where each line begins.
// E.g. for "ab\ncd\n" the offsets are [0, 3, 6].
func BuildLineOffsets(content string) []int {
	offsets := make([]int, 1, strings.Count(content, "\n")+1)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
