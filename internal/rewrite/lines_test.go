package rewrite

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildLineOffsets(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []int
	}{
		{name: "empty", content: "", want: []int{0}},
		{name: "single line", content: "abc", want: []int{0}},
		{name: "trailing newline", content: "ab\ncd\n", want: []int{0, 3, 6}},
		{name: "blank lines", content: "\n\n", want: []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildLineOffsets(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildLineOffsets(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestLineIndexMatchesSplit(t *testing.T) {
	docs := []string{"", "a", "a\n", "a\nbb\n\nccc", "\n", "x\r\ny"}
	for _, doc := range docs {
		li := NewLineIndex(doc)
		want := strings.Split(doc, "\n")
		if li.Count() != len(want) {
			t.Fatalf("%q: Count() = %d, want %d", doc, li.Count(), len(want))
		}
		for i, w := range want {
			got, ok := li.Line(i)
			if !ok || got != w {
				t.Errorf("%q: Line(%d) = %q, %v; want %q", doc, i, got, ok, w)
			}
		}
		if _, ok := li.Line(len(want)); ok {
			t.Errorf("%q: Line(%d) should be out of range", doc, len(want))
		}
		if li.TrailingNewline() != strings.HasSuffix(doc, "\n") {
			t.Errorf("%q: TrailingNewline() = %v", doc, li.TrailingNewline())
		}
	}
}

func TestReplaceLine(t *testing.T) {
	doc := "one\ntwo\nthree\n"
	li := NewLineIndex(doc)

	if got, want := li.ReplaceLine(1, "TWO!"), "one\nTWO!\nthree\n"; got != want {
		t.Errorf("ReplaceLine middle = %q, want %q", got, want)
	}
	if got, want := li.ReplaceLine(0, ""), "\ntwo\nthree\n"; got != want {
		t.Errorf("ReplaceLine first = %q, want %q", got, want)
	}
	if got := li.ReplaceLine(9, "x"); got != doc {
		t.Errorf("ReplaceLine out of range changed content: %q", got)
	}
}
