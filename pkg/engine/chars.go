package engine

import (
	"strings"
	"unicode/utf8"
)

// chars is a string addressed by character (rune) position.
// ASCII strings are sliced by byte; anything else is decoded once.
type chars struct {
	s     string
	runes []rune
}

func newChars(s string) chars {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return chars{s: s, runes: []rune(s)}
		}
	}
	return chars{s: s}
}

func (c chars) len() int {
	if c.runes != nil {
		return len(c.runes)
	}
	return len(c.s)
}

// slice returns characters [from, to) clamped to the string bounds.
func (c chars) slice(from, to int) string {
	n := c.len()
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from >= to {
		return ""
	}
	if c.runes != nil {
		return string(c.runes[from:to])
	}
	return c.s[from:to]
}

// charLen counts characters the way the engine does.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}

// padRight appends spaces until s is width characters long.
func padRight(s string, width int) string {
	if n := charLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
