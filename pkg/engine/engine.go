// Package engine slices newline-delimited text into fixed-width cells and splices
// single-cell edits back into the text.
//
// Offsets are counted in characters (runes). The schema is the only source of
// offsets: segments are derived on every read and never stored.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"fwlens/internal/rewrite"
	"fwlens/pkg/schema"
)

var (
	ErrRowOutOfRange = errors.New("row index out of range")
	// ErrInvalidValue is returned for a cell value that would split its row.
	ErrInvalidValue = errors.New("cell value contains a newline")
	// ErrFieldOutOfRange is shared with the schema package so callers can match either.
	ErrFieldOutOfRange = schema.ErrFieldOutOfRange
	ErrInvalidLength   = schema.ErrInvalidLength
)

// Cell is the slice of one row that falls inside one field.
type Cell struct {
	FieldID   string
	Offset    int
	Length    int
	Value     string
	Underflow bool // the row ended inside this field
}

// Row is one rendered line of the document.
type Row struct {
	Index       int // 0-based row index, as accepted by ApplyEdit
	Line        int // 1-based line number
	Text        string
	Cells       []Cell
	Overflow    string // content beyond the total schema width
	HasOverflow bool
}

// Underflowing reports whether any cell of the row is short.
func (r Row) Underflowing() bool {
	for _, c := range r.Cells {
		if c.Underflow {
			return true
		}
	}
	return false
}

// Segment splits text into rows and every row into one cell per field, plus an
// overflow tail when the row is wider than the schema. The empty remainder after a
// final newline is not a row. Segment fails only for a schema with negative lengths.
func Segment(s schema.Schema, text string) ([]Row, error) {
	if err := checkLengths(s); err != nil {
		return nil, err
	}
	li := rewrite.NewLineIndex(text)
	n := rowCount(li)
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		line, _ := li.Line(i)
		rows[i] = segmentRow(s, i, line)
	}
	return rows, nil
}

// SegmentRow segments a single line as row index.
func SegmentRow(s schema.Schema, index int, line string) (Row, error) {
	if err := checkLengths(s); err != nil {
		return Row{}, err
	}
	return segmentRow(s, index, line), nil
}

func segmentRow(s schema.Schema, index int, line string) Row {
	c := newChars(line)
	row := Row{Index: index, Line: index + 1, Text: line, Cells: make([]Cell, len(s))}
	offset := 0
	for i, f := range s {
		value := c.slice(offset, offset+f.Length)
		row.Cells[i] = Cell{
			FieldID:   f.ID,
			Offset:    offset,
			Length:    f.Length,
			Value:     value,
			Underflow: charLen(value) < f.Length,
		}
		// the grid is defined by the schema, not the data
		offset += f.Length
	}
	if c.len() > offset {
		row.Overflow = c.slice(offset, c.len())
		row.HasOverflow = true
	}
	return row
}

// Normalize forces value to exactly length characters: right-padded with
// spaces when short, truncated from the right when long.
func Normalize(value string, length int) string {
	if length <= 0 {
		return ""
	}
	c := newChars(value)
	if c.len() >= length {
		return c.slice(0, length)
	}
	return padRight(value, length)
}

// EditRow replaces field's range in a single line with value normalized to the
// field length. A line shorter than the field offset is first padded with spaces.
// Content after the field, including any overflow, is kept. A value containing
// '\n' is rejected with ErrInvalidValue.
func EditRow(s schema.Schema, line string, field int, value string) (string, error) {
	if err := checkLengths(s); err != nil {
		return "", err
	}
	if strings.IndexByte(value, '\n') >= 0 {
		return "", fmt.Errorf("edit field %d with %q: %w", field, value, ErrInvalidValue)
	}
	start, err := s.Offset(field)
	if err != nil {
		return "", err
	}
	length := s[field].Length
	padded := newChars(padRight(line, start))

	var b strings.Builder
	b.Grow(len(line) + length)
	b.WriteString(padded.slice(0, start))
	b.WriteString(Normalize(value, length))
	b.WriteString(padded.slice(start+length, padded.len()))
	return b.String(), nil
}

// ApplyEdit returns text with a single cell replaced. Only row changes; every
// other row, the row count and a trailing newline are preserved. Rows are not
// created implicitly: row must be one of the rows Segment returns.
func ApplyEdit(s schema.Schema, text string, row, field int, value string) (string, error) {
	if field < 0 || field >= len(s) {
		return text, fmt.Errorf("edit field %d (schema has %d): %w", field, len(s), ErrFieldOutOfRange)
	}
	li := rewrite.NewLineIndex(text)
	return applyEdit(s, li, row, field, value)
}

func applyEdit(s schema.Schema, li *rewrite.LineIndex, row, field int, value string) (string, error) {
	if row < 0 || row >= rowCount(li) {
		return li.Content(), fmt.Errorf("edit row %d (document has %d): %w", row, rowCount(li), ErrRowOutOfRange)
	}
	line, _ := li.Line(row)
	updated, err := EditRow(s, line, field, value)
	if err != nil {
		return li.Content(), err
	}
	return li.ReplaceLine(row, updated), nil
}

// PadAll right-pads every row shorter than the total schema width with spaces.
// Rows at or beyond the width are left alone, as is the empty remainder after a
// final newline.
func PadAll(s schema.Schema, text string) string {
	width := s.TotalWidth()
	if width <= 0 {
		return text
	}
	li := rewrite.NewLineIndex(text)
	n := rowCount(li)

	var b strings.Builder
	b.Grow(len(text) + n*width/2)
	for i := 0; i < li.Count(); i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		line, _ := li.Line(i)
		if i < n {
			line = padRight(line, width)
		}
		b.WriteString(line)
	}
	return b.String()
}

// rowCount is the number of addressable rows: all lines except the empty
// remainder after a final newline.
func rowCount(li *rewrite.LineIndex) int {
	if li.TrailingNewline() {
		return li.Count() - 1
	}
	return li.Count()
}

// RowCount returns the number of rows Segment would produce for text.
func RowCount(text string) int {
	return rowCount(rewrite.NewLineIndex(text))
}

func checkLengths(s schema.Schema) error {
	for i, f := range s {
		if f.Length < 0 {
			return fmt.Errorf("field %d (%q) length %d: %w", i, f.Name, f.Length, ErrInvalidLength)
		}
	}
	return nil
}
