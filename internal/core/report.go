package core

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"fwlens/pkg/engine"
	"fwlens/pkg/schema"
)

// ReportOptions controls Report output.
type ReportOptions struct {
	// Plain disables colors even when w is a color terminal.
	Plain bool
	// NoHeader omits the field name header line.
	NoHeader bool
}

const (
	separator   = "|"
	missingMark = "."
	colorMark   = "·"
	gutterWidth = 4
)

// Report prints the segmented view of text: a header with the field names,
// one line per row with the line number and every cell, the overflow tail after
// a '>' and a summary line. Missing positions of short cells are dotted.
func Report(w io.Writer, s schema.Schema, text string, opts ReportOptions) error {
	rows, err := engine.Segment(s, text)
	if err != nil {
		return err
	}

	r := lipgloss.NewRenderer(w)
	styled := !opts.Plain
	mark := missingMark
	if styled {
		mark = colorMark
	}
	render := func(st lipgloss.Style, v string) string {
		if !styled {
			return v
		}
		return st.Render(v)
	}

	var b strings.Builder
	if !opts.NoHeader {
		b.WriteString(strings.Repeat(" ", gutterWidth+1))
		b.WriteString(separator)
		for _, f := range s {
			name := runewidth.FillRight(runewidth.Truncate(f.Name, f.Length, ""), f.Length)
			b.WriteString(render(CellStyle(r, f.Color).Bold(true), name))
			b.WriteString(separator)
		}
		b.WriteByte('\n')
	}

	for _, row := range rows {
		fmt.Fprintf(&b, "%*d %s", gutterWidth, row.Line, separator)
		for i, c := range row.Cells {
			b.WriteString(render(CellStyle(r, s[i].Color), c.Value))
			if missing := c.Length - utf8.RuneCountInString(c.Value); missing > 0 {
				b.WriteString(render(UnderflowStyle(r), strings.Repeat(mark, missing)))
			}
			b.WriteString(separator)
		}
		if row.HasOverflow {
			b.WriteString(">")
			b.WriteString(render(OverflowStyle(r), row.Overflow))
		}
		b.WriteByte('\n')
	}

	sum := engine.Summarize(rows)
	fmt.Fprintf(&b, "%d rows, width %d, %d overflowing, %d underflowing\n",
		sum.Rows, s.TotalWidth(), sum.Overflowing, sum.Underflowing)

	_, err = io.WriteString(w, b.String())
	return err
}
