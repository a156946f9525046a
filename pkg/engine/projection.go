package engine

import "fwlens/pkg/schema"

// Summary counts the row classes shown in the editor header.
type Summary struct {
	Rows         int
	Overflowing  int
	Underflowing int
}

// Summarize counts overflowing and underflowing rows.
func Summarize(rows []Row) Summary {
	sum := Summary{Rows: len(rows)}
	for _, r := range rows {
		if r.HasOverflow {
			sum.Overflowing++
		}
		if r.Underflowing() {
			sum.Underflowing++
		}
	}
	return sum
}

// Projection memoizes Segment for a (schema revision, text revision) pair.
// Callers bump a revision whenever they swap the corresponding value; the
// projection recomputes only when either revision differs from the cached one.
// The zero value is ready to use.
type Projection struct {
	schemaRev uint64
	textRev   uint64
	valid     bool
	rows      []Row
	err       error
}

// Rows returns the segmented rows, recomputing only when a revision changed.
// The result is shared with later calls and must not be modified.
func (p *Projection) Rows(s schema.Schema, schemaRev uint64, text string, textRev uint64) ([]Row, error) {
	if p.valid && p.schemaRev == schemaRev && p.textRev == textRev {
		return p.rows, p.err
	}
	p.rows, p.err = Segment(s, text)
	p.schemaRev, p.textRev, p.valid = schemaRev, textRev, true
	return p.rows, p.err
}
