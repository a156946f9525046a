// Package schema models the ordered list of fixed-width fields that defines a row layout.
package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFieldNotFound   = errors.New("field not found")
	ErrFieldOutOfRange = errors.New("field index out of range")
	ErrInvalidLength   = errors.New("field length must be at least 1")
	ErrDuplicateID     = errors.New("duplicate field id")
	ErrEmptyID         = errors.New("field id is empty")
	ErrEmptySchema     = errors.New("schema has no fields")
)

// Field is a named, fixed-length slot in a row.
// ID is stable across reorders; Name and Length are user editable.
type Field struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Length int    `yaml:"length" json:"length"`
	Color  string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Spec is a bare {name, length} pair, as produced by schema inference or a markdown import.
type Spec struct {
	Name   string `yaml:"name" json:"name"`
	Length int    `yaml:"length" json:"length"`
}

// Schema is the ordered list of fields defining the layout of every row.
// Methods never modify the receiver; mutations return a new Schema.
type Schema []Field

// NewID returns a fresh field id.
func NewID() string {
	return "field-" + uuid.NewString()
}

// TotalWidth returns the sum of all field lengths.
func (s Schema) TotalWidth() int {
	total := 0
	for _, f := range s {
		total += f.Length
	}
	return total
}

// Offset returns the start offset of field i within a row.
func (s Schema) Offset(i int) (int, error) {
	if i < 0 || i >= len(s) {
		return 0, fmt.Errorf("offset of field %d (schema has %d): %w", i, len(s), ErrFieldOutOfRange)
	}
	off := 0
	for _, f := range s[:i] {
		off += f.Length
	}
	return off, nil
}

// Index returns the position of the field with the given id, or -1.
func (s Schema) Index(id string) int {
	for i, f := range s {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Lookup resolves a field reference that is either a field name (case-insensitive)
// or a zero-based index. Names win over indices.
func (s Schema) Lookup(ref string) (int, error) {
	for i, f := range s {
		if strings.EqualFold(f.Name, ref) {
			return i, nil
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 0 || idx >= len(s) {
			return 0, fmt.Errorf("field %d: %w", idx, ErrFieldOutOfRange)
		}
		return idx, nil
	}
	return 0, fmt.Errorf("field %q: %w", ref, ErrFieldNotFound)
}

// Validate reports the first structural problem with the schema.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, f := range s {
		if f.ID == "" {
			return fmt.Errorf("field %d (%q): %w", i, f.Name, ErrEmptyID)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("field %d (%q) id %q: %w", i, f.Name, f.ID, ErrDuplicateID)
		}
		seen[f.ID] = struct{}{}
		if f.Length < 1 {
			return fmt.Errorf("field %d (%q) length %d: %w", i, f.Name, f.Length, ErrInvalidLength)
		}
	}
	return nil
}

// Clone returns a copy that shares nothing with s.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	copy(out, s)
	return out
}

// Add appends a new field with a fresh id and the default color.
func (s Schema) Add(name string, length int) (Schema, Field, error) {
	if length < 1 {
		return s, Field{}, fmt.Errorf("add %q length %d: %w", name, length, ErrInvalidLength)
	}
	f := Field{ID: NewID(), Name: name, Length: length, Color: DefaultColor}
	out := make(Schema, len(s), len(s)+1)
	copy(out, s)
	return append(out, f), f, nil
}

// Rename changes the name of the field with the given id.
func (s Schema) Rename(id, name string) (Schema, error) {
	i := s.Index(id)
	if i < 0 {
		return s, fmt.Errorf("rename %q: %w", id, ErrFieldNotFound)
	}
	out := s.Clone()
	out[i].Name = name
	return out, nil
}

// Resize changes the length of the field with the given id.
// Lengths below 1 are rejected: clamping would silently shift every later offset.
func (s Schema) Resize(id string, length int) (Schema, error) {
	i := s.Index(id)
	if i < 0 {
		return s, fmt.Errorf("resize %q: %w", id, ErrFieldNotFound)
	}
	if length < 1 {
		return s, fmt.Errorf("resize %q to %d: %w", s[i].Name, length, ErrInvalidLength)
	}
	out := s.Clone()
	out[i].Length = length
	return out, nil
}

// Remove drops the field with the given id.
func (s Schema) Remove(id string) (Schema, error) {
	i := s.Index(id)
	if i < 0 {
		return s, fmt.Errorf("remove %q: %w", id, ErrFieldNotFound)
	}
	out := make(Schema, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), nil
}

// Move relocates the field at index from to index to, shifting the fields in between.
// The relative order of all other fields is kept.
func (s Schema) Move(from, to int) (Schema, error) {
	if from < 0 || from >= len(s) {
		return s, fmt.Errorf("move from %d: %w", from, ErrFieldOutOfRange)
	}
	if to < 0 || to >= len(s) {
		return s, fmt.Errorf("move to %d: %w", to, ErrFieldOutOfRange)
	}
	out := s.Clone()
	if from == to {
		return out, nil
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// FromSpecs builds a complete schema from name/length pairs, assigning fresh ids
// and palette colors by position. Any positive length is accepted as-is.
func FromSpecs(specs []Spec) (Schema, error) {
	if len(specs) == 0 {
		return nil, ErrEmptySchema
	}
	out := make(Schema, len(specs))
	for i, sp := range specs {
		if sp.Length < 1 {
			return nil, fmt.Errorf("field %d (%q) length %d: %w", i, sp.Name, sp.Length, ErrInvalidLength)
		}
		out[i] = Field{ID: NewID(), Name: sp.Name, Length: sp.Length, Color: ColorAt(i)}
	}
	return out, nil
}

// Specs strips ids and colors.
func (s Schema) Specs() []Spec {
	out := make([]Spec, len(s))
	for i, f := range s {
		out[i] = Spec{Name: f.Name, Length: f.Length}
	}
	return out
}
