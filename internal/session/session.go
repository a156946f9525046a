// Package session holds the editing state of one document: the schema, the raw text
// and the schema inference status. Every mutation swaps a whole value and bumps a
// revision; segmented rows are derived from the current pair on demand.
//
// A Session is owned by a single goroutine (the UI update loop) and is not safe for
// concurrent use. Inference runs elsewhere and reports back through CompleteInference.
package session

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fwlens/internal/clock"
	"fwlens/internal/infer"
	"fwlens/internal/state"
	"fwlens/pkg/engine"
	"fwlens/pkg/schema"
)

var ErrInferenceInFlight = errors.New("schema inference already in progress")

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to timestamp inference requests.
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session coordinates the schema, the document and the derived segmentation.
type Session struct {
	schema    schema.Schema
	text      string
	schemaRev uint64
	textRev   uint64

	projection engine.Projection

	inference state.Inference
	lastID    uint64

	clock  clock.Clock
	logger *zap.Logger
}

// New creates a session over an initial schema and document.
func New(s schema.Schema, text string, opts ...Option) (*Session, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("initial schema: %w", err)
	}
	sess := &Session{
		schema: s.Clone(),
		text:   text,
		clock:  clock.RealClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(sess)
	}
	return sess, nil
}

// Schema returns a copy of the current schema.
func (s *Session) Schema() schema.Schema { return s.schema.Clone() }

// Text returns the current raw document.
func (s *Session) Text() string { return s.text }

// Revisions returns the schema and text revisions. Both start at zero and only grow.
func (s *Session) Revisions() (schemaRev, textRev uint64) { return s.schemaRev, s.textRev }

// Rows returns the segmented view of the current document, recomputed only
// when the schema or text changed since the last call. The rows and their cells
// are copies the caller may modify.
func (s *Session) Rows() ([]engine.Row, error) {
	cached, err := s.projection.Rows(s.schema, s.schemaRev, s.text, s.textRev)
	if err != nil {
		return nil, err
	}
	rows := make([]engine.Row, len(cached))
	for i, r := range cached {
		r.Cells = append([]engine.Cell(nil), r.Cells...)
		rows[i] = r
	}
	return rows, nil
}

// Summary counts rows, overflowing rows and underflowing rows.
func (s *Session) Summary() engine.Summary {
	rows, err := s.Rows()
	if err != nil {
		return engine.Summary{}
	}
	return engine.Summarize(rows)
}

// SetText replaces the whole document, e.g. after typing or pasting.
func (s *Session) SetText(text string) {
	if text == s.text {
		return
	}
	s.text = text
	s.textRev++
}

// EditCell replaces one cell of one row with value, forced to the field width.
func (s *Session) EditCell(row, field int, value string) error {
	next, err := engine.ApplyEdit(s.schema, s.text, row, field, value)
	if err != nil {
		return err
	}
	s.logger.Debug("Cell edited",
		zap.Int("row", row),
		zap.String("field", s.schema[field].Name),
		zap.Int("value_len", len(value)))
	s.SetText(next)
	return nil
}

// PadAll pads every short row to the schema width. It reports whether anything changed.
func (s *Session) PadAll() bool {
	next := engine.PadAll(s.schema, s.text)
	if next == s.text {
		return false
	}
	s.SetText(next)
	s.logger.Debug("Rows padded", zap.Int("width", s.schema.TotalWidth()))
	return true
}

// ReplaceSchema swaps in a complete schema. The document is not touched.
func (s *Session) ReplaceSchema(next schema.Schema) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.setSchema(next.Clone())
	return nil
}

func (s *Session) setSchema(next schema.Schema) {
	s.schema = next
	s.schemaRev++
}

// AddField appends a field and returns it.
func (s *Session) AddField(name string, length int) (schema.Field, error) {
	next, f, err := s.schema.Add(name, length)
	if err != nil {
		return schema.Field{}, err
	}
	s.setSchema(next)
	return f, nil
}

// RenameField renames the field with the given id.
func (s *Session) RenameField(id, name string) error {
	next, err := s.schema.Rename(id, name)
	if err != nil {
		return err
	}
	s.setSchema(next)
	return nil
}

// ResizeField changes the length of the field with the given id.
func (s *Session) ResizeField(id string, length int) error {
	next, err := s.schema.Resize(id, length)
	if err != nil {
		return err
	}
	s.setSchema(next)
	return nil
}

// RemoveField drops the field with the given id.
func (s *Session) RemoveField(id string) error {
	next, err := s.schema.Remove(id)
	if err != nil {
		return err
	}
	s.setSchema(next)
	return nil
}

// MoveField moves the field at index from to index to.
func (s *Session) MoveField(from, to int) error {
	next, err := s.schema.Move(from, to)
	if err != nil {
		return err
	}
	s.setSchema(next)
	return nil
}

// Inference returns the state of the latest inference request.
func (s *Session) Inference() state.Inference { return s.inference }

// BeginInference records a new request and returns its id. Only one request
// may be in flight; a second call fails with ErrInferenceInFlight.
func (s *Session) BeginInference(input string) (uint64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, infer.ErrEmptyPrompt
	}
	if s.inference.IsActive() {
		return 0, ErrInferenceInFlight
	}
	s.lastID++
	s.inference = state.Inference{
		RequestID: s.lastID,
		Status:    state.Analyzing,
		Input:     input,
		StartedAt: s.clock.Now(),
	}
	s.logger.Info("Schema inference started", zap.Uint64("request_id", s.lastID))
	return s.lastID, nil
}

// CompleteInference applies the outcome of request id. Outcomes of any request
// other than the one in flight are dropped and false is returned. On failure the
// schema is left untouched and only the status changes; on success the schema is
// replaced wholesale.
func (s *Session) CompleteInference(id uint64, specs []schema.Spec, err error) bool {
	if id != s.inference.RequestID || !s.inference.IsActive() {
		s.logger.Debug("Dropping stale inference result",
			zap.Uint64("request_id", id),
			zap.Uint64("current_id", s.inference.RequestID))
		return false
	}
	s.inference.FinishedAt = s.clock.Now()

	var next schema.Schema
	if err == nil {
		next, err = schema.FromSpecs(specs)
	}
	if err != nil {
		s.inference.Status = state.Failed
		s.inference.Err = err
		s.logger.Warn("Schema inference failed",
			zap.Uint64("request_id", id),
			zap.Duration("elapsed", s.inference.Elapsed(s.inference.FinishedAt)),
			zap.Error(err))
		return true
	}

	s.setSchema(next)
	s.inference.Status = state.Succeeded
	s.inference.Err = nil
	s.logger.Info("Schema inference applied",
		zap.Uint64("request_id", id),
		zap.Int("fields", len(next)),
		zap.Duration("elapsed", s.inference.Elapsed(s.inference.FinishedAt)))
	return true
}

// CancelInference abandons the request in flight, if any. Its late result will be dropped.
func (s *Session) CancelInference() {
	if !s.inference.IsActive() {
		return
	}
	s.logger.Info("Schema inference cancelled", zap.Uint64("request_id", s.inference.RequestID))
	s.inference.Status = state.Idle
	s.inference.FinishedAt = s.clock.Now()
}
