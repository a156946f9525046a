package infer

import (
	"context"
	"strings"
	"sync"

	"fwlens/pkg/schema"
)

// Static is an Inferrer that answers from memory. It is used offline and in tests.
type Static struct {
	Specs []schema.Spec
	Err   error

	mu    sync.Mutex
	calls []string
}

func (s *Static) InferSchema(ctx context.Context, input string) ([]schema.Spec, error) {
	s.mu.Lock()
	s.calls = append(s.calls, input)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyPrompt
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]schema.Spec, len(s.Specs))
	copy(out, s.Specs)
	return out, nil
}

// Calls returns every input received so far.
func (s *Static) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
