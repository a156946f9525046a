// Package infer asks a generative model for a fixed-width schema, given either a
// natural-language description of the fields or a sample data line.
package infer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fwlens/pkg/schema"
)

var (
	ErrMissingAPIKey     = errors.New("inference: API key is missing")
	ErrEmptyPrompt       = errors.New("inference: prompt is empty")
	ErrMalformedResponse = errors.New("inference: malformed response")
	ErrEmptyResponse     = errors.New("inference: response contains no fields")
	ErrInvalidSpec       = errors.New("inference: response field is invalid")
)

// Inferrer turns free-form text into an ordered list of field specs.
// A call either returns a complete list or an error; it never returns a partial result.
type Inferrer interface {
	InferSchema(ctx context.Context, input string) ([]schema.Spec, error)
}

// BuildPrompt wraps the user's input in the instructions sent to the model.
func BuildPrompt(input string) string {
	var b strings.Builder
	b.WriteString("Analyze the following text input to determine a fixed-width file schema.\n")
	b.WriteString("The input might be a description of fields (e.g., \"ID is 5 chars, Name is 10\")\n")
	b.WriteString("OR it might be a raw sample line of data (e.g., \"12345John Doe  2023\").\n\n")
	b.WriteString("If it is sample data, try to infer the fields and their likely lengths based on whitespace or data types.\n")
	b.WriteString("If it is a description, parse the names and lengths.\n\n")
	b.WriteString("Return a JSON array where each object has \"name\" (string) and \"length\" (integer).\n\n")
	b.WriteString("Input Text:\n\"\"\"\n")
	b.WriteString(input)
	b.WriteString("\n\"\"\"\n")
	return b.String()
}

// ParseResponse decodes the model's JSON array into field specs.
// Names must be non-blank and lengths positive; nothing else is checked.
func ParseResponse(text string) ([]schema.Spec, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	var raw []struct {
		Name   *string `json:"name"`
		Length *int    `json:"length"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}
	specs := make([]schema.Spec, len(raw))
	for i, r := range raw {
		if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidSpec, i)
		}
		if r.Length == nil || *r.Length < 1 {
			return nil, fmt.Errorf("%w: field %d (%q) has no positive length", ErrInvalidSpec, i, *r.Name)
		}
		specs[i] = schema.Spec{Name: strings.TrimSpace(*r.Name), Length: *r.Length}
	}
	return specs, nil
}
