package infer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"fwlens/pkg/schema"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiOptions configures the Gemini adapter.
type GeminiOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses the public Gemini API.
	BaseURL string
}

// Gemini infers schemas through the Gemini API using structured JSON output.
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// responseSchema constrains the model to an array of {name, length} objects.
var responseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":   {Type: genai.TypeString},
			"length": {Type: genai.TypeInteger},
		},
		Required: []string{"name", "length"},
	},
}

// NewGemini creates a Gemini-backed Inferrer.
func NewGemini(ctx context.Context, opts GeminiOptions, logger *zap.Logger) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  opts.Model,
		logger: logger.Named("gemini"),
	}, nil
}

// InferSchema sends input to the model and parses the returned field list.
func (g *Gemini) InferSchema(ctx context.Context, input string) ([]schema.Spec, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyPrompt
	}

	g.logger.Debug("Requesting schema inference",
		zap.String("model", g.model),
		zap.Int("input_len", len(input)))

	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(BuildPrompt(input)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	)
	if err != nil {
		g.logger.Warn("Schema inference failed", zap.Error(err))
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	specs, err := ParseResponse(resp.Text())
	if err != nil {
		g.logger.Warn("Schema inference returned unusable output", zap.Error(err))
		return nil, err
	}

	g.logger.Info("Schema inferred",
		zap.String("model", g.model),
		zap.Int("fields", len(specs)))
	return specs, nil
}

// Name returns the adapter name.
func (g *Gemini) Name() string {
	return fmt.Sprintf("gemini:%s", g.model)
}
