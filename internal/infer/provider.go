package infer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fwlens/internal/config"
)

// New builds the Inferrer selected by the configuration.
func New(ctx context.Context, cfg config.InferenceConfig, logger *zap.Logger) (Inferrer, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	switch cfg.Provider {
	case "", "gemini":
		g, err := NewGemini(ctx, GeminiOptions{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}, logger)
		if err != nil {
			return nil, err
		}
		g.logger.Debug("Inference provider ready", zap.String("provider", g.Name()))
		return g, nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}
}
