// Package completion builds the configured domain.Completer.
package completion

import (
	"fmt"
	"time"

	"groundqa/internal/completion/openai"
	"groundqa/internal/config"
	"groundqa/internal/domain"
)

// New returns the completer selected by cfg.Type.
func New(cfg config.CompletionConfig) (domain.Completer, error) {
	switch cfg.Type {
	case "openai", "":
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai completer init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown completer: %s", cfg.Type)
	}
}
