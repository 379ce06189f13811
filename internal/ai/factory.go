package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/config"
)

// NewClassifier selects a provider from configuration.
func NewClassifier(cfg config.AIConfig, logger *zap.Logger) (Classifier, error) {
	switch cfg.Provider {
	case config.AIProviderOpenAI:
		logger.Info("creating openai classification provider", zap.String("model", cfg.Model))
		return NewOpenAIClassifier(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout(),
		}, logger)
	case config.AIProviderStatic:
		logger.Warn("using static classification provider")
		return NewStaticClassifier(), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q (supported: %s, %s)", cfg.Provider, config.AIProviderOpenAI, config.AIProviderStatic)
	}
}
