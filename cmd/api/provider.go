package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/certprep-api/internal/config"
	"github.com/noah-isme/certprep-api/pkg/ai"
)

// buildProvider selects the AI backend. ai.base_url is the Ollama server for "ollama" and the endpoint for "gateway".
func buildProvider(ctx context.Context, cfg config.Config, logger zerolog.Logger) (ai.Provider, error) {
	var (
		provider ai.Provider
		err      error
	)

	switch cfg.AIProvider {
	case "openai":
		openaiProvider, buildErr := ai.NewOpenAIProvider(ai.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.AIModel,
			BaseURL:     cfg.AIBaseURL,
			MaxTokens:   cfg.AIMaxTokens,
			Temperature: cfg.AITemperature,
			Logger:      logger,
		})
		provider, err = openaiProvider, buildErr
	case "gemini":
		geminiProvider, buildErr := ai.NewGeminiProvider(ctx, ai.GeminiConfig{
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.AIModel,
			Temperature:     cfg.AITemperature,
			MaxOutputTokens: int32(cfg.AIMaxTokens),
		})
		provider, err = geminiProvider, buildErr
	case "ollama":
		ollamaProvider, buildErr := ai.NewOllamaProvider(ai.OllamaConfig{
			ServerURL:   cfg.AIBaseURL,
			Model:       cfg.AIModel,
			Temperature: float64(cfg.AITemperature),
			HTTPTimeout: cfg.GenerationTimeout,
		})
		provider, err = ollamaProvider, buildErr
	case "gateway":
		gatewayProvider, buildErr := ai.NewGatewayProvider(ai.GatewayConfig{
			URL:     cfg.AIBaseURL,
			APIKey:  cfg.GatewayAPIKey,
			Model:   cfg.AIModel,
			Timeout: cfg.GenerationTimeout,
		})
		provider, err = gatewayProvider, buildErr
	default:
		err = fmt.Errorf("unsupported ai provider %q", cfg.AIProvider)
	}
	if err != nil {
		return nil, err
	}

	return provider, nil
}
