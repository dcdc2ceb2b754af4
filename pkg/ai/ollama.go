package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaConfig configures a locally hosted model served by Ollama.
type OllamaConfig struct {
	ServerURL   string
	Model       string
	Temperature float64
	HTTPTimeout time.Duration
}

// LangChainProvider adapts any langchaingo model to the Provider interface.
type LangChainProvider struct {
	name        string
	modelName   string
	model       llms.Model
	temperature float64
}

// NewOllamaProvider connects to an Ollama server through langchaingo.
func NewOllamaProvider(cfg OllamaConfig) (*LangChainProvider, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("ollama server url is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 2 * time.Minute
	}

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return NewLangChainProvider("ollama", cfg.Model, llm, cfg.Temperature), nil
}

// NewLangChainProvider wraps an existing langchaingo model.
func NewLangChainProvider(name, modelName string, model llms.Model, temperature float64) *LangChainProvider {
	return &LangChainProvider{
		name:        name,
		modelName:   modelName,
		model:       model,
		temperature: temperature,
	}
}

// Name identifies the provider in logs and metrics.
func (p *LangChainProvider) Name() string {
	return p.name
}

// Generate runs a single prompt completion.
func (p *LangChainProvider) Generate(ctx context.Context, prompt string) (RawOutput, error) {
	return instrument(ctx, p.name, p.modelName, func(ctx context.Context) (RawOutput, error) {
		completion, err := llms.GenerateFromSinglePrompt(ctx, p.model, systemPrompt+"\n\n"+prompt,
			llms.WithTemperature(p.temperature),
		)
		if err != nil {
			return RawOutput{}, &ProviderError{Provider: p.name, Err: err}
		}
		return TextOutput(completion), nil
	})
}
