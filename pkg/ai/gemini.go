package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-1.5-flash"

type geminiModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider asks Gemini for a JSON response. The body still arrives as text.
type GeminiProvider struct {
	client    *genai.Client
	model     geminiModel
	modelName string
}

// NewGeminiProvider creates a Gemini client. Call Close when done.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 8192
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)

	return &GeminiProvider{client: client, model: model, modelName: cfg.Model}, nil
}

func newGeminiProviderWithModel(modelName string, model geminiModel) *GeminiProvider {
	return &GeminiProvider{model: model, modelName: modelName}
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (RawOutput, error) {
	return instrument(ctx, p.Name(), p.modelName, func(ctx context.Context) (RawOutput, error) {
		resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return RawOutput{}, &ProviderError{Provider: p.Name(), Err: err}
		}
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return RawOutput{}, &ProviderError{Provider: p.Name(), Message: "no content generated by gemini"}
		}

		candidate := resp.Candidates[0]
		if candidate.FinishReason == genai.FinishReasonSafety {
			return RawOutput{}, &ProviderError{Provider: p.Name(), Message: "gemini blocked the response for safety reasons"}
		}

		var builder strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
		return TextOutput(builder.String()), nil
	})
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
