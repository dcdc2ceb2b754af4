package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxGatewayBody = 8 << 20

// GatewayConfig configures an HTTP text generation endpoint that answers with an {output, error} envelope.
type GatewayConfig struct {
	URL        string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GatewayProvider calls a generic AI gateway. The gateway may return the output either as a string or as
// an already structured JSON value and the distinction is kept in the RawOutput.
type GatewayProvider struct {
	cfg    GatewayConfig
	client *http.Client
}

type gatewayRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

type gatewayResponse struct {
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
}

// NewGatewayProvider validates the configuration and builds the provider.
func NewGatewayProvider(cfg GatewayConfig) (*GatewayProvider, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("gateway url is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GatewayProvider{cfg: cfg, client: client}, nil
}

// Name identifies the provider in logs and metrics.
func (p *GatewayProvider) Name() string {
	return "gateway"
}

// Generate posts the prompt to the gateway.
func (p *GatewayProvider) Generate(ctx context.Context, prompt string) (RawOutput, error) {
	return instrument(ctx, p.Name(), p.cfg.Model, func(ctx context.Context) (RawOutput, error) {
		body, err := json.Marshal(gatewayRequest{Prompt: prompt, Model: p.cfg.Model})
		if err != nil {
			return RawOutput{}, fmt.Errorf("encode gateway request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return RawOutput{}, &ProviderError{Provider: p.Name(), Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if p.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return RawOutput{}, &ProviderError{Provider: p.Name(), Err: err}
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(io.LimitReader(resp.Body, maxGatewayBody+1))
		if err != nil {
			return RawOutput{}, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Err: err}
		}
		if len(payload) > maxGatewayBody {
			return RawOutput{}, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: fmt.Sprintf("gateway response exceeds %d MiB", maxGatewayBody>>20)}
		}

		var envelope gatewayResponse
		decodeErr := json.Unmarshal(payload, &envelope)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			message := ""
			if decodeErr == nil {
				message = errorMessage(envelope.Error)
			}
			if message == "" {
				message = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
			}
			return RawOutput{}, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: message}
		}

		if decodeErr != nil {
			// not an envelope at all, hand the body over as text
			return TextOutput(string(payload)), nil
		}

		if message := errorMessage(envelope.Error); message != "" {
			return RawOutput{}, &ProviderError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: message}
		}

		return classifyOutput(envelope.Output), nil
	})
}

func classifyOutput(raw json.RawMessage) RawOutput {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return StructuredOutput(json.RawMessage("null"))
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return TextOutput(text)
		}
	}

	return StructuredOutput(json.RawMessage(trimmed))
}

// errorMessage accepts both "error": "msg" and "error": {"message": "msg"}.
func errorMessage(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("false")) {
		return ""
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var object struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &object); err == nil && strings.TrimSpace(object.Message) != "" {
		return strings.TrimSpace(object.Message)
	}

	return string(trimmed)
}
