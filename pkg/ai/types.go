package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// OutputKind tags which branch of RawOutput is populated.
type OutputKind int

const (
	// OutputText means the provider answered with a textual payload that may encode JSON.
	OutputText OutputKind = iota + 1
	// OutputStructured means the provider answered with an already structured JSON value.
	OutputStructured
)

func (k OutputKind) String() string {
	switch k {
	case OutputText:
		return "text"
	case OutputStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// RawOutput is the unprocessed answer of a provider. Exactly one of Text or Structured is meaningful,
// selected by Kind.
type RawOutput struct {
	Kind       OutputKind
	Text       string
	Structured json.RawMessage
}

// TextOutput wraps a textual provider answer.
func TextOutput(text string) RawOutput {
	return RawOutput{Kind: OutputText, Text: text}
}

// StructuredOutput wraps an already decoded provider answer.
func StructuredOutput(value json.RawMessage) RawOutput {
	return RawOutput{Kind: OutputStructured, Structured: value}
}

// Provider is an external text generation service.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (RawOutput, error)
}

// ProviderError reports a failed provider call: transport failure, non-2xx status or an error payload.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed", e.Provider)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
