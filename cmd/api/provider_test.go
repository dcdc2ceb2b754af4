package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/certprep-api/internal/config"
)

func TestBuildProvider(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.Config
		want    string
		wantErr bool
	}{
		{name: "openai", cfg: config.Config{AIProvider: "openai", OpenAIAPIKey: "sk-test"}, want: "openai"},
		{name: "openai without key", cfg: config.Config{AIProvider: "openai"}, wantErr: true},
		{name: "gemini", cfg: config.Config{AIProvider: "gemini", GeminiAPIKey: "test-key", AIModel: "gemini-1.5-flash"}, want: "gemini"},
		{name: "gemini default model", cfg: config.Config{AIProvider: "gemini", GeminiAPIKey: "test-key"}, want: "gemini"},
		{name: "ollama without model", cfg: config.Config{AIProvider: "ollama", AIBaseURL: "http://localhost:11434"}, wantErr: true},
		{name: "gemini without key", cfg: config.Config{AIProvider: "gemini"}, wantErr: true},
		{name: "ollama", cfg: config.Config{AIProvider: "ollama", AIBaseURL: "http://localhost:11434", AIModel: "llama3"}, want: "ollama"},
		{name: "gateway", cfg: config.Config{AIProvider: "gateway", AIBaseURL: "https://gateway.example.com/v1/generate"}, want: "gateway"},
		{name: "gateway without url", cfg: config.Config{AIProvider: "gateway"}, wantErr: true},
		{name: "unknown", cfg: config.Config{AIProvider: "bard"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider, err := buildProvider(context.Background(), tc.cfg, zerolog.Nop())
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, provider.Name())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	require.Equal(t, zerolog.InfoLevel, parseLogLevel(""))
	require.Equal(t, zerolog.InfoLevel, parseLogLevel("loud"))
	require.Equal(t, zerolog.WarnLevel, parseLogLevel(" WARN "))
}
