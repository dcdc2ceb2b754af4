package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	LogLevel    string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	CORSOrigins string

	AIProvider    string
	AIModel       string
	AIBaseURL     string
	AIMaxTokens   int
	AITemperature float32
	OpenAIAPIKey  string
	GeminiAPIKey  string
	GatewayAPIKey string

	GenerationTimeout       time.Duration
	GenerationQuestionCount int
	StrictQuestions         bool
	GenerationRateLimit     int

	PaystackSecretKey string
	PaystackBaseURL   string
	BankCacheTTL      time.Duration

	NATSURL          string
	EventSubjectBase string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CERTPREP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CertPrep API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.max_tokens", 4096)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("generation.timeout", "60s")
	v.SetDefault("generation.question_count", 10)
	v.SetDefault("generation.strict_questions", false)
	v.SetDefault("generation.rate_limit", 10)
	v.SetDefault("paystack.base_url", "https://api.paystack.co")
	v.SetDefault("banks.cache_ttl", "12h")
	v.SetDefault("events.subject_base", "certprep")

	timeout, err := parseDuration(v, "generation.timeout", "60s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid generation timeout: %w", err)
	}

	bankTTL, err := parseDuration(v, "banks.cache_ttl", "12h")
	if err != nil {
		return Config{}, fmt.Errorf("invalid bank cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                 v.GetString("app.name"),
		AppEnv:                  v.GetString("app.env"),
		AppPort:                 v.GetString("app.port"),
		LogLevel:                strings.ToLower(v.GetString("log.level")),
		DatabaseURL:             v.GetString("database.url"),
		RedisURL:                v.GetString("redis.url"),
		JWTSecret:               v.GetString("jwt.secret"),
		CORSOrigins:             v.GetString("cors.allow_origins"),
		AIProvider:              strings.ToLower(v.GetString("ai.provider")),
		AIModel:                 v.GetString("ai.model"),
		AIBaseURL:               v.GetString("ai.base_url"),
		AIMaxTokens:             v.GetInt("ai.max_tokens"),
		AITemperature:           float32(v.GetFloat64("ai.temperature")),
		OpenAIAPIKey:            v.GetString("openai_api_key"),
		GeminiAPIKey:            v.GetString("gemini_api_key"),
		GatewayAPIKey:           v.GetString("ai.gateway_api_key"),
		GenerationTimeout:       timeout,
		GenerationQuestionCount: v.GetInt("generation.question_count"),
		StrictQuestions:         v.GetBool("generation.strict_questions"),
		GenerationRateLimit:     v.GetInt("generation.rate_limit"),
		PaystackSecretKey:       v.GetString("paystack.secret_key"),
		PaystackBaseURL:         strings.TrimRight(v.GetString("paystack.base_url"), "/"),
		BankCacheTTL:            bankTTL,
		NATSURL:                 v.GetString("nats.url"),
		EventSubjectBase:        v.GetString("events.subject_base"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.AIProvider {
	case "openai", "gemini", "ollama", "gateway":
	default:
		return Config{}, fmt.Errorf("unsupported ai provider %q", cfg.AIProvider)
	}

	if cfg.GenerationQuestionCount <= 0 {
		cfg.GenerationQuestionCount = 10
	}

	if cfg.GenerationRateLimit <= 0 {
		cfg.GenerationRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		value = fallback
	}
	return time.ParseDuration(value)
}
