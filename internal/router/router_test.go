package router_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/certprep-api/internal/config"
	"github.com/noah-isme/certprep-api/internal/handler"
	"github.com/noah-isme/certprep-api/internal/middleware"
	"github.com/noah-isme/certprep-api/internal/router"
	"github.com/noah-isme/certprep-api/internal/service"
	"github.com/noah-isme/certprep-api/pkg/ai"
)

type staticProvider struct {
	calls int
}

func (p *staticProvider) Name() string { return "static" }

func (p *staticProvider) Generate(context.Context, string) (ai.RawOutput, error) {
	p.calls++
	return ai.TextOutput(`[{"text":"Q","options":["a","b"],"correctIndex":1}]`), nil
}

func newTestApp(t *testing.T, provider ai.Provider) (*fiber.App, config.Config) {
	t.Helper()
	cfg := config.Config{
		AppName:             "CertPrep API",
		AppEnv:              "test",
		JWTSecret:           "router-secret",
		GenerationRateLimit: 2,
	}

	svc := service.NewQuestionGenerationService(provider, nil, validator.New(), zerolog.Nop(), service.QuestionGenerationConfig{})

	app := fiber.New()
	middleware.Register(app, middleware.Config{})
	router.Register(app, cfg, router.Dependencies{
		QuestionGenerationHandler: handler.NewQuestionGenerationHandler(svc, zerolog.Nop()),
	})
	return app, cfg
}

func bearer(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func generate(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-questions", bytes.NewBufferString(`{"certification":"AWS"}`))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGenerateQuestionsRouteGuards(t *testing.T) {
	provider := &staticProvider{}
	app, cfg := newTestApp(t, provider)

	require.Equal(t, fiber.StatusUnauthorized, generate(t, app, "").StatusCode)

	userToken := bearer(t, cfg.JWTSecret, jwt.MapClaims{"sub": "user-1", "role": "authenticated"})
	require.Equal(t, fiber.StatusForbidden, generate(t, app, userToken).StatusCode)
	require.Zero(t, provider.calls)

	adminToken := bearer(t, cfg.JWTSecret, jwt.MapClaims{"sub": "admin-1", "app_metadata": map[string]interface{}{"role": "admin"}})
	resp := generate(t, app, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"questions":[{"text":"Q","options":["a","b"],"correctIndex":1}]}`, string(body))

	require.Equal(t, fiber.StatusOK, generate(t, app, adminToken).StatusCode)
	require.Equal(t, fiber.StatusTooManyRequests, generate(t, app, adminToken).StatusCode)
	require.Equal(t, 2, provider.calls)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	app, _ := newTestApp(t, &staticProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "CertPrep API", resp.Header.Get("X-Application"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "http_requests_total")
}

func TestOptionalRoutesAreSkipped(t *testing.T) {
	app, _ := newTestApp(t, &staticProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/banks", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
