package observability

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGenerationOutcomesAreExposed(t *testing.T) {
	before := testutil.ToFloat64(GenerationOutcomes().WithLabelValues("decode"))
	GenerationOutcomes().WithLabelValues("decode").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(GenerationOutcomes().WithLabelValues("decode")))

	app := fiber.New()
	app.Get("/metrics", MetricsHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `generation_outcomes_total{kind="decode"}`)
}

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	require.NotPanics(t, func() {
		RegisterMetrics()
		RegisterMetrics()
	})
	require.NotNil(t, HTTPRequests())
	require.NotNil(t, BankCacheLookups())
}
