package ai

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "certprep",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI question generation requests",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
	}, []string{"provider", "model"})

	generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "certprep",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of failed AI question generation requests",
	}, []string{"provider", "model"})
)

var tracer = otel.Tracer("github.com/noah-isme/certprep-api/pkg/ai")

// instrument times a provider call and records its outcome on the span and the collectors.
func instrument(ctx context.Context, provider, model string, call func(ctx context.Context) (RawOutput, error)) (RawOutput, error) {
	spanCtx, span := tracer.Start(ctx, "ai.generate", trace.WithAttributes(
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	))
	defer span.End()

	start := time.Now()
	output, err := call(spanCtx)
	generationDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
	if err != nil {
		generationFailures.WithLabelValues(provider, model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RawOutput{}, err
	}

	span.SetAttributes(attribute.String("ai.output_kind", output.Kind.String()))
	return output, nil
}
