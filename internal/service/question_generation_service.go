package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/certprep-api/internal/dto"
	"github.com/noah-isme/certprep-api/internal/generation"
	"github.com/noah-isme/certprep-api/internal/middleware"
	"github.com/noah-isme/certprep-api/internal/observability"
	"github.com/noah-isme/certprep-api/pkg/ai"
)

const maxLoggedPayload = 512

// QuestionGenerationService runs the question generation pipeline for one request.
type QuestionGenerationService interface {
	Generate(ctx context.Context, payload dto.GenerateQuestionsRequest) generation.Result
}

// QuestionGenerationConfig tunes the pipeline.
type QuestionGenerationConfig struct {
	Timeout       time.Duration
	QuestionCount int
	Strict        bool
}

type questionGenerationService struct {
	provider   ai.Provider
	composer   *generation.Composer
	normalizer *generation.Normalizer
	events     GenerationEventPublisher
	validator  *validator.Validate
	timeout    time.Duration
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewQuestionGenerationService wires the provider into the pipeline. events may be nil.
func NewQuestionGenerationService(provider ai.Provider, events GenerationEventPublisher, validate *validator.Validate, logger zerolog.Logger, cfg QuestionGenerationConfig) QuestionGenerationService {
	if events == nil {
		events = noopGenerationEvents{}
	}

	return &questionGenerationService{
		provider:   provider,
		composer:   generation.NewComposer(cfg.QuestionCount),
		normalizer: generation.NewNormalizer(cfg.Strict),
		events:     events,
		validator:  validate,
		timeout:    cfg.Timeout,
		logger:     logger.With().Str("component", "question_generation_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/certprep-api/internal/service/generation"),
	}
}

func (s *questionGenerationService) Generate(ctx context.Context, payload dto.GenerateQuestionsRequest) generation.Result {
	spanCtx, span := s.tracer.Start(ctx, "generation.run", trace.WithAttributes(
		attribute.String("generation.certification", payload.Certification),
		attribute.Int("generation.descriptions", len(payload.Descriptions)),
		attribute.String("ai.provider", s.provider.Name()),
	))
	defer span.End()

	result := s.run(spanCtx, payload)

	kind := "success"
	if failure := result.Failure(); failure != nil {
		kind = string(failure.Kind)
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Message)
	} else {
		observability.GeneratedQuestions().Observe(float64(len(result.Questions())))
		span.SetAttributes(attribute.Int("generation.questions", len(result.Questions())))
	}
	observability.GenerationOutcomes().WithLabelValues(kind).Inc()

	s.events.PublishGeneration(spanCtx, GenerationEvent{
		Certification: payload.Certification,
		Provider:      s.provider.Name(),
		Outcome:       kind,
		Questions:     len(result.Questions()),
	})

	return result
}

func (s *questionGenerationService) run(ctx context.Context, payload dto.GenerateQuestionsRequest) generation.Result {
	logger := s.logger
	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		logger = s.logger.With().Str("correlation_id", correlationID).Logger()
	}

	if err := s.validator.Struct(payload); err != nil {
		return generation.Fail(generation.CallerFailure(validationMessage(err)))
	}

	prompt, err := s.composer.Compose(payload.ToGenerationRequest())
	if err != nil {
		var failure *generation.Failure
		if errors.As(err, &failure) {
			return generation.Fail(failure)
		}
		return generation.Fail(generation.CallerFailure(err.Error()))
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.provider.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("AI provider did not respond within %s: %w", s.timeout, err)
		}
		logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("question generation provider call failed")
		return generation.Fail(generation.ProviderFailure(err))
	}

	result := s.normalizer.Normalize(raw)
	if failure := result.Failure(); failure != nil {
		event := logger.Warn().Err(failure.Cause).Str("kind", string(failure.Kind)).Str("output_kind", raw.Kind.String())
		if failure.Kind == generation.KindDecode {
			event = event.Str("payload", truncate(raw.Text, maxLoggedPayload))
		}
		event.Msg("question generation response rejected")
		return result
	}

	logger.Info().
		Str("provider", s.provider.Name()).
		Str("output_kind", raw.Kind.String()).
		Int("questions", len(result.Questions())).
		Msg("questions generated")

	return result
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return fmt.Sprintf("%s failed %s validation", first.Field(), first.Tag())
	}
	return "invalid request"
}

// truncate cuts value to at most limit bytes without splitting a rune.
func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + "..."
}
