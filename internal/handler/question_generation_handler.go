package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/certprep-api/internal/dto"
	"github.com/noah-isme/certprep-api/internal/generation"
	"github.com/noah-isme/certprep-api/internal/service"
)

// QuestionGenerationHandler exposes the AI question generation endpoint.
type QuestionGenerationHandler struct {
	service service.QuestionGenerationService
	logger  zerolog.Logger
}

// NewQuestionGenerationHandler constructs the handler.
func NewQuestionGenerationHandler(service service.QuestionGenerationService, logger zerolog.Logger) *QuestionGenerationHandler {
	return &QuestionGenerationHandler{
		service: service,
		logger:  logger.With().Str("component", "question_generation_handler").Logger(),
	}
}

// Register wires the generation route. Guards are applied by the caller.
func (h *QuestionGenerationHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, guards...), h.generate)
	router.Post("/generate-questions", handlers...)
}

// The body is the bare {questions} or {error} object rather than the API envelope.
func (h *QuestionGenerationHandler) generate(c *fiber.Ctx) error {
	var payload dto.GenerateQuestionsRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(generation.ErrorResponse{Error: "invalid request body"})
	}

	result := h.service.Generate(c.UserContext(), payload)
	status, body := generation.Report(result)

	logger := requestLogger(h.logger, c)
	if failure := result.Failure(); failure != nil {
		logger.Warn().
			Str("kind", string(failure.Kind)).
			Int("status", status).
			Str("user_id", userIDStringFromContext(c)).
			Msg("question generation failed")
	} else {
		logger.Info().
			Int("questions", len(result.Questions())).
			Str("user_id", userIDStringFromContext(c)).
			Msg("question generation succeeded")
	}

	return c.Status(status).JSON(body)
}
