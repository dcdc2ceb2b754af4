package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/certprep-api/internal/dto"
	"github.com/noah-isme/certprep-api/internal/service"
	"github.com/noah-isme/certprep-api/internal/utils"
)

// SubscriptionHandler exposes the caller's plan and the downgrade/restore actions.
type SubscriptionHandler struct {
	service service.SubscriptionService
	logger  zerolog.Logger
}

// NewSubscriptionHandler constructs a subscription handler.
func NewSubscriptionHandler(service service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger.With().Str("component", "subscription_handler").Logger(),
	}
}

// Register wires subscription routes.
func (h *SubscriptionHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Post("/downgrade", h.downgrade)
	router.Post("/restore", h.restore)
}

func (h *SubscriptionHandler) get(c *fiber.Ctx) error {
	return h.respond(c, "subscription retrieved", h.service.Get)
}

func (h *SubscriptionHandler) downgrade(c *fiber.Ctx) error {
	return h.respond(c, "subscription downgraded to free plan", h.service.Downgrade)
}

func (h *SubscriptionHandler) restore(c *fiber.Ctx) error {
	return h.respond(c, "subscription restored", h.service.Restore)
}

func (h *SubscriptionHandler) respond(c *fiber.Ctx, message string, action func(ctx context.Context, userID string) (dto.SubscriptionResponse, error)) error {
	userID := userIDStringFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := action(c.UserContext(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subscription not found")
		case errors.Is(err, service.ErrAlreadyOnFreePlan):
			return utils.SendError(c, fiber.StatusConflict, "subscription is already on the free plan")
		case errors.Is(err, service.ErrNothingToRestore):
			return utils.SendError(c, fiber.StatusConflict, "no previous plan to restore")
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("subscription update failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update subscription")
		}
	}

	return utils.SendSuccess(c, message, response)
}
