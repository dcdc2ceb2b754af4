package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/certprep-api/internal/dto"
	"github.com/noah-isme/certprep-api/internal/service"
	"github.com/noah-isme/certprep-api/internal/utils"
	"github.com/noah-isme/certprep-api/pkg/paystack"
)

// BankHandler serves the payout bank list.
type BankHandler struct {
	service service.BankService
	logger  zerolog.Logger
}

// NewBankHandler constructs a bank handler.
func NewBankHandler(service service.BankService, logger zerolog.Logger) *BankHandler {
	return &BankHandler{
		service: service,
		logger:  logger.With().Str("component", "bank_handler").Logger(),
	}
}

// Register wires bank routes.
func (h *BankHandler) Register(router fiber.Router) {
	router.Get("/banks", h.list)
}

func (h *BankHandler) list(c *fiber.Ctx) error {
	query := dto.BankQuery{Country: c.Query("country")}

	banks, cacheHit, err := h.service.List(c.UserContext(), query)
	if err != nil {
		if isValidationError(err) {
			return utils.Fail(c, fiber.StatusBadRequest, "invalid country", fiber.Map{"field": "country"})
		}

		var apiErr *paystack.APIError
		if errors.As(err, &apiErr) {
			requestLogger(h.logger, c).Error().Err(err).Int("paystack_status", apiErr.StatusCode).Msg("paystack rejected bank list request")
			return utils.SendError(c, fiber.StatusBadGateway, "failed to fetch banks")
		}

		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch banks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch banks")
	}

	return utils.OK(c, banks, "banks retrieved", fiber.Map{"cache_hit": cacheHit, "count": len(banks)})
}
