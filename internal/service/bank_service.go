package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/certprep-api/internal/dto"
	"github.com/noah-isme/certprep-api/internal/observability"
	"github.com/noah-isme/certprep-api/pkg/paystack"
)

// DefaultBankCountry is used when the caller does not name a country.
const DefaultBankCountry = "nigeria"

// BankLister is the part of the Paystack client the bank service needs.
type BankLister interface {
	ListBanks(ctx context.Context, country string) ([]paystack.Bank, error)
}

// BankService lists payout banks.
type BankService interface {
	List(ctx context.Context, query dto.BankQuery) ([]dto.BankResponse, bool, error)
}

type bankService struct {
	banks     BankLister
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBankService builds the bank listing service. cache may be nil.
func NewBankService(banks BankLister, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) BankService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &bankService{
		banks:     banks,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "bank_service").Logger(),
	}
}

// List returns the active banks of a country. The boolean reports a cache hit.
func (s *bankService) List(ctx context.Context, query dto.BankQuery) ([]dto.BankResponse, bool, error) {
	query.Country = strings.ToLower(strings.TrimSpace(query.Country))
	if s.validator != nil {
		if err := s.validator.Struct(query); err != nil {
			return nil, false, err
		}
	}
	if query.Country == "" {
		query.Country = DefaultBankCountry
	}

	cacheKey := fmt.Sprintf("banks:%s", query.Country)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var banks []dto.BankResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &banks); unmarshalErr == nil {
				observability.BankCacheLookups().WithLabelValues("hit").Inc()
				s.logger.Debug().Str("country", query.Country).Msg("bank cache hit")
				return banks, true, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read bank cache")
		}
		observability.BankCacheLookups().WithLabelValues("miss").Inc()
	}

	banks, err := s.banks.ListBanks(ctx, query.Country)
	if err != nil {
		s.logger.Error().Err(err).Str("country", query.Country).Msg("failed to list banks")
		return nil, false, err
	}

	responses := dto.NewBankResponses(banks)

	if s.cache != nil {
		payload, err := json.Marshal(responses)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store bank cache")
			}
		}
	}

	return responses, false, nil
}
