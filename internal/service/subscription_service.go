package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/certprep-api/internal/dto"
	"github.com/noah-isme/certprep-api/internal/models"
	"github.com/noah-isme/certprep-api/internal/repository"
)

var (
	// ErrSubscriptionNotFound indicates the user has no subscription row.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrAlreadyOnFreePlan indicates a downgrade was requested for a free user.
	ErrAlreadyOnFreePlan = errors.New("subscription is already on the free plan")
	// ErrNothingToRestore indicates there is no previous plan to return to.
	ErrNothingToRestore = errors.New("no previous plan to restore")
)

// SubscriptionToggler enables and disables recurring billing with the payment provider.
type SubscriptionToggler interface {
	DisableSubscription(ctx context.Context, code, emailToken string) error
	EnableSubscription(ctx context.Context, code, emailToken string) error
}

// SubscriptionService manages the caller's plan.
type SubscriptionService interface {
	Get(ctx context.Context, userID string) (dto.SubscriptionResponse, error)
	Downgrade(ctx context.Context, userID string) (dto.SubscriptionResponse, error)
	Restore(ctx context.Context, userID string) (dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	repo    repository.SubscriptionRepository
	billing SubscriptionToggler
	logger  zerolog.Logger
	now     func() time.Time
}

// NewSubscriptionService builds the plan service. billing may be nil when Paystack is not configured.
func NewSubscriptionService(repo repository.SubscriptionRepository, billing SubscriptionToggler, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:    repo,
		billing: billing,
		logger:  logger.With().Str("component", "subscription_service").Logger(),
		now:     time.Now,
	}
}

func (s *subscriptionService) Get(ctx context.Context, userID string) (dto.SubscriptionResponse, error) {
	subscription, err := s.load(ctx, userID)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	return dto.NewSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) Downgrade(ctx context.Context, userID string) (dto.SubscriptionResponse, error) {
	subscription, err := s.load(ctx, userID)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	if subscription.IsFree() {
		return dto.SubscriptionResponse{}, ErrAlreadyOnFreePlan
	}

	if err := s.toggle(ctx, subscription, false); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	subscription.PreviousPlan = subscription.Plan
	subscription.Plan = models.PlanFree
	subscription.Status = models.SubscriptionStatusCancelled
	s.stamp(&subscription, "downgraded_at")

	if err := s.save(ctx, &subscription, false); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	s.logger.Info().Str("user_id", userID).Str("previous_plan", subscription.PreviousPlan).Msg("subscription downgraded")
	return dto.NewSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) Restore(ctx context.Context, userID string) (dto.SubscriptionResponse, error) {
	subscription, err := s.load(ctx, userID)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	if strings.TrimSpace(subscription.PreviousPlan) == "" {
		return dto.SubscriptionResponse{}, ErrNothingToRestore
	}

	if err := s.toggle(ctx, subscription, true); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	subscription.Plan = subscription.PreviousPlan
	subscription.PreviousPlan = ""
	subscription.Status = models.SubscriptionStatusActive
	s.stamp(&subscription, "restored_at")

	if err := s.save(ctx, &subscription, true); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	s.logger.Info().Str("user_id", userID).Str("plan", subscription.Plan).Msg("subscription restored")
	return dto.NewSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) load(ctx context.Context, userID string) (models.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Subscription{}, ErrSubscriptionNotFound
	}

	subscription, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Subscription{}, ErrSubscriptionNotFound
		}
		return models.Subscription{}, err
	}
	return subscription, nil
}

func (s *subscriptionService) toggle(ctx context.Context, subscription models.Subscription, enable bool) error {
	if s.billing == nil || subscription.PaystackSubscriptionCode == "" {
		return nil
	}

	var err error
	if enable {
		err = s.billing.EnableSubscription(ctx, subscription.PaystackSubscriptionCode, subscription.PaystackEmailToken)
	} else {
		err = s.billing.DisableSubscription(ctx, subscription.PaystackSubscriptionCode, subscription.PaystackEmailToken)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", subscription.UserID).Bool("enable", enable).Msg("failed to update paystack subscription")
		return fmt.Errorf("update paystack subscription: %w", err)
	}
	return nil
}

// save persists the new plan. If the write fails, the billing toggle already applied
// in direction enabled is reverted.
func (s *subscriptionService) save(ctx context.Context, subscription *models.Subscription, enabled bool) error {
	err := s.repo.Save(ctx, subscription)
	if err == nil {
		return nil
	}

	s.logger.Error().Err(err).Str("user_id", subscription.UserID).Msg("failed to save subscription")
	if revertErr := s.toggle(ctx, *subscription, !enabled); revertErr != nil {
		s.logger.Error().
			Err(revertErr).
			Str("user_id", subscription.UserID).
			Str("paystack_subscription_code", subscription.PaystackSubscriptionCode).
			Bool("billing_enabled", enabled).
			Msg("paystack subscription no longer matches stored plan")
	}
	return fmt.Errorf("save subscription: %w", err)
}

func (s *subscriptionService) stamp(subscription *models.Subscription, key string) {
	if subscription.Metadata == nil {
		subscription.Metadata = datatypes.JSONMap{}
	}
	subscription.Metadata[key] = s.now().UTC().Format(time.RFC3339)
}
