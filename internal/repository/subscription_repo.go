package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/certprep-api/internal/models"
)

// SubscriptionRepository provides access to subscription records.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (models.Subscription, error)
	Save(ctx context.Context, subscription *models.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository constructs a subscription repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&subscription).Error; err != nil {
		return models.Subscription{}, err
	}

	return subscription, nil
}

func (r *subscriptionRepository) Save(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}
