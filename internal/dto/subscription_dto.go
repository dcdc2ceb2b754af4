package dto

import (
	"time"

	"github.com/noah-isme/certprep-api/internal/models"
)

// SubscriptionResponse describes the caller's current plan.
type SubscriptionResponse struct {
	Plan         string    `json:"plan"`
	PreviousPlan string    `json:"previous_plan,omitempty"`
	Status       string    `json:"status"`
	CanRestore   bool      `json:"can_restore"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSubscriptionResponse maps a subscription model to its API representation.
func NewSubscriptionResponse(subscription models.Subscription) SubscriptionResponse {
	plan := subscription.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	return SubscriptionResponse{
		Plan:         plan,
		PreviousPlan: subscription.PreviousPlan,
		Status:       subscription.Status,
		CanRestore:   subscription.PreviousPlan != "",
		UpdatedAt:    subscription.UpdatedAt,
	}
}
