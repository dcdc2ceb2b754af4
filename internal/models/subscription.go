package models

import (
	"time"

	"gorm.io/datatypes"
)

// Plans a subscription can be on.
const (
	PlanFree    = "free"
	PlanPro     = "pro"
	PlanPremium = "premium"
)

// Subscription statuses.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription is the plan a user is billed for through Paystack.
type Subscription struct {
	ID                       uint              `gorm:"primaryKey" json:"id"`
	UserID                   string            `gorm:"size:64;uniqueIndex;not null" json:"user_id"`
	Email                    string            `gorm:"size:255" json:"email"`
	Plan                     string            `gorm:"size:32;not null;default:free" json:"plan"`
	PreviousPlan             string            `gorm:"size:32" json:"previous_plan"`
	Status                   string            `gorm:"size:32;not null;default:active" json:"status"`
	PaystackSubscriptionCode string            `gorm:"size:128" json:"-"`
	PaystackEmailToken       string            `gorm:"size:128" json:"-"`
	Metadata                 datatypes.JSONMap `json:"metadata"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// TableName keeps the table name aligned with the existing Supabase schema.
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsFree reports whether the subscription is on the free plan.
func (s Subscription) IsFree() bool {
	return s.Plan == "" || s.Plan == PlanFree
}
