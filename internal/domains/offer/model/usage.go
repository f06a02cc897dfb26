package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignUsage records one campaign applied to one placed order.
// UserID is nil for guest checkouts.
type CampaignUsage struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CampaignID     uuid.UUID       `json:"campaign_id" db:"campaign_id"`
	OrderID        uuid.UUID       `json:"order_id" db:"order_id"`
	UserID         *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	UsedAt         time.Time       `json:"used_at" db:"used_at"`
}

// UsageStats is the admin reporting aggregate for one campaign.
type UsageStats struct {
	TotalUses               int             `json:"total_uses"`
	TotalDiscountGiven      decimal.Decimal `json:"total_discount_given"`
	AverageDiscountPerOrder decimal.Decimal `json:"average_discount_per_order"`
	UniqueUsers             int             `json:"unique_users"`
}
