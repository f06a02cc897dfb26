package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordUsagePayload is the asynq payload for offer:record_usage tasks,
// enqueued by checkout after an order commits.
type RecordUsagePayload struct {
	CampaignID     uuid.UUID       `json:"campaign_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	UserID         *uuid.UUID      `json:"user_id,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// DeactivateExpiredPayload is the (empty) payload of the scheduled
// offer:deactivate_expired task.
type DeactivateExpiredPayload struct{}
