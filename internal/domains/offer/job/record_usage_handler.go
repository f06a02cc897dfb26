package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/offer/model"
	"storefront-backend/internal/domains/offer/service"
	"storefront-backend/internal/shared/utils"
	"storefront-backend/pkg/logger"
)

// RecordUsageHandler processes offer:record_usage tasks enqueued by
// checkout after an order commits.
type RecordUsageHandler struct {
	service service.OfferService
}

func NewRecordUsageHandler(service service.OfferService) *RecordUsageHandler {
	return &RecordUsageHandler{service: service}
}

// ProcessTask records one campaign usage. Returning an error lets asynq
// retry, the unique (campaign, order) constraint keeps retries safe.
func (h *RecordUsageHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.RecordUsagePayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		// A payload that cannot decode will never succeed, drop it.
		logger.Error("Invalid record_usage payload, skipping", err)
		return nil
	}

	if err := h.service.RecordUsage(ctx, &payload); err != nil {
		return fmt.Errorf("record usage for campaign %s: %w", payload.CampaignID, err)
	}

	logger.Info("Campaign usage recorded", map[string]interface{}{
		"campaign_id": payload.CampaignID.String(),
		"order_id":    payload.OrderID.String(),
	})

	return nil
}
