package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/domains/offer/service"
	"storefront-backend/pkg/logger"
)

// DeactivateExpiredHandler processes the scheduled
// offer:deactivate_expired task.
type DeactivateExpiredHandler struct {
	service service.OfferService
}

func NewDeactivateExpiredHandler(service service.OfferService) *DeactivateExpiredHandler {
	return &DeactivateExpiredHandler{service: service}
}

func (h *DeactivateExpiredHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	count, err := h.service.DeactivateExpiredCampaigns(ctx, time.Now())
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Deactivated expired campaigns", map[string]interface{}{
			"count": count,
		})
	}

	return nil
}
