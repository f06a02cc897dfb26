package main

import (
	"github.com/hibiken/asynq"

	offerJob "storefront-backend/internal/domains/offer/job"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	recordUsage       *offerJob.RecordUsageHandler
	deactivateExpired *offerJob.DeactivateExpiredHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		recordUsage:       offerJob.NewRecordUsageHandler(c.OfferService),
		deactivateExpired: offerJob.NewDeactivateExpiredHandler(c.OfferService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Offer tasks
	mux.HandleFunc(shared.TypeRecordOfferUsage, h.recordUsage.ProcessTask)
	mux.HandleFunc(shared.TypeDeactivateExpiredCampaigns, h.deactivateExpired.ProcessTask)
}
