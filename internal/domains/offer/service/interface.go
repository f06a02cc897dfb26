package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/offer/model"
)

// OfferService is the application surface of the offer engine. The
// evaluation path is consumed by the public API and by checkout, the
// rest by the admin API and the worker.
type OfferService interface {
	// BuildCartLines resolves submitted lines against the catalog.
	// Returns model.ErrUnknownProduct when any product id is missing.
	BuildCartLines(ctx context.Context, inputs []model.CartLineInput) ([]model.CartLine, error)

	// EvaluateCart answers which offers apply to a cart at the given
	// instant. Campaign fetch failures degrade to an empty result.
	EvaluateCart(ctx context.Context, lines []model.CartLine, tier model.PricingTier, now time.Time) (*model.OfferApplicationResult, error)

	// ListActiveCampaigns returns the campaigns a storefront may show.
	ListActiveCampaigns(ctx context.Context, now time.Time) ([]*model.Campaign, error)

	// Admin operations
	CreateCampaign(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, id uuid.UUID, req *model.UpdateCampaignRequest) (*model.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id uuid.UUID, active bool) error
	DeleteCampaign(ctx context.Context, id uuid.UUID) error
	GetCampaign(ctx context.Context, id uuid.UUID) (*model.Campaign, error)
	ListCampaigns(ctx context.Context, filter *model.ListCampaignsFilter) ([]*model.Campaign, int, error)
	GetUsageStats(ctx context.Context, id uuid.UUID, filter *model.UsageStatsFilter) (*model.UsageStats, error)

	// RecordUsage persists one usage record. Safe to retry, duplicates
	// are absorbed.
	RecordUsage(ctx context.Context, payload *model.RecordUsagePayload) error

	// DeactivateExpiredCampaigns retires campaigns whose window has
	// passed. Run by the worker on a schedule.
	DeactivateExpiredCampaigns(ctx context.Context, now time.Time) (int64, error)
}
