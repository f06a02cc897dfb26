package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront-backend/internal/domains/offer/model"
)

// CampaignRepository is the persistence port for campaigns and their
// usage records.
type CampaignRepository interface {
	// ListActive returns campaigns whose window contains now, newest
	// first. Used by the evaluation path behind the cache.
	ListActive(ctx context.Context, now time.Time) ([]*model.Campaign, error)

	// FindByID returns a campaign or model.ErrCampaignNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Campaign, error)

	// List returns a filtered admin page plus the total count.
	List(ctx context.Context, filter *model.ListCampaignsFilter) ([]*model.Campaign, int, error)

	Create(ctx context.Context, campaign *model.Campaign) error
	Update(ctx context.Context, campaign *model.Campaign) error
	UpdateStatus(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// DeactivateExpired flips campaigns whose window has passed to
	// inactive. Returns how many rows changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)

	// CreateUsage inserts one usage record. A repeated
	// (campaign_id, order_id) pair returns model.ErrDuplicateUsage.
	CreateUsage(ctx context.Context, usage *model.CampaignUsage) error

	// GetUsageStats aggregates usage for one campaign over an optional
	// date window.
	GetUsageStats(ctx context.Context, campaignID uuid.UUID, startDate, endDate *time.Time) (*model.UsageStats, error)
}
