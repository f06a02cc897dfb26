package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalogrepo "storefront-backend/internal/domains/catalog/repository"
	"storefront-backend/internal/domains/offer/model"
	"storefront-backend/internal/domains/offer/repository"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

const activeCampaignsCacheKey = "offers:active_campaigns"

type offerService struct {
	campaignRepo repository.CampaignRepository
	productRepo  catalogrepo.ProductRepository
	cache        cache.Cache
	cacheTTL     time.Duration
}

// NewOfferService wires the engine. cacheTTL bounds how stale the
// active-campaign set may be on the evaluation path.
func NewOfferService(
	campaignRepo repository.CampaignRepository,
	productRepo catalogrepo.ProductRepository,
	c cache.Cache,
	cacheTTL time.Duration,
) OfferService {
	return &offerService{
		campaignRepo: campaignRepo,
		productRepo:  productRepo,
		cache:        c,
		cacheTTL:     cacheTTL,
	}
}

// -------------------------------------------------------------------
// ADMIN OPERATIONS
// -------------------------------------------------------------------

func (s *offerService) CreateCampaign(ctx context.Context, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	campaign := req.ToCampaign()
	if err := campaign.Validate(); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeCampaignInvalid,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	s.invalidateActiveCampaigns(ctx)

	return campaign, nil
}

func (s *offerService) UpdateCampaign(ctx context.Context, id uuid.UUID, req *model.UpdateCampaignRequest) (*model.Campaign, error) {
	existing, err := s.campaignRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	campaign := req.ToCampaign()
	campaign.ID = existing.ID
	campaign.CreatedAt = existing.CreatedAt

	if err := campaign.Validate(); err != nil {
		return nil, &model.AppError{
			Code:       model.ErrCodeCampaignInvalid,
			Message:    err.Error(),
			HTTPStatus: 400,
		}
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}

	s.invalidateActiveCampaigns(ctx)

	return campaign, nil
}

func (s *offerService) UpdateCampaignStatus(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.campaignRepo.UpdateStatus(ctx, id, active); err != nil {
		return err
	}

	s.invalidateActiveCampaigns(ctx)
	return nil
}

func (s *offerService) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	if err := s.campaignRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.invalidateActiveCampaigns(ctx)
	return nil
}

func (s *offerService) GetCampaign(ctx context.Context, id uuid.UUID) (*model.Campaign, error) {
	return s.campaignRepo.FindByID(ctx, id)
}

func (s *offerService) ListCampaigns(ctx context.Context, filter *model.ListCampaignsFilter) ([]*model.Campaign, int, error) {
	return s.campaignRepo.List(ctx, filter)
}

func (s *offerService) GetUsageStats(ctx context.Context, id uuid.UUID, filter *model.UsageStatsFilter) (*model.UsageStats, error) {
	if _, err := s.campaignRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.campaignRepo.GetUsageStats(ctx, id, filter.StartDate, filter.EndDate)
}

// invalidateActiveCampaigns drops the cached set after any mutation so
// storefronts converge faster than the TTL.
func (s *offerService) invalidateActiveCampaigns(ctx context.Context) {
	if err := s.cache.Delete(ctx, activeCampaignsCacheKey); err != nil {
		logger.Warn("Failed to invalidate campaign cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// DeactivateExpiredCampaigns retires campaigns past their window and
// drops the cached active set.
func (s *offerService) DeactivateExpiredCampaigns(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.campaignRepo.DeactivateExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired campaigns: %w", err)
	}

	if count > 0 {
		s.invalidateActiveCampaigns(ctx)
	}

	return count, nil
}

// -------------------------------------------------------------------
// USAGE RECORDING
// -------------------------------------------------------------------

// RecordUsage persists one usage record from a worker task. Duplicate
// deliveries of the same (campaign, order) pair are treated as success
// so retries stay idempotent.
func (s *offerService) RecordUsage(ctx context.Context, payload *model.RecordUsagePayload) error {
	usage := &model.CampaignUsage{
		CampaignID:     payload.CampaignID,
		OrderID:        payload.OrderID,
		UserID:         payload.UserID,
		DiscountAmount: payload.DiscountAmount,
	}

	err := s.campaignRepo.CreateUsage(ctx, usage)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateUsage) {
			logger.Warn("Campaign usage already recorded", map[string]interface{}{
				"campaign_id": payload.CampaignID.String(),
				"order_id":    payload.OrderID.String(),
			})
			return nil
		}
		return fmt.Errorf("record campaign usage: %w", err)
	}

	return nil
}
