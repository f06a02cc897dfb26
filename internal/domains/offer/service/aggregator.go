package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domains/offer/model"
	"storefront-backend/pkg/logger"
)

// -------------------------------------------------------------------
// CART EVALUATION
// -------------------------------------------------------------------

// BuildCartLines resolves submitted cart lines against the catalog.
// Every product id must resolve, a partial cart cannot be priced.
func (s *offerService) BuildCartLines(ctx context.Context, inputs []model.CartLineInput) ([]model.CartLine, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	parsed := make([]uuid.UUID, len(inputs))
	for i, in := range inputs {
		productID, err := uuid.Parse(in.ProductID)
		if err != nil {
			return nil, &model.AppError{
				Code:       model.ErrCodeValidationFailed,
				Message:    "Invalid product id in cart",
				HTTPStatus: 400,
			}
		}
		parsed[i] = productID
		ids = append(ids, productID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]model.CartLine, 0, len(inputs))
	for i, in := range inputs {
		productID := parsed[i]
		product, ok := products[productID]
		if !ok {
			return nil, model.ErrUnknownProduct
		}

		line := model.CartLine{
			ProductID: productID,
			Quantity:  in.Quantity,
			Product:   product,
		}
		if in.VariantID != nil {
			variantID, err := uuid.Parse(*in.VariantID)
			if err == nil {
				line.VariantID = &variantID
			}
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// EvaluateCart runs every eligible campaign against the cart and
// aggregates the outcome. The cart lines pass through unmodified.
//
// Evaluation never fails the caller: when campaigns cannot be loaded
// the result is simply "no offers apply".
func (s *offerService) EvaluateCart(
	ctx context.Context,
	lines []model.CartLine,
	tier model.PricingTier,
	now time.Time,
) (*model.OfferApplicationResult, error) {
	result := &model.OfferApplicationResult{
		Lines:         lines,
		Applications:  []model.OfferApplication{},
		TotalDiscount: decimal.Zero,
		FreeItems:     []model.FreeItem{},
	}

	campaigns, err := s.loadActiveCampaigns(ctx, now)
	if err != nil {
		logger.Warn("Campaign fetch failed, evaluating cart without offers", map[string]interface{}{
			"error": err.Error(),
		})
		return result, nil
	}

	var grants []model.FreeItemGrant
	for _, campaign := range campaigns {
		if err := campaign.Validate(); err != nil {
			logger.Warn("Skipping malformed campaign", map[string]interface{}{
				"campaign_id": campaign.ID.String(),
				"error":       err.Error(),
			})
			continue
		}
		// The cached set may hold campaigns whose window lapsed within
		// the TTL, so the window is re-checked per evaluation.
		if !campaign.IsEligible(now) {
			continue
		}

		app := EvaluateCampaign(campaign, lines, tier)
		if app.IsTrivial() {
			continue
		}

		result.Applications = append(result.Applications, app)
		result.TotalDiscount = result.TotalDiscount.Add(app.DiscountAmount)
		grants = append(grants, app.FreeItems...)
	}

	result.FreeItems = s.resolveFreeItems(ctx, grants)

	return result, nil
}

// loadActiveCampaigns serves the active set from cache, falling back to
// the repository on a miss. Cache failures are logged and bypassed, the
// repository stays authoritative.
func (s *offerService) loadActiveCampaigns(ctx context.Context, now time.Time) ([]*model.Campaign, error) {
	var cached []*model.Campaign
	found, err := s.cache.Get(ctx, activeCampaignsCacheKey, &cached)
	if err != nil {
		logger.Warn("Campaign cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else if found {
		return cached, nil
	}

	campaigns, err := s.campaignRepo.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, activeCampaignsCacheKey, campaigns, s.cacheTTL); err != nil {
		logger.Warn("Campaign cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return campaigns, nil
}

// resolveFreeItems turns grants into displayable entries, one per
// (campaign, product) pair. Grants whose product no longer resolves are
// dropped with a log so a stale campaign cannot break checkout.
func (s *offerService) resolveFreeItems(ctx context.Context, grants []model.FreeItemGrant) []model.FreeItem {
	items := []model.FreeItem{}
	if len(grants) == 0 {
		return items
	}

	type grantKey struct {
		campaignID uuid.UUID
		productID  uuid.UUID
	}

	merged := make(map[grantKey]int, len(grants))
	order := make([]grantKey, 0, len(grants))
	for _, g := range grants {
		key := grantKey{campaignID: g.CampaignID, productID: g.ProductID}
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] += g.Quantity
	}

	ids := make([]uuid.UUID, 0, len(order))
	for _, key := range order {
		ids = append(ids, key.productID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		logger.Warn("Free item lookup failed, dropping grants", map[string]interface{}{
			"error": err.Error(),
		})
		return items
	}

	for _, key := range order {
		product, ok := products[key.productID]
		if !ok {
			logger.Warn("Free item product not found, dropping grant", map[string]interface{}{
				"campaign_id": key.campaignID.String(),
				"product_id":  key.productID.String(),
			})
			continue
		}
		items = append(items, model.FreeItem{
			CampaignID: key.campaignID,
			ProductID:  key.productID,
			Quantity:   merged[key],
			Product:    product,
		})
	}

	return items
}

// ListActiveCampaigns exposes the cached active set for storefront
// banners.
func (s *offerService) ListActiveCampaigns(ctx context.Context, now time.Time) ([]*model.Campaign, error) {
	campaigns, err := s.loadActiveCampaigns(ctx, now)
	if err != nil {
		return nil, err
	}

	visible := make([]*model.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.Validate() == nil && c.IsEligible(now) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}
