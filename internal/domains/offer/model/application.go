package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogmodel "storefront-backend/internal/domains/catalog/model"
)

// FreeItemGrant is produced by the evaluator before catalog resolution.
type FreeItemGrant struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
}

// OfferApplication is the outcome of evaluating one campaign against
// one cart. AffectedProducts lists the product ids the campaign touched
// so storefronts can badge the matching cart lines.
type OfferApplication struct {
	CampaignID       uuid.UUID                  `json:"campaign_id"`
	CampaignTitle    catalogmodel.LocalizedText `json:"campaign_title"`
	Kind             CampaignKind               `json:"kind"`
	DiscountAmount   decimal.Decimal            `json:"discount_amount"`
	AffectedProducts []uuid.UUID                `json:"affected_products,omitempty"`
	FreeItems        []FreeItemGrant            `json:"free_items,omitempty"`
}

// IsTrivial reports whether the application changed nothing and can be
// dropped from the result.
func (a OfferApplication) IsTrivial() bool {
	return !a.DiscountAmount.IsPositive() && len(a.FreeItems) == 0
}

// FreeItem is a grant resolved against the catalog for display and
// order persistence.
type FreeItem struct {
	CampaignID uuid.UUID             `json:"campaign_id"`
	ProductID  uuid.UUID             `json:"product_id"`
	Quantity   int                   `json:"quantity"`
	Product    *catalogmodel.Product `json:"product"`
}

// OfferApplicationResult is the aggregate answer for a cart. Lines are
// the input lines passed through unmodified.
type OfferApplicationResult struct {
	Lines         []CartLine         `json:"lines"`
	Applications  []OfferApplication `json:"applications"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	FreeItems     []FreeItem         `json:"free_items"`
}
