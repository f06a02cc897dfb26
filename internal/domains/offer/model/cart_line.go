package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogmodel "storefront-backend/internal/domains/catalog/model"
)

// PricingTier selects which price list a shopper buys at.
type PricingTier string

const (
	TierRetail    PricingTier = "retail"
	TierWholesale PricingTier = "wholesale"
	TierAdmin     PricingTier = "admin"
)

// NormalizePricingTier maps arbitrary input to a known tier. Unknown
// values fall back to retail.
func NormalizePricingTier(s string) PricingTier {
	switch PricingTier(s) {
	case TierWholesale:
		return TierWholesale
	case TierAdmin:
		return TierAdmin
	default:
		return TierRetail
	}
}

// CartLine is one entry of the cart under evaluation. Product is a
// catalog snapshot resolved before evaluation starts.
type CartLine struct {
	ProductID uuid.UUID             `json:"product_id"`
	VariantID *uuid.UUID            `json:"variant_id,omitempty"`
	Quantity  int                   `json:"quantity"`
	Product   *catalogmodel.Product `json:"product"`
}

// Key is the composite identity of a line within a cart.
func (l *CartLine) Key() string {
	if l.VariantID != nil {
		return l.ProductID.String() + ":" + l.VariantID.String()
	}
	return l.ProductID.String()
}

// ResolveUnitPrice picks the price for a tier. Wholesale uses the
// wholesale price when present and positive, all other cases use the
// retail price.
func ResolveUnitPrice(p *catalogmodel.Product, tier PricingTier) decimal.Decimal {
	if tier == TierWholesale && p.WholesalePrice != nil && p.WholesalePrice.IsPositive() {
		return *p.WholesalePrice
	}
	return p.Price
}
