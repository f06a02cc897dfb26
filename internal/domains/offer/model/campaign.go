package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogmodel "storefront-backend/internal/domains/catalog/model"
)

// CampaignKind discriminates the rule payload a campaign carries.
type CampaignKind string

const (
	KindDiscount CampaignKind = "discount"
	KindBuyGet   CampaignKind = "buy_get"
)

// Discount value semantics for both DiscountRule.Type and
// BuyGetRule.GetDiscountType.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
	DiscountFree       = "free"
)

// DiscountRule is a cart-wide discount applied per unit of every line.
type DiscountRule struct {
	Type       string          `json:"type" db:"discount_type"`
	Percentage decimal.Decimal `json:"percentage" db:"discount_percentage"`
	Amount     decimal.Decimal `json:"amount" db:"discount_amount"`

	// Eligibility thresholds over the whole cart. Nil means no threshold.
	MinQuantity *int             `json:"min_quantity,omitempty" db:"min_quantity"`
	MinAmount   *decimal.Decimal `json:"min_amount,omitempty" db:"min_amount"`
}

// BuyGetRule rewards purchases of a linked product with a discount or a
// free grant on a target product.
type BuyGetRule struct {
	LinkedProductID  uuid.UUID       `json:"linked_product_id" db:"bg_linked_product_id"`
	BuyQuantity      int             `json:"buy_quantity" db:"bg_buy_quantity"`
	GetProductID     uuid.UUID       `json:"get_product_id" db:"bg_get_product_id"`
	GetDiscountType  string          `json:"get_discount_type" db:"bg_get_discount_type"`
	GetDiscountValue decimal.Decimal `json:"get_discount_value" db:"bg_get_discount_value"`
}

// Campaign is a closed tagged union: exactly one of Discount or BuyGet
// is set, selected by Kind.
type Campaign struct {
	ID          uuid.UUID                  `json:"id" db:"id"`
	Title       catalogmodel.LocalizedText `json:"title"`
	Description catalogmodel.LocalizedText `json:"description"`
	Kind        CampaignKind               `json:"kind" db:"kind"`

	Active  bool      `json:"active" db:"active"`
	StartAt time.Time `json:"start_at" db:"start_at"`
	EndAt   time.Time `json:"end_at" db:"end_at"`

	Discount *DiscountRule `json:"discount,omitempty"`
	BuyGet   *BuyGetRule   `json:"buy_get,omitempty"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsEligible reports whether the campaign applies at the given instant.
// Both window bounds are inclusive.
func (c *Campaign) IsEligible(now time.Time) bool {
	return c.Active && !now.Before(c.StartAt) && !now.After(c.EndAt)
}

// Validate flags malformed records. Callers skip invalid campaigns with
// a warning rather than failing the evaluation.
func (c *Campaign) Validate() error {
	switch c.Kind {
	case KindDiscount:
		if c.Discount == nil {
			return ErrCampaignMissingRule
		}
		if c.Discount.Type != DiscountPercentage && c.Discount.Type != DiscountFixed {
			return ErrInvalidDiscountType
		}
	case KindBuyGet:
		if c.BuyGet == nil {
			return ErrCampaignMissingRule
		}
		if c.BuyGet.LinkedProductID == uuid.Nil || c.BuyGet.GetProductID == uuid.Nil {
			return ErrCampaignMissingProduct
		}
		switch c.BuyGet.GetDiscountType {
		case DiscountFree, DiscountPercentage, DiscountFixed:
		default:
			return ErrInvalidDiscountType
		}
	default:
		return ErrInvalidCampaignKind
	}
	return nil
}
