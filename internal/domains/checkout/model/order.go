package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogmodel "storefront-backend/internal/domains/catalog/model"
	offermodel "storefront-backend/internal/domains/offer/model"
)

// Order statuses. Fulfilment transitions happen in a separate system,
// checkout only ever creates pending orders.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// OrderItem is a priced snapshot of one cart line at checkout time.
type OrderItem struct {
	ProductID uuid.UUID                  `json:"product_id"`
	VariantID *uuid.UUID                 `json:"variant_id,omitempty"`
	SKU       string                     `json:"sku"`
	Name      catalogmodel.LocalizedText `json:"name"`
	Quantity  int                        `json:"quantity"`
	UnitPrice decimal.Decimal            `json:"unit_price"`
	LineTotal decimal.Decimal            `json:"line_total"`
}

// Order is a placed order with the offer outcome frozen into it.
// AppliedOffers and FreeItems are snapshots, campaign edits after
// checkout never change what the shopper was promised.
type Order struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	OrderNumber string     `json:"order_number" db:"order_number"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Status      string     `json:"status" db:"status"`
	PricingTier string     `json:"pricing_tier" db:"pricing_tier"`

	Items []OrderItem `json:"items"`

	OriginalTotal      decimal.Decimal `json:"original_total" db:"original_total"`
	DiscountFromOffers decimal.Decimal `json:"discount_from_offers" db:"discount_from_offers"`
	Total              decimal.Decimal `json:"total" db:"total"`

	AppliedOffers []offermodel.OfferApplication `json:"applied_offers"`
	FreeItems     []offermodel.FreeItem         `json:"free_items"`

	CustomerNote *string `json:"customer_note,omitempty" db:"customer_note"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
