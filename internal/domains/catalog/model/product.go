package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocalizedText carries the storefront locales. Missing translations
// fall back to English at render time.
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar,omitempty"`
	Ku string `json:"ku,omitempty"`
}

// Product is the catalog read model consumed by the offer engine and
// checkout. Write operations live in the catalog admin service, which
// is a separate deployment.
type Product struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	SKU         string        `json:"sku" db:"sku"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`

	// Pricing
	Price          decimal.Decimal  `json:"price" db:"price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price,omitempty" db:"wholesale_price"`

	// Availability
	InStock       bool `json:"in_stock" db:"in_stock"`
	StockQuantity int  `json:"stock_quantity" db:"stock_quantity"`

	ImageURL *string `json:"image_url,omitempty" db:"image_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
