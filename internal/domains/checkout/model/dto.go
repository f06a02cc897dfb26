package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	offermodel "storefront-backend/internal/domains/offer/model"
)

// PlaceOrderRequest submits a cart for checkout. Prices and offers are
// computed server side from the product ids alone.
type PlaceOrderRequest struct {
	Lines        []offermodel.CartLineInput `json:"lines"`
	PricingTier  string                     `json:"pricing_tier"`
	CustomerNote *string                    `json:"customer_note"`
}

func (r PlaceOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Lines,
			validation.Required.Error("Cart must not be empty"),
			validation.Length(1, 200).Error("Cart must hold 1-200 lines"),
		),
		validation.Field(&r.PricingTier,
			validation.In("", "retail", "wholesale", "admin").Error("Unknown pricing tier"),
		),
		validation.Field(&r.CustomerNote,
			validation.When(r.CustomerNote != nil,
				validation.Length(0, 1000).Error("Note must be at most 1000 characters"),
			),
		),
	)
}
