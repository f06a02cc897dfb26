package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogmodel "storefront-backend/internal/domains/catalog/model"
)

// -------------------------------------------------------------------
// PUBLIC REQUESTS
// -------------------------------------------------------------------

// CartLineInput is one cart line as submitted over HTTP. Product data
// is resolved server side, never trusted from the client.
type CartLineInput struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (i CartLineInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProductID,
			validation.Required.Error("Product id is required"),
			is.UUID.Error("Product id must be a valid UUID"),
		),
		validation.Field(&i.VariantID,
			validation.When(i.VariantID != nil, is.UUID.Error("Variant id must be a valid UUID")),
		),
		validation.Field(&i.Quantity,
			validation.Min(1).Error("Quantity must be >= 1"),
			validation.Max(1000).Error("Quantity must be <= 1000"),
		),
	)
}

// EvaluateOffersRequest asks which offers apply to a cart.
type EvaluateOffersRequest struct {
	Lines       []CartLineInput `json:"lines"`
	PricingTier string          `json:"pricing_tier"`
}

func (r EvaluateOffersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Lines,
			validation.Required.Error("Cart must not be empty"),
			validation.Length(1, 200).Error("Cart must hold 1-200 lines"),
		),
		validation.Field(&r.PricingTier,
			validation.In("", "retail", "wholesale", "admin").Error("Unknown pricing tier"),
		),
	)
}

// -------------------------------------------------------------------
// ADMIN REQUESTS
// -------------------------------------------------------------------

// LocalizedTextInput mirrors catalog LocalizedText for request bodies.
type LocalizedTextInput struct {
	En string `json:"en"`
	Ar string `json:"ar"`
	Ku string `json:"ku"`
}

func (t LocalizedTextInput) toModel() catalogmodel.LocalizedText {
	return catalogmodel.LocalizedText{En: t.En, Ar: t.Ar, Ku: t.Ku}
}

// DiscountRuleInput is the discount payload of a campaign request.
type DiscountRuleInput struct {
	Type        string   `json:"type"`
	Percentage  float64  `json:"percentage"`
	Amount      float64  `json:"amount"`
	MinQuantity *int     `json:"min_quantity"`
	MinAmount   *float64 `json:"min_amount"`
}

func (d DiscountRuleInput) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Type,
			validation.Required.Error("Discount type is required"),
			validation.In(DiscountPercentage, DiscountFixed).Error("Discount type must be 'percentage' or 'fixed'"),
		),
		validation.Field(&d.Percentage,
			validation.When(d.Type == DiscountPercentage,
				validation.Required.Error("Percentage is required"),
				validation.Min(0.01).Error("Percentage must be > 0"),
				validation.Max(100.0).Error("Percentage must be <= 100"),
			),
		),
		validation.Field(&d.Amount,
			validation.When(d.Type == DiscountFixed,
				validation.Required.Error("Amount is required"),
				validation.Min(0.01).Error("Amount must be > 0"),
			),
		),
		validation.Field(&d.MinQuantity,
			validation.When(d.MinQuantity != nil, validation.Min(1).Error("Minimum quantity must be >= 1")),
		),
		validation.Field(&d.MinAmount,
			validation.When(d.MinAmount != nil, validation.Min(0.01).Error("Minimum amount must be > 0")),
		),
	)
}

// BuyGetRuleInput is the buy_get payload of a campaign request.
type BuyGetRuleInput struct {
	LinkedProductID  string  `json:"linked_product_id"`
	BuyQuantity      int     `json:"buy_quantity"`
	GetProductID     string  `json:"get_product_id"`
	GetDiscountType  string  `json:"get_discount_type"`
	GetDiscountValue float64 `json:"get_discount_value"`
}

func (b BuyGetRuleInput) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.LinkedProductID,
			validation.Required.Error("Linked product id is required"),
			is.UUID.Error("Linked product id must be a valid UUID"),
		),
		validation.Field(&b.BuyQuantity,
			validation.Min(0).Error("Buy quantity must be >= 0"),
		),
		validation.Field(&b.GetProductID,
			validation.Required.Error("Get product id is required"),
			is.UUID.Error("Get product id must be a valid UUID"),
		),
		validation.Field(&b.GetDiscountType,
			validation.Required.Error("Reward type is required"),
			validation.In(DiscountFree, DiscountPercentage, DiscountFixed).Error("Reward type must be 'free', 'percentage' or 'fixed'"),
		),
		validation.Field(&b.GetDiscountValue,
			validation.When(b.GetDiscountType != DiscountFree,
				validation.Required.Error("Reward value is required"),
				validation.Min(0.01).Error("Reward value must be > 0"),
			),
			validation.When(b.GetDiscountType == DiscountPercentage,
				validation.Max(100.0).Error("Reward percentage must be <= 100"),
			),
		),
	)
}

// CreateCampaignRequest creates a campaign of either kind.
type CreateCampaignRequest struct {
	Title       LocalizedTextInput `json:"title"`
	Description LocalizedTextInput `json:"description"`
	Kind        string             `json:"kind"`
	Active      bool               `json:"active"`
	StartAt     string             `json:"start_at"` // RFC3339
	EndAt       string             `json:"end_at"`
	Discount    *DiscountRuleInput `json:"discount"`
	BuyGet      *BuyGetRuleInput   `json:"buy_get"`
}

func (r CreateCampaignRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.By(r.validateTitle)),
		validation.Field(&r.Kind,
			validation.Required.Error("Campaign kind is required"),
			validation.In(string(KindDiscount), string(KindBuyGet)).Error("Kind must be 'discount' or 'buy_get'"),
		),
		validation.Field(&r.StartAt,
			validation.Required.Error("Start time is required"),
			validation.Date(time.RFC3339).Error("Start time must be RFC3339"),
		),
		validation.Field(&r.EndAt,
			validation.Required.Error("End time is required"),
			validation.Date(time.RFC3339).Error("End time must be RFC3339"),
			validation.By(r.validateDateRange),
		),
		validation.Field(&r.Discount, validation.By(r.validateRulePayload)),
	)
}

func (r CreateCampaignRequest) validateTitle(interface{}) error {
	if r.Title.En == "" {
		return errors.New("english title is required")
	}
	if len(r.Title.En) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	return nil
}

// validateRulePayload enforces the tagged union: exactly one rule, and
// it must match the declared kind.
func (r CreateCampaignRequest) validateRulePayload(interface{}) error {
	switch CampaignKind(r.Kind) {
	case KindDiscount:
		if r.Discount == nil {
			return errors.New("discount campaign requires a discount rule")
		}
		if r.BuyGet != nil {
			return errors.New("discount campaign must not carry a buy_get rule")
		}
		return r.Discount.Validate()
	case KindBuyGet:
		if r.BuyGet == nil {
			return errors.New("buy_get campaign requires a buy_get rule")
		}
		if r.Discount != nil {
			return errors.New("buy_get campaign must not carry a discount rule")
		}
		return r.BuyGet.Validate()
	}
	return nil
}

func (r CreateCampaignRequest) validateDateRange(interface{}) error {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil // format already reported on StartAt
	}
	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil
	}
	if !endAt.After(startAt) {
		return errors.New("end time must be after start time")
	}
	return nil
}

// ToCampaign converts a validated request into the domain entity.
func (r CreateCampaignRequest) ToCampaign() *Campaign {
	startAt, _ := time.Parse(time.RFC3339, r.StartAt)
	endAt, _ := time.Parse(time.RFC3339, r.EndAt)

	c := &Campaign{
		Title:       r.Title.toModel(),
		Description: r.Description.toModel(),
		Kind:        CampaignKind(r.Kind),
		Active:      r.Active,
		StartAt:     startAt,
		EndAt:       endAt,
	}

	if r.Discount != nil {
		rule := &DiscountRule{
			Type:        r.Discount.Type,
			Percentage:  decimal.NewFromFloat(r.Discount.Percentage),
			Amount:      decimal.NewFromFloat(r.Discount.Amount),
			MinQuantity: r.Discount.MinQuantity,
		}
		if r.Discount.MinAmount != nil {
			min := decimal.NewFromFloat(*r.Discount.MinAmount)
			rule.MinAmount = &min
		}
		c.Discount = rule
	}

	if r.BuyGet != nil {
		c.BuyGet = &BuyGetRule{
			LinkedProductID:  mustParseUUID(r.BuyGet.LinkedProductID),
			BuyQuantity:      r.BuyGet.BuyQuantity,
			GetProductID:     mustParseUUID(r.BuyGet.GetProductID),
			GetDiscountType:  r.BuyGet.GetDiscountType,
			GetDiscountValue: decimal.NewFromFloat(r.BuyGet.GetDiscountValue),
		}
	}

	return c
}

// mustParseUUID is only called on ids the validator already accepted.
func mustParseUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

// UpdateCampaignRequest carries a full replacement of the campaign.
// Partial updates would make the tagged union ambiguous, so the admin
// UI always submits the whole record.
type UpdateCampaignRequest struct {
	CreateCampaignRequest
}

// UpdateStatusRequest toggles a campaign without touching its rules.
type UpdateStatusRequest struct {
	Active *bool `json:"active"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Active, validation.NotNil.Error("Active flag is required")),
	)
}

// ListCampaignsFilter filters the admin campaign list.
type ListCampaignsFilter struct {
	Status string `form:"status"` // active, expired, upcoming, all
	Kind   string `form:"kind"`   // discount, buy_get, all
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (f *ListCampaignsFilter) Validate() error {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Status == "" {
		f.Status = "all"
	}
	if f.Kind == "" {
		f.Kind = "all"
	}
	return validation.ValidateStruct(f,
		validation.Field(&f.Status, validation.In("active", "expired", "upcoming", "all")),
		validation.Field(&f.Kind, validation.In("discount", "buy_get", "all")),
	)
}

// UsageStatsFilter bounds the usage report window.
type UsageStatsFilter struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}
