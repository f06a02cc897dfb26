package model

import "errors"

var (
	ErrCampaignMissingRule    = errors.New("campaign kind has no matching rule payload")
	ErrCampaignMissingProduct = errors.New("buy_get rule is missing a product reference")
	ErrInvalidCampaignKind    = errors.New("invalid campaign kind")
	ErrInvalidDiscountType    = errors.New("invalid discount type")
	ErrDuplicateUsage         = errors.New("campaign usage already recorded for this order")
)

type ErrorCode string

const (
	ErrCodeCampaignNotFound ErrorCode = "CAMPAIGN_NOT_FOUND" // 404
	ErrCodeCampaignInvalid  ErrorCode = "CAMPAIGN_INVALID"   // 400
	ErrCodeProductNotFound  ErrorCode = "PRODUCT_NOT_FOUND"  // 400
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"  // 400
	ErrCodeInternalError    ErrorCode = "SYS_INTERNAL_ERROR" // 500
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrCampaignNotFound = &AppError{
		Code:       ErrCodeCampaignNotFound,
		Message:    "Campaign does not exist or has been removed",
		HTTPStatus: 404,
	}

	ErrUnknownProduct = &AppError{
		Code:       ErrCodeProductNotFound,
		Message:    "One or more cart products do not exist in the catalog",
		HTTPStatus: 400,
	}
)
