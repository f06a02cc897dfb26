package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domains/offer/model"
	"storefront-backend/internal/domains/offer/service"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

// PublicHandler serves the storefront-facing offer endpoints.
type PublicHandler struct {
	service service.OfferService
}

func NewPublicHandler(service service.OfferService) *PublicHandler {
	return &PublicHandler{service: service}
}

// EvaluateOffers answers which offers apply to a cart.
// @Router /v1/offers/evaluate [post]
func (h *PublicHandler) EvaluateOffers(c *gin.Context) {
	var req model.EvaluateOffersRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
			"Invalid cart", err.Error())
		return
	}

	for _, line := range req.Lines {
		if err := line.Validate(); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
				"Invalid cart line", err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	tier := h.resolveTier(c, req.PricingTier)

	lines, err := h.service.BuildCartLines(ctx, req.Lines)
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := h.service.EvaluateCart(ctx, lines, tier, time.Now())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListOffers returns the active campaigns for storefront banners.
// @Router /v1/offers [get]
func (h *PublicHandler) ListOffers(c *gin.Context) {
	campaigns, err := h.service.ListActiveCampaigns(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error("Failed to list active campaigns", err)
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, campaigns)
}

// resolveTier prefers the authenticated tier claim over the request
// body so shoppers cannot ask for wholesale prices.
func (h *PublicHandler) resolveTier(c *gin.Context, requested string) model.PricingTier {
	if claimed, ok := c.Get("pricing_tier"); ok {
		if tier, ok := claimed.(string); ok {
			return model.NormalizePricingTier(tier)
		}
	}
	return model.NormalizePricingTier(requested)
}

// handleError maps domain errors onto HTTP responses. Shared by both
// offer handlers.
func handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	logger.Error("Unhandled offer error", err)
	response.InternalServerError(c, "Something went wrong")
}
