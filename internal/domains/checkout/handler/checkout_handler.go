package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/checkout/model"
	"storefront-backend/internal/domains/checkout/service"
	offermodel "storefront-backend/internal/domains/offer/model"
	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/logger"
)

// CheckoutHandler serves order placement and lookup.
type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(service service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// PlaceOrder submits a cart. Guests are allowed, the user id is only
// attached when the auth middleware resolved one.
// @Router /v1/checkout [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req model.PlaceOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
			"Invalid order", err.Error())
		return
	}

	for _, line := range req.Lines {
		if err := line.Validate(); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
				"Invalid cart line", err.Error())
			return
		}
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), userIDFromContext(c), &req, resolveTier(c, req.PricingTier))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// GetOrder returns one order.
// @Router /v1/orders/:id [get]
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// ListOrders returns the authenticated user's orders.
// @Router /v1/orders [get]
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, total, err := h.service.ListOrders(c.Request.Context(), *userID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *CheckoutHandler) handleError(c *gin.Context, err error) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		response.ErrorWithDetails(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Details)
		return
	}

	var offerErr *offermodel.AppError
	if errors.As(err, &offerErr) {
		response.ErrorWithDetails(c, offerErr.HTTPStatus, string(offerErr.Code), offerErr.Message, offerErr.Details)
		return
	}

	logger.Error("Unhandled checkout error", err)
	response.InternalServerError(c, "Something went wrong")
}

func userIDFromContext(c *gin.Context) *uuid.UUID {
	v, ok := c.Get("userID")
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// resolveTier prefers the authenticated tier claim over the request
// body.
func resolveTier(c *gin.Context, requested string) offermodel.PricingTier {
	if claimed, ok := c.Get("pricing_tier"); ok {
		if tier, ok := claimed.(string); ok {
			return offermodel.NormalizePricingTier(tier)
		}
	}
	return offermodel.NormalizePricingTier(requested)
}
