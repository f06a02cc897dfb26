package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/domains/offer/model"
	"storefront-backend/internal/domains/offer/service"
	"storefront-backend/internal/shared/response"
)

// AdminHandler serves campaign management, admin-only.
type AdminHandler struct {
	service service.OfferService
}

func NewAdminHandler(service service.OfferService) *AdminHandler {
	return &AdminHandler{service: service}
}

// -------------------------------------------------------------------
// CREATE & UPDATE
// -------------------------------------------------------------------

// CreateCampaign creates a campaign of either kind.
// @Router /v1/admin/campaigns [post]
func (h *AdminHandler) CreateCampaign(c *gin.Context) {
	var req model.CreateCampaignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
			"Invalid campaign", err.Error())
		return
	}

	campaign, err := h.service.CreateCampaign(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, campaign)
}

// UpdateCampaign replaces a campaign in full.
// @Router /v1/admin/campaigns/:id [put]
func (h *AdminHandler) UpdateCampaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	var req model.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
			"Invalid campaign", err.Error())
		return
	}

	campaign, err := h.service.UpdateCampaign(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, campaign)
}

// UpdateStatus toggles a campaign on or off.
// @Router /v1/admin/campaigns/:id/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
			"Invalid status payload", err.Error())
		return
	}

	if err := h.service.UpdateCampaignStatus(c.Request.Context(), id, *req.Active); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "active": *req.Active})
}

// DeleteCampaign soft deletes a campaign.
// @Router /v1/admin/campaigns/:id [delete]
func (h *AdminHandler) DeleteCampaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	if err := h.service.DeleteCampaign(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// -------------------------------------------------------------------
// READ
// -------------------------------------------------------------------

// ListCampaigns returns a filtered admin page.
// @Router /v1/admin/campaigns [get]
func (h *AdminHandler) ListCampaigns(c *gin.Context) {
	var filter model.ListCampaignsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if err := filter.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, string(model.ErrCodeValidationFailed),
			"Invalid filter", err.Error())
		return
	}

	campaigns, total, err := h.service.ListCampaigns(c.Request.Context(), &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, campaigns, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetCampaign returns one campaign.
// @Router /v1/admin/campaigns/:id [get]
func (h *AdminHandler) GetCampaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	campaign, err := h.service.GetCampaign(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, campaign)
}

// GetUsageStats returns the usage aggregate for one campaign.
// @Router /v1/admin/campaigns/:id/stats [get]
func (h *AdminHandler) GetUsageStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	var filter model.UsageStatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	stats, err := h.service.GetUsageStats(c.Request.Context(), id, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
