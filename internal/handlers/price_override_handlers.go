package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel_platform_backend/internal/middleware"
	"hotel_platform_backend/internal/services"
	"hotel_platform_backend/pkg/utils"
)

// PriceOverrideHandler holds the pricing service.
type PriceOverrideHandler struct {
	pricingService services.PricingService
}

// NewPriceOverrideHandler creates a new PriceOverrideHandler.
func NewPriceOverrideHandler(ps services.PricingService) *PriceOverrideHandler {
	return &PriceOverrideHandler{pricingService: ps}
}

// respondPricingError maps service errors onto API errors.
func respondPricingError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid price override request.", err.Error()))
	case errors.Is(err, services.ErrBranchForbidden), errors.Is(err, middleware.ErrBranchOutOfScope):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You can only manage prices of your own branch.", err.Error()))
	default:
		utils.LogError(err, op)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process price override request.", "Internal error"))
	}
}

// scopedBranch resolves the branch for the request and writes the error response when it cannot.
func scopedBranch(c *gin.Context, requested string) (string, bool) {
	branchID, err := middleware.ScopedBranch(c, requested)
	if err != nil {
		respondPricingError(c, err, "scopedBranch")
		return "", false
	}
	if branchID == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "branch_id is required.", ""))
		return "", false
	}
	return branchID, true
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{Name: middleware.ActorName(c), BranchID: middleware.RestrictedBranch(c)}
}

// ListOverrides returns every override (active and inactive) of a branch in insertion order.
func (h *PriceOverrideHandler) ListOverrides(c *gin.Context) {
	branchID, ok := scopedBranch(c, c.Query("branch_id"))
	if !ok {
		return
	}
	overrides, err := h.pricingService.GetOverridesByBranch(c.Request.Context(), branchID)
	if err != nil {
		respondPricingError(c, err, "ListOverrides: Error from pricingService.GetOverridesByBranch")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, overrides)
}

// SetPrice creates or supersedes the override of an item in a branch.
func (h *PriceOverrideHandler) SetPrice(c *gin.Context) {
	var req services.SetPriceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	branchID, ok := scopedBranch(c, req.BranchID)
	if !ok {
		return
	}
	req.BranchID = branchID
	req.UpdatedBy = middleware.ActorName(c)

	override, err := h.pricingService.SetPrice(c.Request.Context(), req)
	if err != nil {
		respondPricingError(c, err, "SetPrice: Error from pricingService.SetPrice")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, override)
}

// ToggleOverride flips an override between active and inactive. Unknown ids answer with null data.
func (h *PriceOverrideHandler) ToggleOverride(c *gin.Context) {
	override, err := h.pricingService.ToggleOverride(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondPricingError(c, err, "ToggleOverride: Error from pricingService.ToggleOverride")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, override)
}

// RemoveOverride deletes an override. Removing an unknown id is not an error.
func (h *PriceOverrideHandler) RemoveOverride(c *gin.Context) {
	removed, err := h.pricingService.RemoveOverride(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		respondPricingError(c, err, "RemoveOverride: Error from pricingService.RemoveOverride")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "removed": removed})
}

// GetEffectivePrice resolves the price charged for an item in a branch.
func (h *PriceOverrideHandler) GetEffectivePrice(c *gin.Context) {
	branchID, ok := scopedBranch(c, c.Query("branch_id"))
	if !ok {
		return
	}
	itemID := c.Query("item_id")
	if itemID == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "item_id is required.", ""))
		return
	}
	catalogPrice, err := utils.StrToInt64(c.Query("catalog_price"))
	if err != nil || catalogPrice <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "catalog_price must be a positive integer.", ""))
		return
	}

	price, err := h.pricingService.GetEffectivePrice(c.Request.Context(), itemID, branchID, catalogPrice)
	if err != nil {
		respondPricingError(c, err, "GetEffectivePrice: Error from pricingService.GetEffectivePrice")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"itemId":         itemID,
		"branchId":       branchID,
		"catalogPrice":   catalogPrice,
		"effectivePrice": price,
	})
}

// BulkAdjust applies a percentage change to a whole category. Rejected items are listed in the
// response instead of failing the request.
func (h *PriceOverrideHandler) BulkAdjust(c *gin.Context) {
	var req services.BulkAdjustInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	branchID, ok := scopedBranch(c, req.BranchID)
	if !ok {
		return
	}
	req.BranchID = branchID
	req.UpdatedBy = middleware.ActorName(c)

	result, err := h.pricingService.BulkAdjust(c.Request.Context(), req)
	if err != nil {
		respondPricingError(c, err, "BulkAdjust: Error from pricingService.BulkAdjust")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, result)
}

// GetAuditLog lists the newest override writes of a branch.
func (h *PriceOverrideHandler) GetAuditLog(c *gin.Context) {
	branchID, ok := scopedBranch(c, c.Query("branch_id"))
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "limit must be a non-negative integer.", ""))
			return
		}
		limit = n
	}
	entries, err := h.pricingService.GetAuditLog(c.Request.Context(), branchID, limit)
	if err != nil {
		respondPricingError(c, err, "GetAuditLog: Error from pricingService.GetAuditLog")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, entries)
}

// Quote prices a set of booking or order lines with the branch's effective prices.
func (h *PriceOverrideHandler) Quote(c *gin.Context) {
	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	branchID, ok := scopedBranch(c, req.BranchID)
	if !ok {
		return
	}
	req.BranchID = branchID

	quote, err := h.pricingService.Quote(c.Request.Context(), req)
	if err != nil {
		respondPricingError(c, err, "Quote: Error from pricingService.Quote")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, quote)
}
