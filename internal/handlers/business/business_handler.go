// internal/handlers/business/business_handler.go
package business

import (
	"net/http"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	"omnia-service/internal/pkg/response"
	service "omnia-service/internal/service/business"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	businessService *service.BusinessService
}

func NewBusinessHandler(businessService *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
	}
}

// ========== Profiles ==========

// UpsertBusiness accepts a profile in the nested or the legacy flat shape.
func (h *BusinessHandler) UpsertBusiness(c *gin.Context) {
	var req business.UpsertBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, legacy, err := h.businessService.Upsert(c.Request.Context(), req.Profile)
	if err != nil {
		response.FromError(c, "failed to save business", err)
		return
	}

	message := "business saved"
	if legacy {
		message = "legacy profile migrated and saved"
	}
	response.Success(c, http.StatusOK, message, result)
}

func (h *BusinessHandler) UpsertLegacyBusiness(c *gin.Context) {
	var req business.UpsertBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.businessService.UpsertLegacy(c.Request.Context(), req.Profile)
	if err != nil {
		response.FromError(c, "failed to migrate legacy profile", err)
		return
	}

	response.Success(c, http.StatusOK, "legacy profile migrated and saved", result)
}

func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	var filters business.BusinessListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.businessService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list businesses", err)
		return
	}

	response.Success(c, http.StatusOK, "businesses retrieved", result)
}

// GetBusiness returns the business with its latest strategy.
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	result, err := h.businessService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "business not found", err)
		return
	}

	response.Success(c, http.StatusOK, "business retrieved", result)
}

func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	if err := h.businessService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete business", err)
		return
	}

	response.Success(c, http.StatusOK, "business deleted", nil)
}

// ========== Strategies ==========

// SaveStrategy stores a strategy the caller already has, e.g. one edited
// by hand after generation.
func (h *BusinessHandler) SaveStrategy(c *gin.Context) {
	var req strategy.SaveStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.businessService.SaveStrategy(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to save strategy", err)
		return
	}

	response.Success(c, http.StatusCreated, "strategy saved", result)
}
