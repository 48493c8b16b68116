// internal/handlers/strategy/strategy_handler.go
package strategy

import (
	"errors"
	"io"
	"net/http"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	"omnia-service/internal/pkg/response"
	service "omnia-service/internal/service/generation"

	"github.com/gin-gonic/gin"
)

type StrategyHandler struct {
	generationService *service.GenerationService
}

func NewStrategyHandler(generationService *service.GenerationService) *StrategyHandler {
	return &StrategyHandler{
		generationService: generationService,
	}
}

// GenerateStrategy generates for the stored profile, or for the profile in
// the body when one is sent.
func (h *StrategyHandler) GenerateStrategy(c *gin.Context) {
	override, ok := h.bindOverride(c)
	if !ok {
		return
	}

	result, err := h.generationService.GenerateStrategy(c.Request.Context(), c.Param("id"), override)
	if err != nil {
		response.FromError(c, "failed to generate strategy", err)
		return
	}

	response.Success(c, http.StatusOK, generationMessage(result.Stale, "strategy generated"), result)
}

func (h *StrategyHandler) GenerateMarketingPlan(c *gin.Context) {
	override, ok := h.bindOverride(c)
	if !ok {
		return
	}

	result, err := h.generationService.GenerateMarketingPlan(c.Request.Context(), c.Param("id"), override)
	if err != nil {
		response.FromError(c, "failed to generate marketing plan", err)
		return
	}

	response.Success(c, http.StatusOK, generationMessage(result.Stale, "marketing plan generated"), result)
}

func (h *StrategyHandler) GetWorkspace(c *gin.Context) {
	result, err := h.generationService.Workspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to load workspace", err)
		return
	}

	response.Success(c, http.StatusOK, "workspace retrieved", result)
}

// Preview runs the local templates for an unsaved profile.
func (h *StrategyHandler) Preview(c *gin.Context) {
	var req strategy.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Profile) == 0 {
		response.Error(c, http.StatusBadRequest, "profile is required", err)
		return
	}

	p, _, err := business.DecodeProfile(req.Profile)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid profile", err)
		return
	}

	response.Success(c, http.StatusOK, "preview generated", h.generationService.Preview(p))
}

// bindOverride accepts an empty body.
func (h *StrategyHandler) bindOverride(c *gin.Context) (*business.Profile, bool) {
	var req strategy.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return nil, false
	}
	if len(req.Profile) == 0 || string(req.Profile) == "null" {
		return nil, true
	}

	p, _, err := business.DecodeProfile(req.Profile)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid profile", err)
		return nil, false
	}
	return &p, true
}

func generationMessage(stale bool, done string) string {
	if stale {
		return "superseded by a newer request"
	}
	return done
}
