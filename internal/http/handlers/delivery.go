package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/http/response"
	"github.com/leap-pm/ads-service/internal/platform/logger"
	"github.com/leap-pm/ads-service/internal/services"
)

type DeliveryHandler struct {
	log       *logger.Logger
	targeting services.TargetingService
}

func NewDeliveryHandler(log *logger.Logger, targeting services.TargetingService) *DeliveryHandler {
	return &DeliveryHandler{
		log:       log.With("handler", "DeliveryHandler"),
		targeting: targeting,
	}
}

type deliveryRequest struct {
	Viewer *types.ViewerProfile `json:"viewer,omitempty"`
	Limit  int                  `json:"limit,omitempty"`
}

// ServeForPlacement takes the viewer profile in the request body. An empty
// body serves untargeted ads only.
func (h *DeliveryHandler) ServeForPlacement(c *gin.Context) {
	code := c.Param("code")

	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	placement, ads, err := h.targeting.SelectAdsForPlacement(c.Request.Context(), code, req.Viewer, req.Limit)
	if err != nil {
		h.log.Error("ServeForPlacement failed", "error", err, "code", code)
		response.RespondError(c, http.StatusInternalServerError, "serve_ads_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"placement": placement, "ads": ads})
}

func (h *DeliveryHandler) Recommend(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	ads, err := h.targeting.RecommendAds(c.Request.Context(), req.Viewer, req.Limit)
	if err != nil {
		h.log.Error("Recommend failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "recommend_ads_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ads": ads})
}

func (h *DeliveryHandler) ValidateRules(c *gin.Context) {
	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	response.RespondOK(c, h.targeting.ValidateTargetingRules(input))
}
