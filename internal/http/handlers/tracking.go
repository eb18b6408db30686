package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leap-pm/ads-service/internal/http/response"
	pkgerrors "github.com/leap-pm/ads-service/internal/pkg/errors"
	"github.com/leap-pm/ads-service/internal/platform/apierr"
	"github.com/leap-pm/ads-service/internal/platform/logger"
	"github.com/leap-pm/ads-service/internal/services"
)

type TrackingHandler struct {
	log      *logger.Logger
	tracking services.TrackingService
}

func NewTrackingHandler(log *logger.Logger, tracking services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		log:      log.With("handler", "TrackingHandler"),
		tracking: tracking,
	}
}

func (h *TrackingHandler) TrackImpression(c *gin.Context) {
	var in services.ImpressionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if err := h.tracking.TrackImpression(c.Request.Context(), in); err != nil {
		h.respondTrackingError(c, "track_impression_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": 1})
}

func (h *TrackingHandler) TrackBulkImpressions(c *gin.Context) {
	var body struct {
		Impressions []services.ImpressionInput `json:"impressions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	n, err := h.tracking.TrackBulkImpressions(c.Request.Context(), body.Impressions)
	if err != nil {
		h.respondTrackingError(c, "track_impressions_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": n})
}

func (h *TrackingHandler) TrackClick(c *gin.Context) {
	var in services.ClickInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	click, err := h.tracking.TrackClick(c.Request.Context(), in)
	if err != nil {
		h.respondTrackingError(c, "track_click_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"click": click, "destination_url": click.DestinationURL})
}

func (h *TrackingHandler) respondTrackingError(c *gin.Context, code string, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch {
	case errors.Is(err, pkgerrors.ErrRateLimited):
		response.RespondError(c, http.StatusTooManyRequests, "rate_limited", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		h.log.Error("tracking request failed", "error", err, "code", code)
		response.RespondError(c, http.StatusInternalServerError, code, err)
	}
}
