package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leap-pm/ads-service/internal/http/response"
	pkgerrors "github.com/leap-pm/ads-service/internal/pkg/errors"
	"github.com/leap-pm/ads-service/internal/platform/logger"
	"github.com/leap-pm/ads-service/internal/services"
)

type AnalyticsHandler struct {
	log      *logger.Logger
	tracking services.TrackingService
}

func NewAnalyticsHandler(log *logger.Logger, tracking services.TrackingService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:      log.With("handler", "AnalyticsHandler"),
		tracking: tracking,
	}
}

// GetAdAnalytics returns the windowed rollup for one ad. from/to accept
// RFC 3339 timestamps or plain dates; both default to the last 30 days.
func (h *AnalyticsHandler) GetAdAnalytics(c *gin.Context) {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_ad_id", err)
		return
	}

	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_from", err)
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_to", err)
		return
	}

	analytics, err := h.tracking.GetAdAnalytics(c.Request.Context(), adID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrNotFound):
			response.RespondError(c, http.StatusNotFound, "not_found", err)
		case errors.Is(err, pkgerrors.ErrInvalidArgument):
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		default:
			h.log.Error("GetAdAnalytics failed", "error", err, "ad_id", adID)
			response.RespondError(c, http.StatusInternalServerError, "load_analytics_failed", err)
		}
		return
	}
	response.RespondOK(c, analytics)
}

func parseTimeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
