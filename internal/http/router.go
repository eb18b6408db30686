package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/leap-pm/ads-service/internal/http/handlers"
	httpMW "github.com/leap-pm/ads-service/internal/http/middleware"
	"github.com/leap-pm/ads-service/internal/observability"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	DeliveryHandler  *httpH.DeliveryHandler
	TrackingHandler  *httpH.TrackingHandler
	AnalyticsHandler *httpH.AnalyticsHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		ads := api.Group("/ads")

		// Delivery
		if cfg.DeliveryHandler != nil {
			ads.POST("/placements/:code/serve", cfg.DeliveryHandler.ServeForPlacement)
			ads.POST("/recommended", cfg.DeliveryHandler.Recommend)
			ads.POST("/targeting-rules/validate", cfg.DeliveryHandler.ValidateRules)
		}

		// Engagement tracking
		if cfg.TrackingHandler != nil {
			ads.POST("/track/impression", cfg.TrackingHandler.TrackImpression)
			ads.POST("/track/impressions", cfg.TrackingHandler.TrackBulkImpressions)
			ads.POST("/track/click", cfg.TrackingHandler.TrackClick)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			ads.GET("/:id/analytics", cfg.AnalyticsHandler.GetAdAnalytics)
		}
	}

	return r
}
