package app

import (
	"github.com/gin-gonic/gin"

	"github.com/leap-pm/ads-service/internal/http"
	httpH "github.com/leap-pm/ads-service/internal/http/handlers"
	"github.com/leap-pm/ads-service/internal/observability"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Delivery  *httpH.DeliveryHandler
	Tracking  *httpH.TrackingHandler
	Analytics *httpH.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Delivery:  httpH.NewDeliveryHandler(log, services.Targeting),
		Tracking:  httpH.NewTrackingHandler(log, services.Tracking),
		Analytics: httpH.NewAnalyticsHandler(log, services.Tracking),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		HealthHandler:    handlers.Health,
		DeliveryHandler:  handlers.Delivery,
		TrackingHandler:  handlers.Tracking,
		AnalyticsHandler: handlers.Analytics,
	})
}
