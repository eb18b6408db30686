package app

import (
	"gorm.io/gorm"

	"github.com/leap-pm/ads-service/internal/observability"
	"github.com/leap-pm/ads-service/internal/platform/logger"
	"github.com/leap-pm/ads-service/internal/services"
)

type Services struct {
	Targeting services.TargetingService
	Tracking  services.TrackingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, repos Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Targeting: services.NewTargetingService(db, log, repos.Ads, repos.TargetingRules, repos.Placements, clients.AdCache, metrics),
		Tracking:  services.NewTrackingService(db, log, repos.Ads, repos.Impressions, repos.Clicks, repos.Placements, metrics, cfg.Tracking),
	}
}
