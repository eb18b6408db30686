package app

import (
	"gorm.io/gorm"

	adsrepo "github.com/leap-pm/ads-service/internal/data/repos/ads"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type Repos struct {
	Ads            adsrepo.AdRepo
	TargetingRules adsrepo.TargetingRuleRepo
	Placements     adsrepo.PlacementRepo
	Impressions    adsrepo.ImpressionRepo
	Clicks         adsrepo.ClickRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Ads:            adsrepo.NewAdRepo(db, log),
		TargetingRules: adsrepo.NewTargetingRuleRepo(db, log),
		Placements:     adsrepo.NewPlacementRepo(db, log),
		Impressions:    adsrepo.NewImpressionRepo(db, log),
		Clicks:         adsrepo.NewClickRepo(db, log),
	}
}
