package ads

import (
	"time"

	"github.com/google/uuid"
)

// AdAnalytics is the windowed rollup returned by the analytics endpoint.
// CTR is recomputed from the window totals, not read off the ad row.
type AdAnalytics struct {
	AdID        uuid.UUID `json:"ad_id"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Impressions int64     `json:"impressions"`
	UniqueUsers int64     `json:"unique_users"`
	Clicks      int64     `json:"clicks"`
	CTR         string    `json:"ctr"`

	Daily         []DailyImpressions     `json:"daily"`
	TopPlacements []PlacementImpressions `json:"top_placements"`
}

// DailyImpressions is one bucket of the per-day impression histogram,
// newest day first.
type DailyImpressions struct {
	Day   string `gorm:"column:day" json:"day"`
	Count int64  `gorm:"column:count" json:"count"`
}

// PlacementImpressions ranks placements by impressions within the window.
type PlacementImpressions struct {
	PlacementID uuid.UUID `gorm:"column:placement_id" json:"placement_id"`
	Count       int64     `gorm:"column:count" json:"count"`
}
