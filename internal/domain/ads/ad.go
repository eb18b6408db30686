package ads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdStatusApproved is the only status the delivery path serves. Draft,
// pending and rejected ads exist in the same table but are managed by the
// ad-management workflow, not by this service.
const AdStatusApproved = "approved"

type Ad struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AdvertiserID uuid.UUID `gorm:"type:uuid;index" json:"advertiser_id"`

	Title          string `gorm:"column:title;not null" json:"title"`
	Description    string `gorm:"column:description;type:text" json:"description"`
	MediaURL       string `gorm:"column:media_url" json:"media_url"`
	DestinationURL string `gorm:"column:destination_url;not null" json:"destination_url"`

	// Higher priority sorts first; creation time breaks ties (newest first).
	Priority int    `gorm:"column:priority;not null;default:0;index" json:"priority"`
	Status   string `gorm:"column:status;not null;default:'pending';index" json:"status"`

	StartDate time.Time  `gorm:"column:start_date;not null;index" json:"start_date"`
	EndDate   *time.Time `gorm:"column:end_date;index" json:"end_date,omitempty"`

	// Running counters owned by the tracker. CTR is a two-decimal percentage
	// string ("5.00"); empty until the first recompute with impressions > 0.
	Impressions int64  `gorm:"column:impressions;not null;default:0" json:"impressions"`
	Clicks      int64  `gorm:"column:clicks;not null;default:0" json:"clicks"`
	CTR         string `gorm:"column:ctr" json:"ctr,omitempty"`

	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Ad) TableName() string { return "ad" }

// Runnable reports whether the ad's date window covers now. Status and soft
// deletion are filtered at the query level; this exists so cached pools can be
// re-checked against the clock before serving.
func (a *Ad) Runnable(now time.Time) bool {
	if a.StartDate.After(now) {
		return false
	}
	if a.EndDate != nil && a.EndDate.Before(now) {
		return false
	}
	return true
}
