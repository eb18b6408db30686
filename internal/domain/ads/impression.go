package ads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AdImpression rows are buffered in the tracker and written in batches.
type AdImpression struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AdID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_ad_impression_ad_created" json:"ad_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SessionID   *uuid.UUID `gorm:"type:uuid" json:"session_id,omitempty"`
	PlacementID *uuid.UUID `gorm:"type:uuid;index" json:"placement_id,omitempty"`

	IPAddress string         `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent string         `gorm:"column:user_agent" json:"user_agent,omitempty"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_ad_impression_ad_created" json:"created_at"`
}

func (AdImpression) TableName() string { return "ad_impression" }
