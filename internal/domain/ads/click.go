package ads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AdClick rows are written synchronously, never buffered. ImpressionID is an
// informational back-reference with no foreign-key ownership.
type AdClick struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AdID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_ad_click_ad_created" json:"ad_id"`
	ImpressionID *uuid.UUID `gorm:"type:uuid" json:"impression_id,omitempty"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SessionID    *uuid.UUID `gorm:"type:uuid" json:"session_id,omitempty"`

	Referrer       string         `gorm:"column:referrer" json:"referrer,omitempty"`
	DestinationURL string         `gorm:"column:destination_url;not null" json:"destination_url"`
	IPAddress      string         `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent      string         `gorm:"column:user_agent" json:"user_agent,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_ad_click_ad_created" json:"created_at"`
}

func (AdClick) TableName() string { return "ad_click" }
