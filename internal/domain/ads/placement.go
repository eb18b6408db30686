package ads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdPlacement is a named slot in the platform UI ("home_banner",
// "course_sidebar", ...). MaxAds caps how many ads a single request for the
// slot may receive regardless of the caller's limit.
type AdPlacement struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code     string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name     string    `gorm:"column:name;not null" json:"name"`
	IsActive bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	MaxAds   int       `gorm:"column:max_ads;not null;default:3" json:"max_ads"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AdPlacement) TableName() string { return "ad_placement" }
