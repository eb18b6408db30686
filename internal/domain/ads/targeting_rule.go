package ads

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ValidUserRoles are the platform roles a rule may target.
var ValidUserRoles = []string{"admin", "instructor", "user", "recruiter"}

// AdTargetingRule is the optional 1:1 companion row of an Ad. Each column is
// an independent optional predicate; a missing row, or a row whose every
// field is empty, means the ad is untargeted and matches everyone.
type AdTargetingRule struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AdID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"ad_id"`

	TargetUserRoles         datatypes.JSON `gorm:"column:target_user_roles;type:jsonb" json:"target_user_roles,omitempty"`
	TargetSubscriptionPlans datatypes.JSON `gorm:"column:target_subscription_plans;type:jsonb" json:"target_subscription_plans,omitempty"`
	TargetAgeRange          datatypes.JSON `gorm:"column:target_age_range;type:jsonb" json:"target_age_range,omitempty"`
	TargetLocations         datatypes.JSON `gorm:"column:target_locations;type:jsonb" json:"target_locations,omitempty"`
	TargetInterests         datatypes.JSON `gorm:"column:target_interests;type:jsonb" json:"target_interests,omitempty"`
	TargetBehavior          datatypes.JSON `gorm:"column:target_behavior;type:jsonb" json:"target_behavior,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AdTargetingRule) TableName() string { return "ad_targeting_rule" }

// TargetingRule is the decoded, evaluator-facing form of an AdTargetingRule.
type TargetingRule struct {
	UserRoles         []string
	SubscriptionPlans []int64
	AgeRange          *AgeRange
	Locations         []string
	Interests         []string
	Behavior          *BehaviorRule
}

type AgeRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// BehaviorRule sub-fields are enforced only when present. NewUser is stored
// and validated but not evaluated anywhere; the evaluator ignores it.
type BehaviorRule struct {
	EnrolledCourses      *bool `json:"enrolledCourses,omitempty"`
	ActiveInDays         *int  `json:"activeInDays,omitempty"`
	MinCourseEnrollments *int  `json:"minCourseEnrollments,omitempty"`
	NewUser              *bool `json:"newUser,omitempty"`
}

// Decode unmarshals the JSON predicate columns. Malformed or null columns
// decode to an absent predicate rather than failing the whole rule.
func (r *AdTargetingRule) Decode() TargetingRule {
	var out TargetingRule
	if r == nil {
		return out
	}
	decodeJSON(r.TargetUserRoles, &out.UserRoles)
	decodeJSON(r.TargetSubscriptionPlans, &out.SubscriptionPlans)
	decodeJSON(r.TargetLocations, &out.Locations)
	decodeJSON(r.TargetInterests, &out.Interests)

	var ar AgeRange
	if decodeJSON(r.TargetAgeRange, &ar) && (ar.Min != nil || ar.Max != nil) {
		out.AgeRange = &ar
	}
	var b BehaviorRule
	if decodeJSON(r.TargetBehavior, &b) && !b.empty() {
		out.Behavior = &b
	}
	return out
}

func decodeJSON(raw datatypes.JSON, dst interface{}) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (b *BehaviorRule) empty() bool {
	if b == nil {
		return true
	}
	return b.EnrolledCourses == nil && b.ActiveInDays == nil && b.MinCourseEnrollments == nil && b.NewUser == nil
}

// Empty reports whether no predicate is present at all, which makes the ad
// untargeted.
func (r TargetingRule) Empty() bool {
	return len(r.UserRoles) == 0 &&
		len(r.SubscriptionPlans) == 0 &&
		r.AgeRange == nil &&
		len(r.Locations) == 0 &&
		len(r.Interests) == 0 &&
		r.Behavior == nil
}

// RuleValidation is the collect-all result of structural rule validation.
type RuleValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
