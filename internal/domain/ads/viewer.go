package ads

import "time"

// ViewerProfile is the request-scoped description of the person a placement
// is being rendered for. It is never persisted. Every field is optional; the
// evaluator treats absent fields per predicate (usually fail-closed), never
// as an error.
type ViewerProfile struct {
	Role               string     `json:"role,omitempty"`
	SubscriptionPlanID *int64     `json:"subscription_plan_id,omitempty"`
	Age                *int       `json:"age,omitempty"`
	Location           string     `json:"location,omitempty"`
	Interests          []string   `json:"interests,omitempty"`
	EnrolledCourseIDs  []string   `json:"enrolled_course_ids,omitempty"`
	LastActiveAt       *time.Time `json:"last_active_at,omitempty"`
}
