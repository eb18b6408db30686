package services

import (
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/leap-pm/ads-service/internal/domain"
)

// ValidateTargetingRules structurally checks a loosely-typed rule document
// before it is persisted by the management workflow. All problems are
// collected, not just the first one. Fields the validator does not know pass
// through untouched, and an empty document is valid: it simply describes an
// untargeted ad.
func (s *targetingService) ValidateTargetingRules(input map[string]any) types.RuleValidation {
	var errs []string

	if raw, ok := input["targetUserRoles"]; ok {
		roles, ok := stringSlice(raw)
		if !ok {
			errs = append(errs, "targetUserRoles must be an array of strings")
		} else if bad := invalidRoles(roles); len(bad) > 0 {
			errs = append(errs, fmt.Sprintf("targetUserRoles contains invalid roles: %s", strings.Join(bad, ", ")))
		}
	}
	if raw, ok := input["targetSubscriptionPlans"]; ok {
		if !numberSlice(raw) {
			errs = append(errs, "targetSubscriptionPlans must be an array of numbers")
		}
	}
	if raw, ok := input["targetAgeRange"]; ok {
		errs = append(errs, validateAgeRange(raw)...)
	}
	if raw, ok := input["targetLocations"]; ok {
		if _, ok := stringSlice(raw); !ok {
			errs = append(errs, "targetLocations must be an array of strings")
		}
	}
	if raw, ok := input["targetInterests"]; ok {
		if _, ok := stringSlice(raw); !ok {
			errs = append(errs, "targetInterests must be an array of strings")
		}
	}
	if raw, ok := input["targetBehavior"]; ok {
		// Behavior content is only shape-checked here; the evaluator is
		// tolerant of whatever keys the document carries.
		if _, ok := raw.(map[string]any); !ok {
			errs = append(errs, "targetBehavior must be an object")
		}
	}

	return types.RuleValidation{Valid: len(errs) == 0, Errors: errs}
}

func invalidRoles(roles []string) []string {
	var bad []string
	for _, role := range roles {
		if !containsString(types.ValidUserRoles, role) {
			bad = append(bad, role)
		}
	}
	return bad
}

func validateAgeRange(raw any) []string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return []string{"targetAgeRange must be an object with min and/or max"}
	}

	var errs []string
	bound := func(key string) *float64 {
		v, ok := obj[key]
		if !ok {
			return nil
		}
		n, ok := numberValue(v)
		if !ok || n < 0 {
			errs = append(errs, fmt.Sprintf("targetAgeRange.%s must be a non-negative number", key))
			return nil
		}
		return &n
	}
	minAge := bound("min")
	maxAge := bound("max")
	if minAge != nil && maxAge != nil && *minAge > *maxAge {
		errs = append(errs, "targetAgeRange.min cannot exceed targetAgeRange.max")
	}
	return errs
}

func stringSlice(raw any) ([]string, bool) {
	items, ok := raw.([]any)
	if !ok {
		if typed, ok := raw.([]string); ok {
			return typed, true
		}
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func numberSlice(raw any) bool {
	items, ok := raw.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if _, ok := numberValue(item); !ok {
			return false
		}
	}
	return true
}

// numberValue accepts the number shapes a decoded JSON document can carry.
func numberValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
