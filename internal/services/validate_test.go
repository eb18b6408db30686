package services

import (
	"strings"
	"testing"
)

func newValidator(t *testing.T) TargetingService {
	t.Helper()
	return newTargetingFixture(t, nil, nil, nil)
}

func TestValidateTargetingRulesAccepts(t *testing.T) {
	svc := newValidator(t)

	res := svc.ValidateTargetingRules(map[string]any{
		"targetUserRoles":         []any{"user", "instructor"},
		"targetSubscriptionPlans": []any{float64(1), float64(2)},
		"targetAgeRange":          map[string]any{"min": float64(18), "max": float64(65)},
		"targetLocations":         []any{"US", "CA"},
		"targetInterests":         []any{"golang"},
		"targetBehavior": map[string]any{
			"enrolledCourses":      true,
			"activeInDays":         float64(7),
			"minCourseEnrollments": float64(2),
			"newUser":              false,
		},
	})
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("valid document rejected: %v", res.Errors)
	}
}

func TestValidateTargetingRulesEmptyIsValid(t *testing.T) {
	svc := newValidator(t)
	if res := svc.ValidateTargetingRules(nil); !res.Valid {
		t.Fatalf("empty document rejected: %v", res.Errors)
	}
	if res := svc.ValidateTargetingRules(map[string]any{}); !res.Valid {
		t.Fatalf("empty object rejected: %v", res.Errors)
	}
}

func TestValidateTargetingRulesLenient(t *testing.T) {
	svc := newValidator(t)

	// Unknown top-level fields pass through, behavior content is not
	// inspected beyond being an object, and plan ids are just numbers.
	res := svc.ValidateTargetingRules(map[string]any{
		"color":                   "blue",
		"targetBehavior":          map[string]any{"activeInDays": "soon", "futureFlag": true},
		"targetSubscriptionPlans": []any{float64(0), float64(1.5), float64(-3)},
	})
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("lenient document rejected: %v", res.Errors)
	}
}

func TestValidateTargetingRulesCollectsAll(t *testing.T) {
	svc := newValidator(t)

	res := svc.ValidateTargetingRules(map[string]any{
		"targetUserRoles": []any{"admin", "superadmin", "bogus"},
		"targetAgeRange":  map[string]any{"min": float64(40), "max": float64(18)},
		"targetLocations": "US",
	})
	if res.Valid {
		t.Fatal("invalid document accepted")
	}
	if len(res.Errors) != 3 {
		t.Fatalf("errors = %v, want 3 entries", res.Errors)
	}

	// Every invalid role lands in one combined message; valid ones do not.
	var roleErr string
	for _, e := range res.Errors {
		if strings.Contains(e, "targetUserRoles") {
			roleErr = e
		}
	}
	if roleErr == "" {
		t.Fatalf("errors missing a role message: %v", res.Errors)
	}
	_, listed, found := strings.Cut(roleErr, ": ")
	if !found || listed != "superadmin, bogus" {
		t.Fatalf("role message = %q, want the invalid roles listed once", roleErr)
	}

	joined := strings.Join(res.Errors, "; ")
	for _, want := range []string{"targetAgeRange.min", "targetLocations"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("errors missing %q: %v", want, res.Errors)
		}
	}
}

func TestValidateTargetingRulesTypes(t *testing.T) {
	svc := newValidator(t)

	cases := []struct {
		name  string
		input map[string]any
	}{
		{"roles not an array", map[string]any{"targetUserRoles": "user"}},
		{"roles with non-string", map[string]any{"targetUserRoles": []any{"user", float64(3)}}},
		{"plans not an array", map[string]any{"targetSubscriptionPlans": "premium"}},
		{"plans with non-number", map[string]any{"targetSubscriptionPlans": []any{float64(1), "two"}}},
		{"age range not object", map[string]any{"targetAgeRange": []any{float64(18)}}},
		{"age range negative min", map[string]any{"targetAgeRange": map[string]any{"min": float64(-1)}}},
		{"age range non-number max", map[string]any{"targetAgeRange": map[string]any{"max": "old"}}},
		{"behavior not object", map[string]any{"targetBehavior": "active"}},
		{"locations with non-string", map[string]any{"targetLocations": []any{"US", float64(1)}}},
		{"interests not an array", map[string]any{"targetInterests": "golang"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if res := svc.ValidateTargetingRules(tc.input); res.Valid {
				t.Fatal("invalid document accepted")
			}
		})
	}
}
