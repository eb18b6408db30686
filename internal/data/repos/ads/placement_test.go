package ads

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/leap-pm/ads-service/internal/data/repos/testutil"
)

func TestPlacementRepoGetByCode(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewPlacementRepo(db, testutil.Logger(t))

	p := testutil.SeedPlacement(t, ctx, tx, "home_banner", 3)

	got, err := repo.GetByCode(ctx, tx, "home_banner")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got == nil || got.ID != p.ID {
		t.Fatalf("GetByCode = %+v, want id %s", got, p.ID)
	}

	missing, err := repo.GetByCode(ctx, tx, "no_such_slot")
	if err != nil {
		t.Fatalf("GetByCode miss: %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByCode miss = %+v, want nil", missing)
	}
}

func TestTargetingRuleRepoGetByAdIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTargetingRuleRepo(db, testutil.Logger(t))

	a := testutil.SeedAd(t, ctx, tx, "targeted", 1)
	b := testutil.SeedAd(t, ctx, tx, "untargeted", 1)
	r := testutil.SeedRule(t, ctx, tx, a.ID, `["instructor"]`, `["golang"]`)

	rows, err := repo.GetByAdIDs(ctx, tx, []uuid.UUID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("GetByAdIDs: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != r.ID {
		t.Fatalf("GetByAdIDs len=%d", len(rows))
	}

	decoded := rows[0].Decode()
	if len(decoded.UserRoles) != 1 || decoded.UserRoles[0] != "instructor" {
		t.Fatalf("decoded roles = %v", decoded.UserRoles)
	}
	if len(decoded.Interests) != 1 || decoded.Interests[0] != "golang" {
		t.Fatalf("decoded interests = %v", decoded.Interests)
	}

	if rows, err := repo.GetByAdIDs(ctx, tx, nil); err != nil || len(rows) != 0 {
		t.Fatalf("GetByAdIDs empty input: err=%v len=%d", err, len(rows))
	}
}
