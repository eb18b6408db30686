package ads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/leap-pm/ads-service/internal/data/repos/testutil"
	types "github.com/leap-pm/ads-service/internal/domain"
)

func TestAdRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAdRepo(db, testutil.Logger(t))

	a := &types.Ad{
		ID:             uuid.New(),
		AdvertiserID:   uuid.New(),
		Title:          "spring sale",
		DestinationURL: "https://example.com/sale",
		Priority:       5,
		Status:         types.AdStatusApproved,
		StartDate:      time.Now().UTC().Add(-time.Hour),
		Metadata:       datatypes.JSON([]byte("{}")),
	}
	if _, err := repo.Create(ctx, tx, []*types.Ad{a}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "spring sale" {
		t.Fatalf("GetByID title = %q", got.Title)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{a.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	if err := repo.IncrementImpressions(ctx, tx, a.ID, 10); err != nil {
		t.Fatalf("IncrementImpressions: %v", err)
	}
	if err := repo.IncrementClicks(ctx, tx, a.ID, 2); err != nil {
		t.Fatalf("IncrementClicks: %v", err)
	}
	if err := repo.UpdateCTR(ctx, tx, a.ID, "20.00"); err != nil {
		t.Fatalf("UpdateCTR: %v", err)
	}

	got, err = repo.GetByID(ctx, tx, a.ID)
	if err != nil {
		t.Fatalf("GetByID after counters: %v", err)
	}
	if got.Impressions != 10 || got.Clicks != 2 || got.CTR != "20.00" {
		t.Fatalf("counters = %d/%d ctr=%q", got.Impressions, got.Clicks, got.CTR)
	}
}

func TestAdRepoListServable(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAdRepo(db, testutil.Logger(t))
	now := time.Now().UTC()

	low := testutil.SeedAd(t, ctx, tx, "low priority", 1)
	high := testutil.SeedAd(t, ctx, tx, "high priority", 9)

	// Outside the date window or not approved: never served.
	future := testutil.SeedAd(t, ctx, tx, "not started", 9)
	if err := tx.WithContext(ctx).Model(future).UpdateColumn("start_date", now.Add(48*time.Hour)).Error; err != nil {
		t.Fatalf("move start_date: %v", err)
	}
	ended := testutil.SeedAd(t, ctx, tx, "ended", 9)
	if err := tx.WithContext(ctx).Model(ended).UpdateColumn("end_date", now.Add(-time.Hour)).Error; err != nil {
		t.Fatalf("move end_date: %v", err)
	}
	pending := testutil.SeedAd(t, ctx, tx, "pending", 9)
	if err := tx.WithContext(ctx).Model(pending).UpdateColumn("status", "pending").Error; err != nil {
		t.Fatalf("downgrade status: %v", err)
	}

	rows, err := repo.ListServable(ctx, tx, now)
	if err != nil {
		t.Fatalf("ListServable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListServable len = %d, want 2", len(rows))
	}
	if rows[0].ID != high.ID || rows[1].ID != low.ID {
		t.Fatalf("ListServable order = [%s %s], want high before low", rows[0].Title, rows[1].Title)
	}
}
