package ads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/leap-pm/ads-service/internal/data/repos/testutil"
	types "github.com/leap-pm/ads-service/internal/domain"
)

func TestImpressionRepoCreateBatchAndCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewImpressionRepo(db, testutil.Logger(t))

	ad := testutil.SeedAd(t, ctx, tx, "counted", 1)
	now := time.Now().UTC().Truncate(time.Second)
	user := uuid.New()

	batch := []*types.AdImpression{
		{ID: uuid.New(), AdID: ad.ID, UserID: &user, CreatedAt: now},
		{ID: uuid.New(), AdID: ad.ID, UserID: &user, CreatedAt: now.Add(-time.Minute)},
		{ID: uuid.New(), AdID: ad.ID, CreatedAt: now.Add(-2 * time.Minute)},
	}
	if err := repo.CreateBatch(ctx, tx, batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := repo.CreateBatch(ctx, tx, nil); err != nil {
		t.Fatalf("CreateBatch empty: %v", err)
	}

	// Outside the queried window.
	testutil.SeedImpression(t, ctx, tx, ad.ID, &user, nil, now.Add(-48*time.Hour))

	from := now.Add(-time.Hour)
	count, err := repo.CountByAd(ctx, tx, ad.ID, from, now)
	if err != nil {
		t.Fatalf("CountByAd: %v", err)
	}
	if count != 3 {
		t.Fatalf("CountByAd = %d, want 3", count)
	}

	distinct, err := repo.CountDistinctUsers(ctx, tx, ad.ID, from, now)
	if err != nil {
		t.Fatalf("CountDistinctUsers: %v", err)
	}
	if distinct != 1 {
		t.Fatalf("CountDistinctUsers = %d, want 1", distinct)
	}
}

func TestImpressionRepoDailyCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewImpressionRepo(db, testutil.Logger(t))

	ad := testutil.SeedAd(t, ctx, tx, "daily", 1)
	day := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	testutil.SeedImpression(t, ctx, tx, ad.ID, nil, nil, day)
	testutil.SeedImpression(t, ctx, tx, ad.ID, nil, nil, day.Add(time.Hour))
	testutil.SeedImpression(t, ctx, tx, ad.ID, nil, nil, day.Add(-24*time.Hour))

	rows, err := repo.DailyCounts(ctx, tx, ad.ID, day.Add(-72*time.Hour), day.Add(12*time.Hour), 30)
	if err != nil {
		t.Fatalf("DailyCounts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("DailyCounts len = %d, want 2", len(rows))
	}
	if rows[0].Day != "2026-08-20" || rows[0].Count != 2 {
		t.Fatalf("newest bucket = %s/%d, want 2026-08-20/2", rows[0].Day, rows[0].Count)
	}
	if rows[1].Day != "2026-08-19" || rows[1].Count != 1 {
		t.Fatalf("older bucket = %s/%d, want 2026-08-19/1", rows[1].Day, rows[1].Count)
	}
}

func TestImpressionRepoTopPlacements(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewImpressionRepo(db, testutil.Logger(t))

	ad := testutil.SeedAd(t, ctx, tx, "placed", 1)
	banner := testutil.SeedPlacement(t, ctx, tx, "home_banner_top", 3)
	sidebar := testutil.SeedPlacement(t, ctx, tx, "course_sidebar_top", 2)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		testutil.SeedImpression(t, ctx, tx, ad.ID, nil, &banner.ID, now.Add(-time.Duration(i)*time.Minute))
	}
	testutil.SeedImpression(t, ctx, tx, ad.ID, nil, &sidebar.ID, now)
	testutil.SeedImpression(t, ctx, tx, ad.ID, nil, nil, now)

	rows, err := repo.TopPlacements(ctx, tx, ad.ID, now.Add(-time.Hour), now, 10)
	if err != nil {
		t.Fatalf("TopPlacements: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("TopPlacements len = %d, want 2", len(rows))
	}
	if rows[0].PlacementID != banner.ID || rows[0].Count != 3 {
		t.Fatalf("top placement = %s/%d, want banner/3", rows[0].PlacementID, rows[0].Count)
	}
}

func TestClickRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewClickRepo(db, testutil.Logger(t))

	ad := testutil.SeedAd(t, ctx, tx, "clicked", 1)
	now := time.Now().UTC()

	c := &types.AdClick{
		ID:             uuid.New(),
		AdID:           ad.ID,
		DestinationURL: "https://example.com/offer",
		CreatedAt:      now,
	}
	if _, err := repo.Create(ctx, tx, []*types.AdClick{c}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedClick(t, ctx, tx, ad.ID, nil, now.Add(-48*time.Hour))

	count, err := repo.CountByAd(ctx, tx, ad.ID, now.Add(-time.Hour), now)
	if err != nil {
		t.Fatalf("CountByAd: %v", err)
	}
	if count != 1 {
		t.Fatalf("CountByAd = %d, want 1", count)
	}
}
