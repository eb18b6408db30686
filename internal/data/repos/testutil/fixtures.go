package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/leap-pm/ads-service/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
func PtrTime(v time.Time) *time.Time { return &v }
func PtrInt(v int) *int              { return &v }
func PtrInt64(v int64) *int64        { return &v }
func PtrBool(v bool) *bool           { return &v }

func SeedAd(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, priority int) *types.Ad {
	tb.Helper()
	a := &types.Ad{
		ID:             uuid.New(),
		AdvertiserID:   uuid.New(),
		Title:          title,
		DestinationURL: "https://example.com/offer",
		Priority:       priority,
		Status:         types.AdStatusApproved,
		StartDate:      time.Now().UTC().Add(-24 * time.Hour),
		Metadata:       datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed ad: %v", err)
	}
	return a
}

func SeedPlacement(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, maxAds int) *types.AdPlacement {
	tb.Helper()
	p := &types.AdPlacement{
		ID:       uuid.New(),
		Code:     code,
		Name:     code,
		IsActive: true,
		MaxAds:   maxAds,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed placement: %v", err)
	}
	return p
}

func SeedRule(tb testing.TB, ctx context.Context, tx *gorm.DB, adID uuid.UUID, roles, interests string) *types.AdTargetingRule {
	tb.Helper()
	r := &types.AdTargetingRule{
		ID:   uuid.New(),
		AdID: adID,
	}
	if roles != "" {
		r.TargetUserRoles = datatypes.JSON([]byte(roles))
	}
	if interests != "" {
		r.TargetInterests = datatypes.JSON([]byte(interests))
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed targeting rule: %v", err)
	}
	return r
}

func SeedImpression(tb testing.TB, ctx context.Context, tx *gorm.DB, adID uuid.UUID, userID, placementID *uuid.UUID, at time.Time) *types.AdImpression {
	tb.Helper()
	imp := &types.AdImpression{
		ID:          uuid.New(),
		AdID:        adID,
		UserID:      userID,
		PlacementID: placementID,
		IPAddress:   "203.0.113.10",
		CreatedAt:   at,
	}
	if err := tx.WithContext(ctx).Create(imp).Error; err != nil {
		tb.Fatalf("seed impression: %v", err)
	}
	return imp
}

func SeedClick(tb testing.TB, ctx context.Context, tx *gorm.DB, adID uuid.UUID, userID *uuid.UUID, at time.Time) *types.AdClick {
	tb.Helper()
	c := &types.AdClick{
		ID:             uuid.New(),
		AdID:           adID,
		UserID:         userID,
		DestinationURL: "https://example.com/offer",
		IPAddress:      "203.0.113.10",
		CreatedAt:      at,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed click: %v", err)
	}
	return c
}
