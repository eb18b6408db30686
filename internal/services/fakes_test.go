package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/leap-pm/ads-service/internal/domain"
)

type fakeAdRepo struct {
	mu  sync.Mutex
	ads []*types.Ad
}

func (r *fakeAdRepo) Create(ctx context.Context, tx *gorm.DB, ads []*types.Ad) ([]*types.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ads = append(r.ads, ads...)
	return ads, nil
}

func (r *fakeAdRepo) GetByID(ctx context.Context, tx *gorm.DB, adID uuid.UUID) (*types.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.ID == adID {
			cp := *ad
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdRepo) GetByIDs(ctx context.Context, tx *gorm.DB, adIDs []uuid.UUID) ([]*types.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Ad
	for _, ad := range r.ads {
		for _, id := range adIDs {
			if ad.ID == id {
				cp := *ad
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *fakeAdRepo) ListServable(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Ad
	for _, ad := range r.ads {
		if ad.Status != types.AdStatusApproved || !ad.Runnable(now) {
			continue
		}
		cp := *ad
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeAdRepo) IncrementImpressions(ctx context.Context, tx *gorm.DB, adID uuid.UUID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.ID == adID {
			ad.Impressions += delta
			return nil
		}
	}
	return nil
}

func (r *fakeAdRepo) IncrementClicks(ctx context.Context, tx *gorm.DB, adID uuid.UUID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.ID == adID {
			ad.Clicks += delta
			return nil
		}
	}
	return nil
}

func (r *fakeAdRepo) UpdateCTR(ctx context.Context, tx *gorm.DB, adID uuid.UUID, ctr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.ID == adID {
			ad.CTR = ctr
			return nil
		}
	}
	return nil
}

func (r *fakeAdRepo) get(adID uuid.UUID) *types.Ad {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ad := range r.ads {
		if ad.ID == adID {
			return ad
		}
	}
	return nil
}

type fakeRuleRepo struct {
	rules []*types.AdTargetingRule
}

func (r *fakeRuleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.AdTargetingRule) ([]*types.AdTargetingRule, error) {
	r.rules = append(r.rules, rules...)
	return rules, nil
}

func (r *fakeRuleRepo) GetByAdIDs(ctx context.Context, tx *gorm.DB, adIDs []uuid.UUID) ([]*types.AdTargetingRule, error) {
	var out []*types.AdTargetingRule
	for _, rule := range r.rules {
		for _, id := range adIDs {
			if rule.AdID == id {
				out = append(out, rule)
			}
		}
	}
	return out, nil
}

type fakePlacementRepo struct {
	placements []*types.AdPlacement
}

func (r *fakePlacementRepo) Create(ctx context.Context, tx *gorm.DB, placements []*types.AdPlacement) ([]*types.AdPlacement, error) {
	r.placements = append(r.placements, placements...)
	return placements, nil
}

func (r *fakePlacementRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.AdPlacement, error) {
	for _, p := range r.placements {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

type fakeImpressionRepo struct {
	mu       sync.Mutex
	rows     []*types.AdImpression
	failnext int
	batches  [][]*types.AdImpression
}

func (r *fakeImpressionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, impressions []*types.AdImpression) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(impressions) == 0 {
		return nil
	}
	if r.failnext > 0 {
		r.failnext--
		return fmt.Errorf("simulated insert failure")
	}
	r.rows = append(r.rows, impressions...)
	batch := make([]*types.AdImpression, len(impressions))
	copy(batch, impressions)
	r.batches = append(r.batches, batch)
	return nil
}

func (r *fakeImpressionRepo) CountByAd(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.AdID == adID && inWindow(row.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func (r *fakeImpressionRepo) CountDistinctUsers(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[uuid.UUID]struct{}{}
	for _, row := range r.rows {
		if row.AdID == adID && row.UserID != nil && inWindow(row.CreatedAt, from, to) {
			seen[*row.UserID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeImpressionRepo) DailyCounts(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time, limit int) ([]*types.DailyImpressions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	perDay := map[string]int64{}
	for _, row := range r.rows {
		if row.AdID == adID && inWindow(row.CreatedAt, from, to) {
			perDay[row.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	var out []*types.DailyImpressions
	for day, count := range perDay {
		out = append(out, &types.DailyImpressions{Day: day, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeImpressionRepo) TopPlacements(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time, limit int) ([]*types.PlacementImpressions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	perPlacement := map[uuid.UUID]int64{}
	for _, row := range r.rows {
		if row.AdID == adID && row.PlacementID != nil && inWindow(row.CreatedAt, from, to) {
			perPlacement[*row.PlacementID]++
		}
	}
	var out []*types.PlacementImpressions
	for id, count := range perPlacement {
		out = append(out, &types.PlacementImpressions{PlacementID: id, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeImpressionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeClickRepo struct {
	mu   sync.Mutex
	rows []*types.AdClick
}

func (r *fakeClickRepo) Create(ctx context.Context, tx *gorm.DB, clicks []*types.AdClick) ([]*types.AdClick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, clicks...)
	return clicks, nil
}

func (r *fakeClickRepo) CountByAd(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.AdID == adID && inWindow(row.CreatedAt, from, to) {
			n++
		}
	}
	return n, nil
}

func inWindow(at, from, to time.Time) bool {
	return !at.Before(from) && !at.After(to)
}
