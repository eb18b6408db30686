package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type ImpressionRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, impressions []*types.AdImpression) error
	CountByAd(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error)
	CountDistinctUsers(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error)
	DailyCounts(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time, limit int) ([]*types.DailyImpressions, error)
	TopPlacements(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time, limit int) ([]*types.PlacementImpressions, error)
}

type impressionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImpressionRepo(db *gorm.DB, baseLog *logger.Logger) ImpressionRepo {
	repoLog := baseLog.With("repo", "ImpressionRepo")
	return &impressionRepo{db: db, log: repoLog}
}

func (r *impressionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, impressions []*types.AdImpression) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(impressions) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(&impressions).Error; err != nil {
		return err
	}
	return nil
}

func (r *impressionRepo) CountByAd(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AdImpression{}).
		Where("ad_id = ?", adID).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *impressionRepo) CountDistinctUsers(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AdImpression{}).
		Where("ad_id = ?", adID).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("user_id IS NOT NULL").
		Distinct("user_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DailyCounts buckets impressions by calendar day, newest day first. The day
// is cast to text so it scans into a plain string column.
func (r *impressionRepo) DailyCounts(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time, limit int) ([]*types.DailyImpressions, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyImpressions
	if err := transaction.WithContext(ctx).
		Model(&types.AdImpression{}).
		Select("CAST(DATE(created_at) AS TEXT) AS day, COUNT(*) AS count").
		Where("ad_id = ?", adID).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("DATE(created_at)").
		Order("day DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *impressionRepo) TopPlacements(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time, limit int) ([]*types.PlacementImpressions, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PlacementImpressions
	if err := transaction.WithContext(ctx).
		Model(&types.AdImpression{}).
		Select("placement_id, COUNT(*) AS count").
		Where("ad_id = ?", adID).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("placement_id IS NOT NULL").
		Group("placement_id").
		Order("count DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
