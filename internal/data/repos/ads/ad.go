package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type AdRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ads []*types.Ad) ([]*types.Ad, error)
	GetByID(ctx context.Context, tx *gorm.DB, adID uuid.UUID) (*types.Ad, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, adIDs []uuid.UUID) ([]*types.Ad, error)
	ListServable(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Ad, error)
	IncrementImpressions(ctx context.Context, tx *gorm.DB, adID uuid.UUID, delta int64) error
	IncrementClicks(ctx context.Context, tx *gorm.DB, adID uuid.UUID, delta int64) error
	UpdateCTR(ctx context.Context, tx *gorm.DB, adID uuid.UUID, ctr string) error
}

type adRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdRepo(db *gorm.DB, baseLog *logger.Logger) AdRepo {
	repoLog := baseLog.With("repo", "AdRepo")
	return &adRepo{db: db, log: repoLog}
}

func (r *adRepo) Create(ctx context.Context, tx *gorm.DB, ads []*types.Ad) ([]*types.Ad, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ads) == 0 {
		return []*types.Ad{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *adRepo) GetByID(ctx context.Context, tx *gorm.DB, adID uuid.UUID) (*types.Ad, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Ad
	if err := transaction.WithContext(ctx).
		Where("id = ?", adID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *adRepo) GetByIDs(ctx context.Context, tx *gorm.DB, adIDs []uuid.UUID) ([]*types.Ad, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Ad
	if len(adIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", adIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListServable returns approved ads whose date window covers now, highest
// priority first with newest creation breaking ties.
func (r *adRepo) ListServable(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Ad, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Ad
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.AdStatusApproved).
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("priority DESC, created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *adRepo) IncrementImpressions(ctx context.Context, tx *gorm.DB, adID uuid.UUID, delta int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if delta <= 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Ad{}).
		Where("id = ?", adID).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", delta)).Error; err != nil {
		return err
	}
	return nil
}

func (r *adRepo) IncrementClicks(ctx context.Context, tx *gorm.DB, adID uuid.UUID, delta int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if delta <= 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Ad{}).
		Where("id = ?", adID).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", delta)).Error; err != nil {
		return err
	}
	return nil
}

func (r *adRepo) UpdateCTR(ctx context.Context, tx *gorm.DB, adID uuid.UUID, ctr string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Ad{}).
		Where("id = ?", adID).
		UpdateColumn("ctr", ctr).Error; err != nil {
		return err
	}
	return nil
}
