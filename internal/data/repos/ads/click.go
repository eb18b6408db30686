package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type ClickRepo interface {
	Create(ctx context.Context, tx *gorm.DB, clicks []*types.AdClick) ([]*types.AdClick, error)
	CountByAd(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error)
}

type clickRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClickRepo(db *gorm.DB, baseLog *logger.Logger) ClickRepo {
	repoLog := baseLog.With("repo", "ClickRepo")
	return &clickRepo{db: db, log: repoLog}
}

func (r *clickRepo) Create(ctx context.Context, tx *gorm.DB, clicks []*types.AdClick) ([]*types.AdClick, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(clicks) == 0 {
		return []*types.AdClick{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&clicks).Error; err != nil {
		return nil, err
	}
	return clicks, nil
}

func (r *clickRepo) CountByAd(ctx context.Context, tx *gorm.DB, adID uuid.UUID, from, to time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AdClick{}).
		Where("ad_id = ?", adID).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
