package ads

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type TargetingRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rules []*types.AdTargetingRule) ([]*types.AdTargetingRule, error)
	GetByAdIDs(ctx context.Context, tx *gorm.DB, adIDs []uuid.UUID) ([]*types.AdTargetingRule, error)
}

type targetingRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTargetingRuleRepo(db *gorm.DB, baseLog *logger.Logger) TargetingRuleRepo {
	repoLog := baseLog.With("repo", "TargetingRuleRepo")
	return &targetingRuleRepo{db: db, log: repoLog}
}

func (r *targetingRuleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.AdTargetingRule) ([]*types.AdTargetingRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rules) == 0 {
		return []*types.AdTargetingRule{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *targetingRuleRepo) GetByAdIDs(ctx context.Context, tx *gorm.DB, adIDs []uuid.UUID) ([]*types.AdTargetingRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AdTargetingRule
	if len(adIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("ad_id IN ?", adIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
