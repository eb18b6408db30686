package ads

import (
	"context"

	"gorm.io/gorm"

	types "github.com/leap-pm/ads-service/internal/domain"
	"github.com/leap-pm/ads-service/internal/platform/logger"
)

type PlacementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, placements []*types.AdPlacement) ([]*types.AdPlacement, error)
	// GetByCode returns (nil, nil) when no placement carries the code. An
	// unknown code is not an error on the delivery path.
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.AdPlacement, error)
}

type placementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlacementRepo(db *gorm.DB, baseLog *logger.Logger) PlacementRepo {
	repoLog := baseLog.With("repo", "PlacementRepo")
	return &placementRepo{db: db, log: repoLog}
}

func (r *placementRepo) Create(ctx context.Context, tx *gorm.DB, placements []*types.AdPlacement) ([]*types.AdPlacement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(placements) == 0 {
		return []*types.AdPlacement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&placements).Error; err != nil {
		return nil, err
	}
	return placements, nil
}

func (r *placementRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.AdPlacement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AdPlacement
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
