package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"droscher.com/BeerLog/pkg/model"
)

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64

	result := r.DB.WithContext(ctx).Model(&model.Beer{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (r *Repository) Append(ctx context.Context, beer model.Beer) error {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&beer)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.Logger.Warn("rejected duplicate beer", zap.String("id", beer.ID))

		return fmt.Errorf("%w: %q", ErrDuplicateIdentifier, beer.ID)
	}

	return nil
}

func (r *Repository) ReadAll(ctx context.Context) ([]model.Beer, error) {
	var beers []model.Beer

	if result := r.DB.WithContext(ctx).Order("created_at").Find(&beers); result.Error != nil {
		return nil, result.Error
	}

	return beers, nil
}

func (r *Repository) ListSortedByDateDescending(ctx context.Context) ([]model.Beer, error) {
	return sortedByDateDescending(r.ReadAll(ctx))
}

// Import appends every beer that is not stored yet and reports how many were added and skipped.
func (r *Repository) Import(ctx context.Context, beers []model.Beer) (int, int, error) {
	added, skipped := 0, 0

	for _, beer := range beers {
		err := r.Append(ctx, beer)

		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrDuplicateIdentifier):
			skipped++
		default:
			return added, skipped, err
		}
	}

	r.Logger.Info("imported beers", zap.Int("added", added), zap.Int("skipped", skipped))

	return added, skipped, nil
}
