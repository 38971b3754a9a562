package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/model"
)

var (
	ErrDuplicateIdentifier = errors.New("a beer with this identifier already exists")
	ErrCorruptRecord       = errors.New("corrupt record")
)

type BeerRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Append(ctx context.Context, beer model.Beer) error
	ReadAll(ctx context.Context) ([]model.Beer, error)
	ListSortedByDateDescending(ctx context.Context) ([]model.Beer, error)
}

// New opens the backend selected by Store.Backend. The returned closer releases its resources.
func New(conf *configs.Config, logger *zap.Logger) (BeerRepository, func(), error) {
	switch conf.Store.Backend {
	case configs.BackendFile:
		repo, err := NewFileRepository(conf, logger)
		if err != nil {
			return nil, nil, err
		}

		return repo, func() {}, nil
	case configs.BackendPostgres:
		repo, err := Open(conf, logger)
		if err != nil {
			return nil, nil, err
		}

		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store backend %q", configs.ErrConfiguration, conf.Store.Backend)
	}
}

func sortedByDateDescending(beers []model.Beer, err error) ([]model.Beer, error) {
	if err != nil {
		return nil, err
	}

	model.SortBy(beers, model.SortByDate)

	return beers, nil
}
