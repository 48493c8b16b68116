// internal/repository/postgres/unavailable.go
package postgres

import (
	"context"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/dataset"
	"omnia-service/internal/domain/strategy"
	xerrors "omnia-service/internal/pkg/errors"
)

// The Unavailable* repositories stand in when DATABASE_URL is unset.
// Every call fails with ErrStoreUnavailable.

type UnavailableBusinessRepository struct{}

func (UnavailableBusinessRepository) Upsert(context.Context, *business.Business) error {
	return xerrors.ErrStoreUnavailable
}

func (UnavailableBusinessRepository) FindByID(context.Context, string) (*business.Business, error) {
	return nil, xerrors.ErrStoreUnavailable
}

func (UnavailableBusinessRepository) Delete(context.Context, string) error {
	return xerrors.ErrStoreUnavailable
}

func (UnavailableBusinessRepository) List(context.Context, *business.BusinessListFilters) ([]*business.Business, int64, error) {
	return nil, 0, xerrors.ErrStoreUnavailable
}

type UnavailableStrategyRepository struct{}

func (UnavailableStrategyRepository) Create(context.Context, *strategy.Record) error {
	return xerrors.ErrStoreUnavailable
}

func (UnavailableStrategyRepository) FindByID(context.Context, string) (*strategy.Record, error) {
	return nil, xerrors.ErrStoreUnavailable
}

func (UnavailableStrategyRepository) LatestByBusiness(context.Context, string) (*strategy.Record, error) {
	return nil, xerrors.ErrStoreUnavailable
}

type UnavailableDatasetRepository struct{}

func (UnavailableDatasetRepository) Create(context.Context, *dataset.Entry) error {
	return xerrors.ErrStoreUnavailable
}

func (UnavailableDatasetRepository) FindByID(context.Context, string) (*dataset.Entry, error) {
	return nil, xerrors.ErrStoreUnavailable
}

func (UnavailableDatasetRepository) UpdateOutcome(context.Context, string, *dataset.RealOutcome, dataset.Classification) error {
	return xerrors.ErrStoreUnavailable
}

func (UnavailableDatasetRepository) Delete(context.Context, string) error {
	return xerrors.ErrStoreUnavailable
}

func (UnavailableDatasetRepository) List(context.Context, *dataset.ListFilters) ([]*dataset.Entry, int64, error) {
	return nil, 0, xerrors.ErrStoreUnavailable
}

func (UnavailableDatasetRepository) All(context.Context) ([]*dataset.Entry, error) {
	return nil, xerrors.ErrStoreUnavailable
}
