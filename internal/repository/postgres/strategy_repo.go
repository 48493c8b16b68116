// internal/repository/postgres/strategy_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"omnia-service/internal/domain/strategy"
	xerrors "omnia-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StrategyRepository struct {
	db *pgxpool.Pool
}

func NewStrategyRepository(db *pgxpool.Pool) *StrategyRepository {
	return &StrategyRepository{db: db}
}

func (r *StrategyRepository) Create(ctx context.Context, rec *strategy.Record) error {
	strategyJSON, err := json.Marshal(rec.Strategy)
	if err != nil {
		return fmt.Errorf("failed to marshal strategy: %w", err)
	}
	var planJSON []byte
	if rec.MarketingPlan != nil {
		if planJSON, err = json.Marshal(rec.MarketingPlan); err != nil {
			return fmt.Errorf("failed to marshal marketing plan: %w", err)
		}
	}

	query := `
		INSERT INTO strategies (
			id, business_id, business_name, business_type, source,
			strategy_data, marketing_plan, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query,
		rec.ID, rec.BusinessID, rec.BusinessName, rec.BusinessType, rec.Source,
		strategyJSON, planJSON,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}
	return nil
}

func (r *StrategyRepository) FindByID(ctx context.Context, id string) (*strategy.Record, error) {
	query := `
		SELECT id, business_id, business_name, business_type, source,
		       strategy_data, marketing_plan, created_at
		FROM strategies
		WHERE id = $1
	`
	rec, err := scanStrategy(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find strategy: %w", err)
	}
	return rec, nil
}

func (r *StrategyRepository) LatestByBusiness(ctx context.Context, businessID string) (*strategy.Record, error) {
	query := `
		SELECT id, business_id, business_name, business_type, source,
		       strategy_data, marketing_plan, created_at
		FROM strategies
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	rec, err := scanStrategy(r.db.QueryRow(ctx, query, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest strategy: %w", err)
	}
	return rec, nil
}

func scanStrategy(row pgx.Row) (*strategy.Record, error) {
	var rec strategy.Record
	var strategyJSON, planJSON []byte
	if err := row.Scan(
		&rec.ID, &rec.BusinessID, &rec.BusinessName, &rec.BusinessType, &rec.Source,
		&strategyJSON, &planJSON, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(strategyJSON, &rec.Strategy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal strategy: %w", err)
	}
	if len(planJSON) > 0 {
		var plan strategy.MarketingPlan
		if err := json.Unmarshal(planJSON, &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal marketing plan: %w", err)
		}
		rec.MarketingPlan = &plan
	}
	return &rec, nil
}
