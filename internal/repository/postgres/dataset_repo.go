// internal/repository/postgres/dataset_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"omnia-service/internal/domain/dataset"
	xerrors "omnia-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DatasetRepository struct {
	db *pgxpool.Pool
}

func NewDatasetRepository(db *pgxpool.Pool) *DatasetRepository {
	return &DatasetRepository{db: db}
}

const datasetColumns = `
	id, date, COALESCE(business_id, ''), COALESCE(strategy_id, ''),
	business_profile, summary, key_actions, real_outcome,
	classification, created_at
`

func (r *DatasetRepository) Create(ctx context.Context, e *dataset.Entry) error {
	profileJSON, err := json.Marshal(e.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile snapshot: %w", err)
	}
	outcomeJSON, err := marshalOutcome(e.Outcome)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO dataset_entries (
			id, date, business_id, strategy_id, business_profile,
			summary, key_actions, real_outcome, classification, created_at
		) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query,
		e.ID, e.Date, e.BusinessID, e.StrategyID, profileJSON,
		e.Strategy.Summary, e.Strategy.KeyActions, outcomeJSON, e.Classification,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dataset entry: %w", err)
	}
	return nil
}

func (r *DatasetRepository) FindByID(ctx context.Context, id string) (*dataset.Entry, error) {
	query := `SELECT ` + datasetColumns + ` FROM dataset_entries WHERE id = $1`
	e, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find dataset entry: %w", err)
	}
	return e, nil
}

func (r *DatasetRepository) UpdateOutcome(ctx context.Context, id string, outcome *dataset.RealOutcome, class dataset.Classification) error {
	outcomeJSON, err := marshalOutcome(outcome)
	if err != nil {
		return err
	}
	result, err := r.db.Exec(ctx,
		`UPDATE dataset_entries SET real_outcome = $1, classification = $2 WHERE id = $3`,
		outcomeJSON, class, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update dataset outcome: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM dataset_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// List returns entries newest first.
func (r *DatasetRepository) List(ctx context.Context, filters *dataset.ListFilters) ([]*dataset.Entry, int64, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filters.Classification != nil {
		conditions = append(conditions, fmt.Sprintf("classification = $%d", argPos))
		args = append(args, *filters.Classification)
		argPos++
	}
	if filters.BusinessID != "" {
		conditions = append(conditions, fmt.Sprintf("business_id = $%d", argPos))
		args = append(args, filters.BusinessID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM dataset_entries %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count dataset entries: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 50
	}
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM dataset_entries %s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		datasetColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	entries, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// All returns every entry newest first, for export.
func (r *DatasetRepository) All(ctx context.Context) ([]*dataset.Entry, error) {
	return r.query(ctx, `SELECT `+datasetColumns+` FROM dataset_entries ORDER BY date DESC`)
}

func (r *DatasetRepository) query(ctx context.Context, query string, args ...interface{}) ([]*dataset.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset entries: %w", err)
	}
	defer rows.Close()

	entries := []*dataset.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dataset entries: %w", err)
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*dataset.Entry, error) {
	var e dataset.Entry
	var profileJSON, outcomeJSON []byte
	if err := row.Scan(
		&e.ID, &e.Date, &e.BusinessID, &e.StrategyID, &profileJSON,
		&e.Strategy.Summary, &e.Strategy.KeyActions, &outcomeJSON,
		&e.Classification, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &e.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile snapshot: %w", err)
	}
	if len(outcomeJSON) > 0 {
		var o dataset.RealOutcome
		if err := json.Unmarshal(outcomeJSON, &o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outcome: %w", err)
		}
		e.Outcome = &o
	}
	return &e, nil
}

func marshalOutcome(o *dataset.RealOutcome) ([]byte, error) {
	if o == nil {
		return nil, nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outcome: %w", err)
	}
	return b, nil
}
