// internal/repository/postgres/business_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"omnia-service/internal/domain/business"
	xerrors "omnia-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BusinessRepository struct {
	db *pgxpool.Pool
}

func NewBusinessRepository(db *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// Upsert inserts the business or, when one with the same name exists,
// replaces its profile. b.ID, CreatedAt and UpdatedAt are set from the row.
func (r *BusinessRepository) Upsert(ctx context.Context, b *business.Business) error {
	profileJSON, err := json.Marshal(b.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		INSERT INTO businesses (
			id, name, city, type, forbidden_days, blacklisted_products,
			profile, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			city = EXCLUDED.city,
			type = EXCLUDED.type,
			forbidden_days = EXCLUDED.forbidden_days,
			blacklisted_products = EXCLUDED.blacklisted_products,
			profile = EXCLUDED.profile,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		b.ID, b.Name, b.City, b.Type, b.ForbiddenDays,
		b.BlacklistedProducts, profileJSON,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert business: %w", err)
	}
	return nil
}

func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*business.Business, error) {
	query := `
		SELECT id, name, city, type, forbidden_days, blacklisted_products,
		       profile, created_at, updated_at
		FROM businesses
		WHERE id = $1
	`
	b, err := scanBusiness(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find business: %w", err)
	}
	return b, nil
}

func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *BusinessRepository) List(ctx context.Context, filters *business.BusinessListFilters) ([]*business.Business, int64, error) {
	countQuery, query, countArgs, args := businessListQueries(filters)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count businesses: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	businesses := []*business.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate businesses: %w", err)
	}

	return businesses, total, nil
}

// businessListQueries builds the count and page queries for List, newest
// businesses first.
func businessListQueries(filters *business.BusinessListFilters) (countQuery, query string, countArgs, args []interface{}) {
	conditions := []string{}
	argPos := 1

	if filters.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *filters.Type)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR city ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}
	countQuery = fmt.Sprintf("SELECT COUNT(*) FROM businesses %s", whereClause)
	countArgs = append([]interface{}{}, args...)

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	query = fmt.Sprintf(`
		SELECT id, name, city, type, forbidden_days, blacklisted_products,
		       profile, created_at, updated_at
		FROM businesses
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)
	return countQuery, query, countArgs, args
}

func scanBusiness(row pgx.Row) (*business.Business, error) {
	var b business.Business
	var profileJSON []byte
	if err := row.Scan(
		&b.ID, &b.Name, &b.City, &b.Type, &b.ForbiddenDays,
		&b.BlacklistedProducts, &profileJSON, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &b.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &b, nil
}
