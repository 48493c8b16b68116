// internal/repository/postgres/schema.go
package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS businesses (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL,
		city                 TEXT NOT NULL DEFAULT '',
		type                 TEXT NOT NULL,
		forbidden_days       TEXT[] NOT NULL DEFAULT '{}',
		blacklisted_products BIGINT[] NOT NULL DEFAULT '{}',
		profile              JSONB NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS businesses_name_key ON businesses (name)`,
	`CREATE TABLE IF NOT EXISTS strategies (
		id             TEXT PRIMARY KEY,
		business_id    TEXT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
		business_name  TEXT NOT NULL,
		business_type  TEXT NOT NULL,
		source         TEXT NOT NULL,
		strategy_data  JSONB NOT NULL,
		marketing_plan JSONB,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS strategies_business_created_idx ON strategies (business_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS dataset_entries (
		id                 TEXT PRIMARY KEY,
		date               TIMESTAMPTZ NOT NULL,
		business_id        TEXT,
		strategy_id        TEXT,
		business_profile   JSONB NOT NULL,
		summary            TEXT NOT NULL DEFAULT '',
		key_actions        TEXT[] NOT NULL DEFAULT '{}',
		real_outcome       JSONB,
		classification     TEXT NOT NULL DEFAULT 'neutral',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS dataset_entries_date_idx ON dataset_entries (date DESC)`,
}
