package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/carbon-portfolio/internal/contracts"
)

// Repository reads and writes positions in PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new portfolio repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS portfolio;

	CREATE TABLE IF NOT EXISTS portfolio.positions (
		id              TEXT PRIMARY KEY,
		project_name    TEXT NOT NULL,
		tonnes          DOUBLE PRECISION NOT NULL,
		price_per_tonne DOUBLE PRECISION NOT NULL,
		status          TEXT NOT NULL,
		vintage         INTEGER NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS portfolio.summary_snapshots (
		id                      BIGSERIAL PRIMARY KEY,
		taken_at                TIMESTAMPTZ NOT NULL,
		status_filter           TEXT NOT NULL,
		total_tonnes            DOUBLE PRECISION NOT NULL,
		total_value             DOUBLE PRECISION NOT NULL,
		average_price_per_tonne DOUBLE PRECISION NOT NULL
	);
`

// EnsureSchema creates the portfolio tables when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure portfolio schema: %w", err)
	}
	return nil
}

// List returns every position ordered by id
func (r *Repository) List(ctx context.Context) ([]contracts.Position, error) {
	query := `
		SELECT id, project_name, tonnes, price_per_tonne, status, vintage
		FROM portfolio.positions
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}

	positions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.Position, error) {
		var p contracts.Position
		err := row.Scan(&p.ID, &p.ProjectName, &p.Tonnes, &p.PricePerTonne, &p.Status, &p.Vintage)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan positions: %w", err)
	}

	return positions, nil
}

// UpsertPositions inserts or replaces positions in a single transaction
func (r *Repository) UpsertPositions(ctx context.Context, positions []contracts.Position) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO portfolio.positions (
			id, project_name, tonnes, price_per_tonne, status, vintage, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			tonnes = EXCLUDED.tonnes,
			price_per_tonne = EXCLUDED.price_per_tonne,
			status = EXCLUDED.status,
			vintage = EXCLUDED.vintage,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(query, p.ID, p.ProjectName, p.Tonnes, p.PricePerTonne, string(p.Status), p.Vintage)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert positions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Snapshot is a summary recorded at a point in time
type Snapshot struct {
	TakenAt      time.Time
	StatusFilter string // "all" when unfiltered
	Summary      contracts.PortfolioSummary
}

// SaveSnapshot records a computed summary
func (r *Repository) SaveSnapshot(ctx context.Context, s Snapshot) error {
	query := `
		INSERT INTO portfolio.summary_snapshots (
			taken_at, status_filter, total_tonnes, total_value, average_price_per_tonne
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		s.TakenAt, s.StatusFilter, s.Summary.TotalTonnes, s.Summary.TotalValue, s.Summary.AveragePricePerTonne,
	)
	if err != nil {
		return fmt.Errorf("failed to save summary snapshot: %w", err)
	}

	return nil
}
