package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the portfolio_snapshot table.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Upsert records the snapshot for its calendar date, replacing any earlier
// snapshot of that date. A new ID is generated when the snapshot has none.
func (r *SnapshotRepository) Upsert(ctx context.Context, s model.PortfolioSnapshot) (model.PortfolioSnapshot, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO portfolio_snapshot (id, snapshot_date, total_value, total_cost, holdings_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(snapshot_date) DO UPDATE SET
			total_value = excluded.total_value,
			total_cost = excluded.total_cost,
			holdings_count = excluded.holdings_count,
			created_at = excluded.created_at
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.Date.UTC().Format(model.DateLayout),
		s.TotalValue,
		s.TotalCost,
		s.HoldingsCount,
		s.CreatedAt.UTC().Format(time.RFC3339),
	).Scan(&s.ID)
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to upsert portfolio snapshot: %w", err)
	}

	return s, nil
}

// GetSince retrieves snapshots dated on or after from, oldest first.
// Returns an empty slice if none match.
func (r *SnapshotRepository) GetSince(ctx context.Context, from time.Time) ([]model.PortfolioSnapshot, error) {
	query := `
		SELECT id, snapshot_date, total_value, total_cost, holdings_count, created_at
		FROM portfolio_snapshot
		WHERE snapshot_date >= ?
		ORDER BY snapshot_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, from.UTC().Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}

	for rows.Next() {
		var s model.PortfolioSnapshot
		var dateStr, createdStr string

		if err := rows.Scan(&s.ID, &dateStr, &s.TotalValue, &s.TotalCost, &s.HoldingsCount, &createdStr); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_snapshot results: %w", err)
		}

		if s.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = ParseTime(createdStr); err != nil {
			return nil, err
		}

		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshot table: %w", err)
	}

	return snapshots, nil
}
