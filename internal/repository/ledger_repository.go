package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seyborx-dotcom/impulse-bot/internal/domain"
)

type ledgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new PostgreSQL-backed points ledger
func NewLedgerRepository(db *pgxpool.Pool) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO points (id, user_id, name, points, ts, source, poll_id, topic_key, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Name, entry.Points, entry.TS,
		entry.Source, entry.PollID, entry.TopicKey, entry.Kind)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) AppendOnce(ctx context.Context, entry *domain.LedgerEntry) error {
	return insertLedgerOnce(ctx, r.db, entry)
}

// insertLedgerOnce writes an entry under its deterministic ID. A duplicate ID
// means the entry was settled before, which is not an error.
func insertLedgerOnce(ctx context.Context, q dbtx, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO points (id, user_id, name, points, ts, source, poll_id, topic_key, kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`

	_, err := q.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Name, entry.Points, entry.TS,
		entry.Source, entry.PollID, entry.TopicKey, entry.Kind)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) SumByWindow(ctx context.Context, start, end time.Time) ([]*domain.UserTotal, error) {
	query := `
		SELECT p.user_id,
		       COALESCE((SELECT p2.name FROM points p2
		                 WHERE p2.user_id = p.user_id AND p2.name <> ''
		                 ORDER BY p2.ts DESC LIMIT 1), '') AS name,
		       SUM(p.points) AS total
		FROM points p
		WHERE p.ts >= $1 AND p.ts < $2
		GROUP BY p.user_id
		ORDER BY total DESC, p.user_id`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points: %w", err)
	}
	defer rows.Close()

	var totals []*domain.UserTotal
	for rows.Next() {
		var t domain.UserTotal
		if err := rows.Scan(&t.UserID, &t.Name, &t.Points); err != nil {
			return nil, fmt.Errorf("failed to scan total: %w", err)
		}
		totals = append(totals, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate totals: %w", err)
	}
	return totals, nil
}

// CountByUserSince counts every ledger entry for the user in the window.
// Penalties count too, a no-show is still activity.
func (r *ledgerRepository) CountByUserSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM points WHERE user_id = $1 AND ts >= $2`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}
