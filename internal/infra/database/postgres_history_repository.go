package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"order_acknowledgement_service/internal/domain/history"
)

type PostgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

func (r *PostgresHistoryRepository) Append(ctx context.Context, entry *history.Entry) error {
	query := `INSERT INTO job_history (id, executed_at, succeeded, message, order_number, recipient)
               VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.ExecutedAt, entry.Succeeded, entry.Message,
		nullableString(entry.OrderNumber), nullableString(entry.Recipient))
	if err != nil {
		return fmt.Errorf("error appending job history entry: %w", err)
	}
	return nil
}

func (r *PostgresHistoryRepository) Recent(ctx context.Context, limit int) ([]*history.Entry, error) {
	query := `SELECT id, executed_at, succeeded, message, order_number, recipient
               FROM job_history
               ORDER BY executed_at DESC
               LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent job history: %w", err)
	}
	defer rows.Close()

	entries := make([]*history.Entry, 0, limit)
	for rows.Next() {
		entry := history.Entry{}
		var orderNumber, recipient sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ExecutedAt, &entry.Succeeded, &entry.Message, &orderNumber, &recipient); err != nil {
			return nil, fmt.Errorf("error scanning job history row: %w", err)
		}
		entry.OrderNumber = orderNumber.String
		entry.Recipient = recipient.String
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job history rows: %w", err)
	}
	return entries, nil
}

func (r *PostgresHistoryRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM job_history WHERE executed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error purging job history: %w", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading purge row count: %w", err)
	}
	return purged, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
