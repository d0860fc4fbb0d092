package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"order_acknowledgement_service/internal/domain/schedule"
)

// scheduleRowID is the fixed primary key of the singleton schedule record.
const scheduleRowID = 1

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

// Read returns the singleton schedule configuration. A missing row is not an
// error: the documented default (4h interval, active, next run in 4h) is
// returned instead, which first-run bootstrapping relies on.
func (r *PostgresScheduleRepository) Read(ctx context.Context) (*schedule.Configuration, error) {
	query := `SELECT interval_hours, next_execution, active FROM schedule_configuration WHERE id = $1`
	cfg := schedule.Configuration{}
	err := r.db.QueryRowContext(ctx, query, scheduleRowID).Scan(&cfg.IntervalHours, &cfg.NextExecution, &cfg.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return &schedule.Configuration{
				IntervalHours: schedule.DefaultIntervalHours,
				NextExecution: time.Now().UTC().Add(schedule.DefaultIntervalHours * time.Hour),
				Active:        true,
			}, nil
		}
		return nil, fmt.Errorf("error reading schedule configuration: %w", err)
	}
	cfg.NextExecution = cfg.NextExecution.UTC()
	return &cfg, nil
}

// Write replaces the whole schedule record (upsert). Partial-field updates
// are deliberately not offered.
func (r *PostgresScheduleRepository) Write(ctx context.Context, intervalHours int, active bool, next time.Time) error {
	query := `INSERT INTO schedule_configuration (id, interval_hours, next_execution, active)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (id) DO UPDATE
               SET interval_hours = EXCLUDED.interval_hours,
                   next_execution = EXCLUDED.next_execution,
                   active = EXCLUDED.active`
	_, err := r.db.ExecContext(ctx, query, scheduleRowID, intervalHours, next.UTC(), active)
	if err != nil {
		return fmt.Errorf("error writing schedule configuration: %w", err)
	}
	return nil
}
