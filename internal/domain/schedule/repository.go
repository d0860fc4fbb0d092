package schedule

import (
	"context"
	"time"
)

// Repository defines the operations for the singleton schedule record.
type Repository interface {
	// Read returns the current configuration. When no record exists yet it
	// returns the documented default (interval 4h, active, next = now+4h)
	// rather than an error; first-run bootstrapping relies on this.
	Read(ctx context.Context) (*Configuration, error)

	// Write replaces the whole record with the given values (upsert).
	Write(ctx context.Context, intervalHours int, active bool, next time.Time) error
}
