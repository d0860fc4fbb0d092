package history

import (
	"context"
	"time"
)

// Repository defines the operations for the append-only job history.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error

	// Recent returns up to limit entries ordered newest-first.
	Recent(ctx context.Context, limit int) ([]*Entry, error)

	// PurgeOlderThan deletes entries executed before the cutoff and returns
	// the number of rows removed. Used by the retention sweep only.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
