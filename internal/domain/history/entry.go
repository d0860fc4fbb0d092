package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable audit record of a single order's processing outcome
// within a batch run. Entries are appended once and never updated or deleted
// by the pipeline.
type Entry struct {
	ID          uuid.UUID
	ExecutedAt  time.Time
	Succeeded   bool
	Message     string
	OrderNumber string
	Recipient   string
}
