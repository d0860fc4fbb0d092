package order

import (
	"context"
	"time"
)

// Repository defines the operations for retrieving orders due for
// acknowledgement.
type Repository interface {
	// DueAcknowledgements returns all orders whose acknowledgement is pending
	// as of the given instant. The result must be idempotent for the same
	// instant within one run.
	DueAcknowledgements(ctx context.Context, asOf time.Time) ([]*Acknowledgement, error)
}
