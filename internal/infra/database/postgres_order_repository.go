package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"order_acknowledgement_service/internal/domain/order"
)

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// DueAcknowledgements returns all orders pending acknowledgement as of the
// given instant. The query yields one row per line item; rows are grouped
// back into orders in memory, preserving the query's ordering so batches are
// processed deterministically.
func (r *PostgresOrderRepository) DueAcknowledgements(ctx context.Context, asOf time.Time) ([]*order.Acknowledgement, error) {
	query := `SELECT o.order_number, o.client_name, o.recipient_email, o.order_date,
                      l.product_ref, l.description, l.quantity, l.unit_price
               FROM orders o
               JOIN order_lines l ON l.order_number = o.order_number
               WHERE o.acknowledged_at IS NULL AND o.order_date <= $1
               ORDER BY o.order_number, l.line_number`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying due acknowledgements: %w", err)
	}
	defer rows.Close()

	acks := make([]*order.Acknowledgement, 0)
	var current *order.Acknowledgement
	for rows.Next() {
		var (
			number, client, recipient string
			orderedAt                 time.Time
			line                      order.Line
		)
		if err := rows.Scan(&number, &client, &recipient, &orderedAt,
			&line.ProductRef, &line.Description, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("error scanning due acknowledgement row: %w", err)
		}

		if current == nil || current.Number != number {
			current = &order.Acknowledgement{
				Number:         number,
				Client:         client,
				RecipientEmail: recipient,
				OrderedAt:      orderedAt,
			}
			acks = append(acks, current)
		}
		current.Lines = append(current.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due acknowledgement rows: %w", err)
	}
	return acks, nil
}
