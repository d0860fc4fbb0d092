package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acknowledgement is a read-only snapshot of one order that is due for
// acknowledgement. It is materialized fresh for each batch run from the
// upstream order data and discarded once processed.
type Acknowledgement struct {
	Number         string
	Client         string
	RecipientEmail string
	OrderedAt      time.Time
	Lines          []Line
}

// Line is one ordered line item.
type Line struct {
	ProductRef  string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Total returns the quantity times the unit price for this line.
func (l Line) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Total returns the sum of all line totals. It is always recomputed and
// never stored.
func (a *Acknowledgement) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range a.Lines {
		total = total.Add(line.Total())
	}
	return total
}
