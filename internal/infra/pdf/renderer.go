package pdf

import (
	"bytes"
	"fmt"
	"time"

	"order_acknowledgement_service/internal/domain/order"

	"github.com/jung-kurt/gofpdf"
)

// AcknowledgementRenderer renders the PDF confirmation document for one
// order: a header with the order number and client, a line-item table and
// the recomputed total.
type AcknowledgementRenderer struct{}

func NewAcknowledgementRenderer() *AcknowledgementRenderer {
	return &AcknowledgementRenderer{}
}

func (r *AcknowledgementRenderer) RenderAcknowledgement(ack *order.Acknowledgement) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(25, 25, 25)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(37, 99, 235)
	doc.Cell(0, 10, "Order acknowledgement")
	doc.Ln(10)

	doc.SetFont("Helvetica", "", 14)
	doc.SetTextColor(31, 41, 51)
	doc.Cell(0, 8, fmt.Sprintf("Order %s - %s", ack.Number, ack.Client))
	doc.Ln(10)

	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 7, fmt.Sprintf("Order date: %s", ack.OrderedAt.Format("02 January 2006")))
	doc.Ln(12)

	colWidths := []float64{30, 60, 20, 25, 25}
	headers := []string{"Reference", "Description", "Qty", "Unit", "Amount"}

	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(243, 244, 246)
	for i, h := range headers {
		doc.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 11)
	for _, line := range ack.Lines {
		doc.CellFormat(colWidths[0], 7, line.ProductRef, "1", 0, "L", false, 0, "")
		doc.CellFormat(colWidths[1], 7, line.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(colWidths[2], 7, line.Quantity.StringFixed(2), "1", 0, "C", false, 0, "")
		doc.CellFormat(colWidths[3], 7, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(colWidths[4], 7, line.Total().StringFixed(2), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(249, 250, 251)
	doc.CellFormat(colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3], 8, "Total", "1", 0, "R", true, 0, "")
	doc.CellFormat(colWidths[4], 8, ack.Total().StringFixed(2), "1", 0, "R", true, 0, "")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(107, 114, 128)
	doc.Cell(0, 6, fmt.Sprintf("Document generated automatically %s", time.Now().UTC().Format("02/01/2006 15:04")))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render acknowledgement PDF for order %s: %w", ack.Number, err)
	}
	return buf.Bytes(), nil
}
