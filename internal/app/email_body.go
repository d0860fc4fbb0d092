package app

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"order_acknowledgement_service/internal/domain/order"

	"github.com/shopspring/decimal"
)

const bodyHTMLTemplate = `<html lang="en"><body style="font-family:Segoe UI,Arial,sans-serif;font-size:14px;color:#1f2933;">
<h2 style="color:#0f766e;">Order acknowledgement</h2>
<p>Hello,</p>
<p>Please find attached the acknowledgement of order <strong>{{.Number}}</strong> dated {{formatDate .OrderedAt}}.</p>
<p>Line summary:</p>
<table style="border-collapse:collapse;width:100%;">
<thead><tr>
<th style="border-bottom:1px solid #d9e0e6;text-align:left;padding:4px;">Item</th>
<th style="border-bottom:1px solid #d9e0e6;text-align:right;padding:4px;">Quantity</th>
<th style="border-bottom:1px solid #d9e0e6;text-align:right;padding:4px;">Amount</th>
</tr></thead>
<tbody>
{{range .Lines}}<tr>
<td style="padding:4px;border-bottom:1px solid #f1f5f9;">{{.Description}}</td>
<td style="padding:4px;border-bottom:1px solid #f1f5f9;text-align:right;">{{formatQuantity .Quantity}}</td>
<td style="padding:4px;border-bottom:1px solid #f1f5f9;text-align:right;">{{formatAmount .Total}}</td>
</tr>
{{end}}</tbody>
</table>
<p style="margin-top:12px;"><strong>Total:</strong> {{formatAmount .Total}}</p>
<p style="margin-top:20px;color:#64748b;">This message was sent automatically, please do not reply.</p>
</body></html>`

var bodyTemplate = template.Must(template.New("acknowledgement_body").Funcs(template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("02 January 2006")
	},
	"formatQuantity": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"formatAmount": func(d decimal.Decimal) string {
		return fmt.Sprintf("%s €", d.StringFixed(2))
	},
}).Parse(bodyHTMLTemplate))

// buildBodyHTML renders the email body summarizing the order's lines and
// recomputed total.
func buildBodyHTML(ack *order.Acknowledgement) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, ack); err != nil {
		return "", fmt.Errorf("failed to render email body for order %s: %w", ack.Number, err)
	}
	return buf.String(), nil
}
