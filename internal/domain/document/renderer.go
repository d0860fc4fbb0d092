package document

import "order_acknowledgement_service/internal/domain/order"

// Renderer turns one order into a binary confirmation document.
type Renderer interface {
	RenderAcknowledgement(ack *order.Acknowledgement) ([]byte, error)
}
