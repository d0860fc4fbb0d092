package email

import "context"

// Message is one outbound email with an optional attachment.
type Message struct {
	Recipient      string
	Subject        string
	HTMLBody       string
	Attachment     []byte
	AttachmentName string
}

// Sender defines an interface for delivering email messages. This decouples
// the application logic from the specific mail transport.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
