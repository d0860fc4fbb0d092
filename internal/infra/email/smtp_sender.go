package email

import (
	"bytes"
	"context"
	"fmt"
	"io"

	domainEmail "order_acknowledgement_service/internal/domain/email"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPSender implements the email.Sender interface over SMTP using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *logrus.Logger
}

func NewSMTPSender(host string, port int, username, password, from string, logger *logrus.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

// Send delivers one message, attaching the confirmation document when
// present. The context is checked before dialing; gomail itself does not
// support cancellation mid-send.
func (s *SMTPSender) Send(ctx context.Context, msg *domainEmail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if len(msg.Attachment) > 0 && msg.AttachmentName != "" {
		attachment := msg.Attachment
		m.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(attachment))
			return err
		}))
	}

	s.logger.Infof("Sending email to %s via %s:%d", msg.Recipient, s.dialer.Host, s.dialer.Port)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.Recipient, err)
	}
	return nil
}
