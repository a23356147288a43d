package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Sender delivers a finished draft. Implementations must be safe for
// sequential reuse; the dispatcher owns pacing.
type Sender interface {
	Send(ctx context.Context, draft *Draft) error
}

// SMTPSender sends drafts through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	if port == 0 {
		port = 587
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}, nil
}

func (s *SMTPSender) Send(_ context.Context, draft *Draft) error {
	if draft == nil || strings.TrimSpace(draft.ContactEmail) == "" {
		return fmt.Errorf("draft has no recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", draft.ContactEmail)
	m.SetHeader("Subject", draft.Subject)
	m.SetBody("text/plain", draft.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send to %s: %w", draft.ContactEmail, err)
	}
	return nil
}
