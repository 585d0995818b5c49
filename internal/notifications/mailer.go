package notifications

import (
	"context"
	"roombook/pkg/logger"
	"strings"
)

type Mail struct {
	To      []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// LogMailer writes mails to the structured log instead of delivering them.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, mail Mail) error {
	m.log.Info("Mail sent",
		"to", strings.Join(mail.To, ","),
		"subject", mail.Subject,
		"body_length", len(mail.Body),
	)
	return nil
}
