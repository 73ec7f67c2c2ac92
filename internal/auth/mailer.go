package auth

import (
	"context"
	"log/slog"
)

// Mailer delivers account emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, name, link string) error
}

// LogMailer writes outgoing mail to the log instead of sending it. It is the
// default until an outbound mail transport is configured.
type LogMailer struct {
	log *slog.Logger
}

// NewLogMailer returns a Mailer that logs through l.
func NewLogMailer(l *slog.Logger) *LogMailer {
	return &LogMailer{log: l}
}

func (m *LogMailer) SendConfirmation(ctx context.Context, to, name, link string) error {
	m.log.InfoContext(ctx, "confirmation email",
		slog.String("to", to),
		slog.String("name", name),
		slog.String("link", link),
	)
	return nil
}
