package notify

import (
	"context"
	"fmt"
	"log/slog"
)

// EmailProvider is the transport boundary; the SMTP client (or any other
// mail backend) lives behind it.
type EmailProvider interface {
	Send(ctx context.Context, to, subject, body string) error
}

const defaultSubject = "Notification"

// emailChannelImpl adapts an EmailProvider to the notification contract.
// The subject travels in meta["subject"].
type emailChannelImpl struct {
	provider EmailProvider
}

func NewEmailChannel(provider EmailProvider) NotificationService {
	return &emailChannelImpl{provider: provider}
}

func (c *emailChannelImpl) Notify(ctx context.Context, recipient, message string, meta map[string]string) error {
	if recipient == "" {
		return fmt.Errorf("email channel: empty recipient")
	}
	subject := meta["subject"]
	if subject == "" {
		subject = defaultSubject
	}
	if err := c.provider.Send(ctx, recipient, subject, message); err != nil {
		return fmt.Errorf("email channel: %w", err)
	}
	return nil
}

// logEmailProvider writes mail to the log instead of the wire. Used in
// development and as the fallback when no transport is configured.
type logEmailProvider struct {
	log *slog.Logger
}

func NewLogEmailProvider(log *slog.Logger) EmailProvider {
	if log == nil {
		log = slog.Default()
	}
	return &logEmailProvider{log: log}
}

func (p *logEmailProvider) Send(ctx context.Context, to, subject, body string) error {
	p.log.Info("email (log transport)", "to", to, "subject", subject, "body", body)
	return nil
}
