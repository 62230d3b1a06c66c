package communication

import (
	"context"
	"log/slog"
)

// LogProvider writes messages to the log instead of delivering them. It is
// the default provider when no gateway is configured.
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{logger: logger.With("module", "communication")}
}

func (p *LogProvider) SendEmail(ctx context.Context, msg EmailMessage) error {
	p.logger.InfoContext(ctx, "Email delivery (log provider)",
		"to", msg.To,
		"subject", msg.Subject,
	)

	return nil
}

func (p *LogProvider) SendSMS(ctx context.Context, msg SMSMessage) error {
	p.logger.InfoContext(ctx, "SMS delivery (log provider)",
		"to", msg.To,
		"body_length", len(msg.Body),
	)

	return nil
}
