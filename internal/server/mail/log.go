package mail

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// LogMailer is the development fallback used when no SMTP endpoint is
// configured: it records that a delivery would have happened without
// logging the token itself.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mail")}
}

func (m *LogMailer) Send(ctx context.Context, destination string, purpose Purpose, token string) error {
	m.logger.Info(ctx, "mail delivery skipped (no SMTP endpoint configured)",
		"to", destination, "purpose", string(purpose))
	return nil
}
