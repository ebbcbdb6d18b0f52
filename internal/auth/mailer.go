package auth

import (
	"context"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/logger"
)

// Mailer delivers verification codes to prospective users.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// LogMailer writes outgoing codes to the structured log instead of sending mail.
// Used in dev and test environments where no mail provider is wired.
type LogMailer struct {
	logg *logger.Logger
}

// NewLogMailer builds a log-backed mailer.
func NewLogMailer(logg *logger.Logger) *LogMailer {
	return &LogMailer{logg: logg}
}

func (m *LogMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{"email": email, "code": code})
		m.logg.Info(ctx, "mail.verification_code")
	}
	return nil
}
