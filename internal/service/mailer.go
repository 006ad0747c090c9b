package service

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer delivers password-reset links. Actual delivery is an external
// collaborator; the application only depends on this contract.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes reset tokens to the application log instead of
// sending mail. Default for development and tests.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

// SendPasswordReset logs the reset token for the given address.
func (m *LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.log.Info().
		Str("email", email).
		Str("token", token).
		Msg("password reset requested")
	return nil
}
