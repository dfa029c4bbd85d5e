// Package transport delivers verification codes to users over out-of-band
// channels. The service only ever hands plaintext codes to a Sender; they are
// never persisted or logged by the callers.
package transport

import (
	"context"
	"log/slog"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

// Sender delivers a verification code to a user over the given method.
// Implementations are expected to be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, user domain.User, method domain.Method, code string) error
}

// LogSender is the development sender: it writes the code to the log instead
// of delivering it. Never wire this up in production.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, user domain.User, method domain.Method, code string) error {
	dest := user.Email
	if method == domain.MethodSMS && user.Phone != nil {
		dest = *user.Phone
	}

	s.Logger.Warn("dev sender: verification code not actually delivered",
		"user_id", user.ID,
		"method", string(method),
		"destination", dest,
		"code", code,
	)
	return nil
}
