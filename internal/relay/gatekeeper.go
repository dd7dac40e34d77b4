package relay

import (
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/metrics"
	"github.com/rocketscienceinc/caro-backend/internal/protocol"
)

// gatekeeper runs the per-connection shared-secret handshake. A connection
// enters matchmaking only after the secret matches; a wrong secret is terminal
// for that connection, no retries.
type gatekeeper struct {
	logger *slog.Logger
	secret string
}

func newGatekeeper(logger *slog.Logger, secret string) *gatekeeper {
	return &gatekeeper{
		logger: logger.With("component", "gatekeeper"),
		secret: secret,
	}
}

// admit - prompts for the secret, reads exactly one message and compares its
// payload in constant time.
func (that *gatekeeper) admit(cl *client) error {
	if err := cl.send(protocol.CmdPasswordRequired, ""); err != nil {
		return fmt.Errorf("failed to send password prompt: %w", err)
	}

	line, err := cl.readLine()
	if err != nil {
		return fmt.Errorf("failed to read password message: %w", err)
	}

	messages := protocol.Decode(line)
	if len(messages) == 0 || messages[0].Command != protocol.CmdPassword {
		metrics.AuthFailures.Inc()
		_ = cl.send(protocol.CmdPasswordRejected, "password expected")
		return apperror.ErrWrongSecret
	}

	if subtle.ConstantTimeCompare([]byte(messages[0].Payload), []byte(that.secret)) != 1 {
		metrics.AuthFailures.Inc()
		_ = cl.send(protocol.CmdPasswordRejected, "invalid password")
		return apperror.ErrWrongSecret
	}

	metrics.AuthSuccess.Inc()

	if err = cl.send(protocol.CmdPasswordAccepted, ""); err != nil {
		return fmt.Errorf("failed to send password acknowledgment: %w", err)
	}

	return nil
}
