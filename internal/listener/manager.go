package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner plays one game session over a connection.
type SessionRunner interface {
	Run(ctx context.Context, rw io.ReadWriter) error
}

type SessionManager struct {
	runner SessionRunner
}

func NewSessionManager(runner SessionRunner) *SessionManager {
	return &SessionManager{
		runner: runner,
	}
}

func (m *SessionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runner.Run(ctx, conn); err != nil {
		slog.WarnContext(ctx, "game session", "error", err)
	}
}
