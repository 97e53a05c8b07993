package listener

import (
	"context"
	"io"
	"os"
)

// StdioListener runs a single session over the process's own terminal and
// exits when it ends.
type StdioListener struct {
	cm *SessionManager
}

func NewStdioListener(cm *SessionManager) *StdioListener {
	return &StdioListener{
		cm: cm,
	}
}

func (l *StdioListener) Start(ctx context.Context) error {
	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}

	l.cm.AcceptConnection(ctx, rw)
	return nil
}
