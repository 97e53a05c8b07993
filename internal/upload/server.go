package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pixil98/go-portal/internal/images"
)

const (
	DefaultTimeout = 180 * time.Second

	maxUploadBytes = 20 << 20
)

const uploadForm = `<!doctype html>
<html>
<body>
<h3>Upload a room image</h3>
<form method="post" action="/upload" enctype="multipart/form-data">
<input type="file" name="image">
<input type="submit" value="Upload">
</form>
</body>
</html>
`

// Exchange runs a single-use local upload handshake: it serves a minimal
// HTML form, waits for exactly one file, stores it through the image
// processor, and tears the listener down. An Exchange is reusable, but each
// Receive accepts at most one upload.
type Exchange struct {
	proc    *images.Processor
	port    int
	timeout time.Duration
}

type ExchangeOpt func(*Exchange)

func WithPort(port int) ExchangeOpt {
	return func(e *Exchange) {
		e.port = port
	}
}

func WithTimeout(d time.Duration) ExchangeOpt {
	return func(e *Exchange) {
		e.timeout = d
	}
}

func NewExchange(proc *images.Processor, opts ...ExchangeOpt) *Exchange {
	e := &Exchange{
		proc:    proc,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type uploadResult struct {
	path string
	err  error
}

// Receive blocks until one image is uploaded, the timeout expires, or ctx is
// cancelled. A timeout is not an error: it returns ("", nil) and the caller
// proceeds without an image. The listener is shut down on every exit path.
func (e *Exchange) Receive(ctx context.Context, rw io.ReadWriter) (string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", e.port))
	if err != nil {
		return "", fmt.Errorf("starting upload listener: %w", err)
	}

	results := make(chan uploadResult, 1)
	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, uploadForm)
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		path, err := e.handleUpload(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Upload received. You can close this page.")

		once.Do(func() {
			results <- uploadResult{path: path, err: err}
		})
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.WarnContext(ctx, "upload server stopped", "error", err)
		}
	}()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.WarnContext(ctx, "shutting down upload server", "error", err)
		}
	}()

	fmt.Fprintf(rw, "Open http://%s/ in a browser and upload an image.\n", ln.Addr())
	fmt.Fprintf(rw, "Waiting up to %s...\n", e.timeout)

	select {
	case res := <-results:
		return res.path, res.err
	case <-time.After(e.timeout):
		fmt.Fprintln(rw, "No upload arrived in time.")
		return "", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *Exchange) handleUpload(r *http.Request) (string, error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	return e.proc.ProcessBytes(data)
}
