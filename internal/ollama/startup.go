package ollama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// ErrNotRunning is returned by EnsureReady when the server is unreachable
// and could not be started.
var ErrNotRunning = errors.New("Ollama is not running. Start it with: ollama serve")

// Server is the handle to the local model server. It is built once by the
// caller and passed to whatever needs a ready model; nothing starts the
// server implicitly.
type Server struct {
	client    *Client
	model     string
	autostart bool

	// start launches the server process. Replaced in tests.
	start        func() error
	pollInterval time.Duration
	startTimeout time.Duration
}

// NewServer returns a handle for model on the server behind client. When
// autostart is set, EnsureReady launches `ollama serve` if the server is
// unreachable.
func NewServer(client *Client, model string, autostart bool) *Server {
	return &Server{
		client:       client,
		model:        model,
		autostart:    autostart,
		start:        startServe,
		pollInterval: 500 * time.Millisecond,
		startTimeout: 15 * time.Second,
	}
}

// Client returns the API client the handle was built with.
func (s *Server) Client() *Client { return s.client }

// Model returns the model the handle keeps ready.
func (s *Server) Model() string { return s.model }

// IsReady reports whether the server is reachable and the model is present.
// It never starts or pulls anything.
func (s *Server) IsReady(ctx context.Context) bool {
	return s.client.IsRunning(ctx) && s.client.HasModel(ctx, s.model)
}

// EnsureReady makes the server reachable (starting it when allowed) and
// pulls the model if missing, writing progress to w.
func (s *Server) EnsureReady(ctx context.Context, w io.Writer) error {
	if !s.client.IsRunning(ctx) {
		if !s.autostart {
			return ErrNotRunning
		}
		fmt.Fprintln(w, "starting Ollama server...")
		if err := s.start(); err != nil {
			return fmt.Errorf("%w (%v)", ErrNotRunning, err)
		}
		if err := s.waitRunning(ctx); err != nil {
			return err
		}
	}

	if s.client.HasModel(ctx, s.model) {
		fmt.Fprintf(w, "model %s: ready\n", s.model)
		return nil
	}

	fmt.Fprintf(w, "model %s: pulling...\n", s.model)
	err := s.client.PullModel(ctx, s.model, func(p PullProgress) {
		if p.Total > 0 {
			pct := float64(p.Completed) / float64(p.Total) * 100
			fmt.Fprintf(w, "  %s %.0f%%\n", p.Status, pct)
		} else {
			fmt.Fprintf(w, "  %s\n", p.Status)
		}
	})
	if err != nil {
		return fmt.Errorf("pulling model %s: %w", s.model, err)
	}
	fmt.Fprintf(w, "model %s: ready\n", s.model)
	return nil
}

func (s *Server) waitRunning(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.startTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		if s.client.IsRunning(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (not reachable after %s)", ErrNotRunning, s.startTimeout)
		case <-ticker.C:
		}
	}
}

// startServe launches `ollama serve` in the background and lets it outlive
// this process.
func startServe() error {
	cmd := exec.Command("ollama", "serve")
	if err := cmd.Start(); err != nil {
		return err
	}
	slog.Debug("launched ollama serve", "pid", cmd.Process.Pid)
	return cmd.Process.Release()
}
