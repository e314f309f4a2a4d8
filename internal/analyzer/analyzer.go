package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kalambet/redditpersona/internal/ollama"
)

const (
	DefaultTemperature = 0.7
	DefaultTimeout     = 120 * time.Second
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// AnalysisError wraps any failure to obtain a completion.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return "analyzing content: " + e.Err.Error()
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// OllamaChatter is the interface for chat completion via Ollama.
type OllamaChatter interface {
	Chat(ctx context.Context, model string, messages []ollama.Message, opts *ollama.Options) (string, error)
}

// Config holds the generation parameters.
type Config struct {
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Analyzer turns a user's content sample into the model's raw persona text.
type Analyzer struct {
	client OllamaChatter
	cfg    Config
}

// NewAnalyzer creates an Analyzer. A zero Timeout means DefaultTimeout; a
// negative Temperature means DefaultTemperature.
func NewAnalyzer(client OllamaChatter, cfg Config) *Analyzer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = DefaultTemperature
	}
	return &Analyzer{client: client, cfg: cfg}
}

// Analyze submits one prompt and returns the raw response. Errors, timeouts
// and empty output are all returned as *AnalysisError; nothing is retried.
func (a *Analyzer) Analyze(ctx context.Context, username, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.client.Chat(ctx, a.cfg.Model, BuildPrompt(username, content), &ollama.Options{
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("no response within %s: %w", a.cfg.Timeout, context.DeadlineExceeded)
		}
		return "", &AnalysisError{Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return "", &AnalysisError{Err: ErrEmptyResponse}
	}

	slog.Debug("analysis complete", "model", a.cfg.Model, "duration", time.Since(start), "chars", len(raw))
	return raw, nil
}
