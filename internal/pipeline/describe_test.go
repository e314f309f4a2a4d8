package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kalambet/redditpersona/internal/analyzer"
	"github.com/kalambet/redditpersona/internal/ollama"
	"github.com/kalambet/redditpersona/internal/persona"
	"github.com/kalambet/redditpersona/internal/reddit"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid url", reddit.ErrInvalidProfileURL, "Invalid Reddit profile URL"},
		{"not found", &reddit.UserFetchError{Username: "ghost", Err: reddit.ErrUserNotFound}, "ghost was not found"},
		{"suspended", &reddit.UserFetchError{Username: "bad", Err: reddit.ErrSuspended}, "bad is suspended"},
		{"rate limited", &reddit.UserFetchError{Username: "u", Err: fmt.Errorf("posts: %w", reddit.ErrRateLimited)}, "rate limiting"},
		{"fetch other", &reddit.UserFetchError{Username: "u", Err: errors.New("dial tcp: refused")}, "dial tcp: refused"},
		{"empty response", &analyzer.AnalysisError{Err: analyzer.ErrEmptyResponse}, "empty response"},
		{"timeout", &analyzer.AnalysisError{Err: fmt.Errorf("no response: %w", context.DeadlineExceeded)}, "did not answer in time"},
		{"analysis other", &analyzer.AnalysisError{Err: errors.New("model not found")}, "model not found"},
		{"template", &persona.TemplateError{Field: "quote"}, "quote"},
		{"ollama down", fmt.Errorf("%w (boom)", ollama.ErrNotRunning), "ollama serve"},
		{"other", errors.New("disk full"), "Error: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Describe(nil) = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Describe() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
