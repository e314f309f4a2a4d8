package pipeline

import (
	"context"
	"errors"

	"github.com/kalambet/redditpersona/internal/analyzer"
	"github.com/kalambet/redditpersona/internal/ollama"
	"github.com/kalambet/redditpersona/internal/persona"
	"github.com/kalambet/redditpersona/internal/reddit"
)

// Describe maps a run error to the message shown to the user.
func Describe(err error) string {
	var (
		fetchErr    *reddit.UserFetchError
		analysisErr *analyzer.AnalysisError
		templateErr *persona.TemplateError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, reddit.ErrInvalidProfileURL):
		return "Invalid Reddit profile URL. Expected https://www.reddit.com/user/<username>/"
	case errors.As(err, &fetchErr):
		switch {
		case errors.Is(err, reddit.ErrUserNotFound):
			return "Reddit user " + fetchErr.Username + " was not found."
		case errors.Is(err, reddit.ErrSuspended):
			return "Reddit user " + fetchErr.Username + " is suspended."
		case errors.Is(err, reddit.ErrRateLimited):
			return "Reddit is rate limiting requests. Wait a minute and try again."
		}
		return "Could not fetch data for " + fetchErr.Username + ": " + fetchErr.Err.Error()
	case errors.As(err, &analysisErr):
		switch {
		case errors.Is(err, analyzer.ErrEmptyResponse):
			return "The model returned an empty response. Try again."
		case errors.Is(err, context.DeadlineExceeded):
			return "The model did not answer in time. Try again or use a smaller model."
		}
		return "Persona generation failed: " + analysisErr.Err.Error()
	case errors.As(err, &templateErr):
		return "Could not render the persona document: " + templateErr.Error()
	case errors.Is(err, ollama.ErrNotRunning):
		return ollama.ErrNotRunning.Error()
	}
	return "Error: " + err.Error()
}
