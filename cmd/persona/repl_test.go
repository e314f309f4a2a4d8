package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kalambet/redditpersona/internal/analyzer"
	"github.com/kalambet/redditpersona/internal/pipeline"
	"github.com/kalambet/redditpersona/internal/reddit"
)

type fakeRunner struct {
	urls []string
	errs map[string]error
}

func (f *fakeRunner) Generate(_ context.Context, profileURL string) (pipeline.Result, error) {
	f.urls = append(f.urls, profileURL)
	if err, ok := f.errs[profileURL]; ok {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Path: "personas/x_persona.txt"}, nil
}

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = old })
	return &buf
}

func TestREPL_QuitStopsLoop(t *testing.T) {
	captureStderr(t)
	runner := &fakeRunner{}
	var out bytes.Buffer

	in := strings.NewReader("https://www.reddit.com/user/a/\nQUIT\nhttps://www.reddit.com/user/b/\n")
	if err := runREPL(context.Background(), in, &out, runner); err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	if len(runner.urls) != 1 || runner.urls[0] != "https://www.reddit.com/user/a/" {
		t.Errorf("urls = %v, want only the first", runner.urls)
	}
	if n := strings.Count(out.String(), replPrompt); n != 2 {
		t.Errorf("prompt shown %d times, want 2", n)
	}
}

func TestREPL_EOFExitsCleanly(t *testing.T) {
	captureStderr(t)
	runner := &fakeRunner{}
	if err := runREPL(context.Background(), strings.NewReader("https://www.reddit.com/user/a/"), &bytes.Buffer{}, runner); err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	if len(runner.urls) != 1 {
		t.Errorf("urls = %v, want 1 run before EOF", runner.urls)
	}
}

func TestREPL_ContinuesAfterErrors(t *testing.T) {
	errOut := captureStderr(t)
	runner := &fakeRunner{errs: map[string]error{
		"bad":                            reddit.ErrInvalidProfileURL,
		"https://www.reddit.com/user/m/": &analyzer.AnalysisError{Err: analyzer.ErrEmptyResponse},
	}}

	in := strings.NewReader("bad\n\n   \nhttps://www.reddit.com/user/m/\nhttps://www.reddit.com/user/ok/\nquit\n")
	if err := runREPL(context.Background(), in, &bytes.Buffer{}, runner); err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	if len(runner.urls) != 3 {
		t.Fatalf("urls = %v, want 3 runs (blank lines skipped)", runner.urls)
	}
	msgs := errOut.String()
	for _, want := range []string{"Invalid Reddit profile URL", "empty response", "Persona saved to personas/x_persona.txt"} {
		if !strings.Contains(msgs, want) {
			t.Errorf("stderr missing %q:\n%s", want, msgs)
		}
	}
}

func TestREPL_CancelledContext(t *testing.T) {
	captureStderr(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{}
	if err := runREPL(ctx, strings.NewReader("https://www.reddit.com/user/a/\n"), &bytes.Buffer{}, runner); err != nil {
		t.Fatalf("runREPL: %v", err)
	}
	if len(runner.urls) != 0 {
		t.Errorf("ran %d generations after cancel", len(runner.urls))
	}
}
