package main

import (
	"context"
	"os"
	"time"

	"github.com/kalambet/redditpersona/internal/analyzer"
	"github.com/kalambet/redditpersona/internal/config"
	"github.com/kalambet/redditpersona/internal/ollama"
	"github.com/kalambet/redditpersona/internal/pipeline"
	"github.com/kalambet/redditpersona/internal/reddit"
	"github.com/kalambet/redditpersona/internal/storage"
)

const redditHTTPTimeout = 30 * time.Second

// app holds the collaborators for one CLI invocation.
type app struct {
	server    *ollama.Server
	store     *storage.Store
	generator *pipeline.Generator
}

func newApp(cfg config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout, err := cfg.Ollama.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Output.Dir, cfg.Output.Readme)
	if err != nil {
		return nil, err
	}

	redditClient := reddit.NewClient(reddit.ClientConfig{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		APIURL:       cfg.Reddit.APIURL,
		TokenURL:     cfg.Reddit.TokenURL,
		Timeout:      redditHTTPTimeout,
	})
	fetcher := reddit.NewFetcher(redditClient, cfg.Reddit.ItemLimit)

	ollamaClient := ollama.New(cfg.Ollama.BaseURL)
	an := analyzer.NewAnalyzer(ollamaClient, analyzer.Config{
		Model:       cfg.Ollama.Model,
		Temperature: cfg.Ollama.Temperature,
		Timeout:     timeout,
	})

	return &app{
		server:    ollama.NewServer(ollamaClient, cfg.Ollama.Model, cfg.Ollama.Autostart),
		store:     store,
		generator: pipeline.NewGenerator(fetcher, an, store),
	}, nil
}

// ensureReady brings the model server up, reporting progress on stderr.
func (a *app) ensureReady(ctx context.Context) error {
	printStep("checking Ollama at %s", a.server.Client().BaseURL())
	if err := a.server.EnsureReady(ctx, os.Stderr); err != nil {
		return err
	}
	printSuccess("model %s ready", a.server.Model())
	return nil
}
