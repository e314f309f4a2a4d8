package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/redditpersona/internal/analyzer"
	"github.com/kalambet/redditpersona/internal/persona"
	"github.com/kalambet/redditpersona/internal/reddit"
)

// ActivityFetcher loads a user's identity and recent content.
type ActivityFetcher interface {
	Fetch(ctx context.Context, username string) (persona.Activity, error)
}

// ContentAnalyzer turns a content sample into raw model output.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, username, content string) (string, error)
}

// PersonaStore persists rendered documents.
type PersonaStore interface {
	SavePersona(username, doc string) (path string, exampleCreated bool, err error)
}

// Result describes one successful run.
type Result struct {
	RunID          uuid.UUID
	Username       string
	Path           string
	Document       string
	Analysis       persona.Analysis
	Citations      []persona.Citation
	ExampleCreated bool
	Duration       time.Duration
}

// Generator orchestrates one persona run: URL parsing, fetching, analysis,
// extraction, citation, rendering and the file write.
type Generator struct {
	fetcher  ActivityFetcher
	analyzer ContentAnalyzer
	store    PersonaStore
}

// NewGenerator creates a Generator wired to its collaborators.
func NewGenerator(fetcher ActivityFetcher, analyzer ContentAnalyzer, store PersonaStore) *Generator {
	return &Generator{fetcher: fetcher, analyzer: analyzer, store: store}
}

// Generate runs the whole pipeline for profileURL. Any failure aborts the
// run before anything is written; the returned error is one of
// reddit.ErrInvalidProfileURL, *reddit.UserFetchError,
// *analyzer.AnalysisError, *persona.TemplateError or a storage error.
func (g *Generator) Generate(ctx context.Context, profileURL string) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.New()}
	log := slog.With("run_id", res.RunID.String())

	username, err := reddit.Username(profileURL)
	if err != nil {
		log.Warn("rejected profile URL", "url", profileURL)
		return Result{}, err
	}
	log = log.With("username", username)

	log.Info("fetching user data")
	act, err := g.fetcher.Fetch(ctx, username)
	if err != nil {
		log.Error("fetch failed", "error", err)
		return Result{}, err
	}
	res.Username = act.Identity.Username
	log.Debug("fetched activity", "posts", len(act.Posts), "comments", len(act.Comments))

	log.Info("analyzing content")
	raw, err := g.analyzer.Analyze(ctx, res.Username, analyzer.ContentSample(act))
	if err != nil {
		log.Error("analysis failed", "error", err)
		return Result{}, err
	}

	res.Analysis = persona.Parse(raw)
	res.Citations = persona.Cite(res.Analysis, act.Posts, act.Comments)
	log.Debug("extracted persona", "archetype", res.Analysis.Field(persona.FieldArchetype), "citations", len(res.Citations))

	res.Document, err = persona.Render(act.Identity, res.Analysis, res.Citations)
	if err != nil {
		log.Error("render failed", "error", err)
		return Result{}, err
	}

	res.Path, res.ExampleCreated, err = g.store.SavePersona(res.Username, res.Document)
	if err != nil {
		log.Error("save failed", "error", err)
		return Result{}, err
	}

	res.Duration = time.Since(start)
	log.Info("persona saved", "path", res.Path, "duration_ms", res.Duration.Milliseconds())
	return res, nil
}
