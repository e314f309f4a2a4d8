package reddit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/kalambet/redditpersona/internal/persona"
)

// DefaultItemLimit is the number of posts and of comments fetched per run.
const DefaultItemLimit = 15

// Provider is the social data source the Fetcher reads from. Implemented by *Client.
type Provider interface {
	About(ctx context.Context, username string) (Account, error)
	Submitted(ctx context.Context, username string, limit int) ([]persona.ContentItem, error)
	Comments(ctx context.Context, username string, limit int) ([]persona.ContentItem, error)
	Trophies(ctx context.Context, username string) ([]string, error)
}

// UserFetchError wraps any failure to load a user's data.
type UserFetchError struct {
	Username string
	Err      error
}

func (e *UserFetchError) Error() string {
	return fmt.Sprintf("fetching user %s: %v", e.Username, e.Err)
}

func (e *UserFetchError) Unwrap() error { return e.Err }

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fetcher loads a user's identity and recent activity from a Provider.
type Fetcher struct {
	provider Provider
	limit    int
	clock    Clock
}

// NewFetcher creates a Fetcher. limit defaults to DefaultItemLimit if <= 0.
func NewFetcher(provider Provider, limit int) *Fetcher {
	return NewFetcherWithClock(provider, limit, realClock{})
}

// NewFetcherWithClock creates a Fetcher with a custom clock (for testing).
func NewFetcherWithClock(provider Provider, limit int, clock Clock) *Fetcher {
	if limit <= 0 {
		limit = DefaultItemLimit
	}
	return &Fetcher{provider: provider, limit: limit, clock: clock}
}

// Fetch returns the user's identity plus up to limit posts and limit
// comments, newest first. Calls are made one after another; any failure
// other than the trophy lookup is returned as a *UserFetchError.
func (f *Fetcher) Fetch(ctx context.Context, username string) (persona.Activity, error) {
	acct, err := f.provider.About(ctx, username)
	if err != nil {
		return persona.Activity{}, &UserFetchError{Username: username, Err: err}
	}
	if acct.Name != "" {
		username = acct.Name
	}

	posts, err := f.provider.Submitted(ctx, username, f.limit)
	if err != nil {
		return persona.Activity{}, &UserFetchError{Username: username, Err: fmt.Errorf("posts: %w", err)}
	}
	comments, err := f.provider.Comments(ctx, username, f.limit)
	if err != nil {
		return persona.Activity{}, &UserFetchError{Username: username, Err: fmt.Errorf("comments: %w", err)}
	}

	trophies, err := f.provider.Trophies(ctx, username)
	if err != nil {
		slog.Warn("trophy lookup failed", "username", username, "error", err)
		trophies = nil
	}

	return persona.Activity{
		Identity: persona.Identity{
			Username:   username,
			AccountAge: accountAge(acct.Created, f.clock.Now()),
			Karma:      acct.LinkKarma + acct.CommentKarma,
			Verified:   acct.Verified,
			Trophies:   trophies,
		},
		Posts:    capItems(posts, f.limit),
		Comments: capItems(comments, f.limit),
	}, nil
}

// accountAge returns whole elapsed days over 365, rounded to one decimal.
func accountAge(created, now time.Time) float64 {
	if created.IsZero() || now.Before(created) {
		return 0
	}
	days := math.Floor(now.Sub(created).Hours() / 24)
	return math.Round(days/365*10) / 10
}

func capItems(items []persona.ContentItem, limit int) []persona.ContentItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
