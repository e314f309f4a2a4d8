package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/kalambet/redditpersona/internal/persona"
)

var (
	// ErrUserNotFound is returned when Reddit has no account with the given name.
	ErrUserNotFound = errors.New("user not found")
	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("rate limited by Reddit")
	// ErrSuspended is returned for suspended accounts, which expose no history.
	ErrSuspended = errors.New("account suspended")
)

// ClientConfig holds the app credentials and endpoints for the Reddit API.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	APIURL       string // e.g. https://oauth.reddit.com
	TokenURL     string // e.g. https://www.reddit.com/api/v1/access_token
	Timeout      time.Duration
}

// Client talks to the Reddit API with an app-only OAuth token.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Client. The access token is fetched lazily on the
// first request and refreshed by the oauth2 transport when it expires.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// The token request and API requests both need the User-Agent header.
	base := &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{userAgent: cfg.UserAgent, base: http.DefaultTransport},
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	httpClient := cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
	httpClient.Timeout = timeout

	return &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: httpClient,
	}
}

type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// About returns the account metadata for username.
func (c *Client) About(ctx context.Context, username string) (Account, error) {
	var resp thing[aboutData]
	if err := c.get(ctx, "/user/"+url.PathEscape(username)+"/about", nil, &resp); err != nil {
		return Account{}, err
	}
	d := resp.Data
	if d.IsSuspended {
		return Account{}, ErrSuspended
	}

	sec, frac := math.Modf(d.CreatedUTC)
	acct := Account{
		Name:         d.Name,
		Created:      time.Unix(int64(sec), int64(frac*1e9)).UTC(),
		LinkKarma:    d.LinkKarma,
		CommentKarma: d.CommentKarma,
	}
	if d.HasVerifiedEmail != nil {
		acct.Verified = *d.HasVerifiedEmail
	}
	return acct, nil
}

// Submitted returns up to limit of the user's most recent posts, newest first.
func (c *Client) Submitted(ctx context.Context, username string, limit int) ([]persona.ContentItem, error) {
	var resp listing[postData]
	if err := c.get(ctx, "/user/"+url.PathEscape(username)+"/submitted", listQuery(limit), &resp); err != nil {
		return nil, err
	}
	items := make([]persona.ContentItem, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		items = append(items, persona.ContentItem{
			Kind:      persona.KindPost,
			Subreddit: child.Data.Subreddit,
			Permalink: child.Data.Permalink,
			Title:     child.Data.Title,
			SelfText:  child.Data.SelfText,
		})
	}
	return items, nil
}

// Comments returns up to limit of the user's most recent comments, newest first.
func (c *Client) Comments(ctx context.Context, username string, limit int) ([]persona.ContentItem, error) {
	var resp listing[commentData]
	if err := c.get(ctx, "/user/"+url.PathEscape(username)+"/comments", listQuery(limit), &resp); err != nil {
		return nil, err
	}
	items := make([]persona.ContentItem, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		items = append(items, persona.ContentItem{
			Kind:      persona.KindComment,
			Subreddit: child.Data.Subreddit,
			Permalink: child.Data.Permalink,
			Body:      child.Data.Body,
		})
	}
	return items, nil
}

// Trophies returns the names of the user's trophies in display order.
func (c *Client) Trophies(ctx context.Context, username string) ([]string, error) {
	var resp trophyList
	if err := c.get(ctx, "/api/v1/user/"+url.PathEscape(username)+"/trophies", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Data.Trophies))
	for _, t := range resp.Data.Trophies {
		names = append(names, t.Data.Name)
	}
	return names, nil
}

func listQuery(limit int) url.Values {
	q := url.Values{}
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	return q
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrUserNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
