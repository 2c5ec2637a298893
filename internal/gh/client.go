// Package gh wraps the GitHub REST API for organization repository listing.
package gh

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/pullr/internal/puller"
	"golang.org/x/oauth2"
)

const defaultPerPage = 100 // maximum allowed by the GitHub API

// Client lists organization repositories with pagination.
type Client struct {
	api     *github.Client
	perPage int
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithPerPage overrides the page size requested from the API.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithBaseURL points the client at a different API endpoint. Used by tests
// and GitHub Enterprise installations.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}

		if u, err := url.Parse(baseURL); err == nil {
			c.api.BaseURL = u
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a GitHub client. An empty token yields an
// unauthenticated client, which works for public organizations at lower
// rate limits.
func NewClient(ctx context.Context, token string, opts ...Option) *Client {
	var httpClient *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	c := &Client{
		api:     github.NewClient(httpClient),
		perPage: defaultPerPage,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListOrgRepos fetches every repository of the organization, page by page,
// concatenating records in server-provided order. It performs no retries;
// the first error aborts the fetch.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]puller.Record, error) {
	opt := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var records []puller.Record

	for page := 1; ; page++ {
		repos, resp, err := c.api.Repositories.ListByOrg(ctx, org, opt)
		if err != nil {
			return nil, classifyListError(org, err)
		}

		c.logger.Debug("fetched repository page",
			slog.String("org", org),
			slog.Int("page", page),
			slog.Int("count", len(repos)),
		)

		for _, repo := range repos {
			records = append(records, recordFrom(repo))
		}

		if resp.NextPage == 0 {
			break
		}

		opt.Page = resp.NextPage
	}

	return records, nil
}

// recordFrom converts an API repository into the immutable domain record.
func recordFrom(repo *github.Repository) puller.Record {
	return puller.Record{
		Name:     repo.GetName(),
		CloneURL: repo.GetCloneURL(),
		SSHURL:   repo.GetSSHURL(),
		Fork:     repo.GetFork(),
		Archived: repo.GetArchived(),
	}
}
