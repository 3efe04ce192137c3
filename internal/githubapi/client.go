package githubapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weeklyworks/internal/config"
	"weeklyworks/pkg/models"

	"github.com/google/go-github/v66/github"
)

const perPage = 100

// Client wraps the GitHub REST API calls the weekly job needs.
type Client struct {
	gh         *github.Client
	repoConfig string
}

// NewClient creates a GitHub client. A custom base_url points the client at a
// GitHub Enterprise API root or a test server.
func NewClient(cfg config.GitHubConfig) (*Client, error) {
	gh := github.NewClient(&http.Client{Timeout: 15 * time.Second})
	if cfg.Token != "" {
		gh = gh.WithAuthToken(cfg.Token)
	}
	gh.UserAgent = "weeklyworks"

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github base_url %q: %w", cfg.BaseURL, err)
		}
		gh.BaseURL = u
	}

	repoConfig := cfg.RepoConfig
	if repoConfig == "" {
		repoConfig = config.DefaultRepoConfig
	}
	return &Client{gh: gh, repoConfig: repoConfig}, nil
}

// TestConnection checks that the API is reachable and the repository visible
// with the configured credentials.
func (c *Client) TestConnection(ctx context.Context, owner, repo string) error {
	if _, err := c.GetRepository(ctx, owner, repo); err != nil {
		return fmt.Errorf("github connection test failed: %w", err)
	}
	return nil
}

// GetRepository resolves the display identity of owner/repo.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (models.Repository, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return models.Repository{}, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	return models.Repository{
		Owner:    owner,
		Name:     repo,
		FullName: r.GetFullName(),
		HTMLURL:  r.GetHTMLURL(),
	}, nil
}

// ListClosedPRs fetches every closed pull request of owner/repo, following
// pagination until GitHub reports no further page. Server order is kept.
func (c *Client) ListClosedPRs(ctx context.Context, owner, repo string) ([]models.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "closed",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var prs []models.PullRequest
	for {
		page, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list closed pull requests for %s/%s (page %d): %w", owner, repo, opts.Page, err)
		}
		for _, pr := range page {
			prs = append(prs, toModel(pr))
		}
		slog.Debug("Fetched pull request page", "repo", owner+"/"+repo, "page", opts.Page, "count", len(page))

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return prs, nil
}

// LoadRepoConfig reads the per-repository config file from the default
// branch. A missing file yields an empty config.
func (c *Client) LoadRepoConfig(ctx context.Context, owner, repo string) (config.RepoConfig, error) {
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, c.repoConfig, nil)
	if err != nil {
		if isNotFound(resp, err) {
			slog.Debug("No repository config file", "repo", owner+"/"+repo, "path", c.repoConfig)
			return config.RepoConfig{}, nil
		}
		return config.RepoConfig{}, fmt.Errorf("get %s from %s/%s: %w", c.repoConfig, owner, repo, err)
	}
	if file == nil {
		return config.RepoConfig{}, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return config.RepoConfig{}, fmt.Errorf("decode %s from %s/%s: %w", c.repoConfig, owner, repo, err)
	}
	return config.ParseRepoConfig([]byte(content))
}

func isNotFound(resp *github.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

func toModel(pr *github.PullRequest) models.PullRequest {
	out := models.PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		State:   pr.GetState(),
		HTMLURL: pr.GetHTMLURL(),
		User: models.User{
			Login:   pr.GetUser().GetLogin(),
			HTMLURL: pr.GetUser().GetHTMLURL(),
		},
	}
	if pr.MergedAt != nil {
		merged := pr.GetMergedAt().UTC()
		out.MergedAt = &merged
	}
	return out
}
