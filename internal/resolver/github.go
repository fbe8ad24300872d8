package resolver

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// GitHubHost is the host whose remotes the GitHub backend answers for
const GitHubHost = "github.com"

// GitHubBackend reads the default branch from the GitHub REST API. Remotes on
// other hosts are handed to the fallback backend.
type GitHubBackend struct {
	client   *github.Client
	host     string
	fallback Backend
}

// NewGitHubBackend creates a backend authenticated with GITHUB_TOKEN when set
func NewGitHubBackend(ctx context.Context, fallback Backend) *GitHubBackend {
	var client *github.Client
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		client = github.NewClient(oauth2.NewClient(ctx, ts))
	} else {
		client = github.NewClient(nil)
	}
	return NewGitHubBackendWithClient(client, GitHubHost, fallback)
}

// NewGitHubBackendWithClient creates a backend over an existing client
func NewGitHubBackendWithClient(client *github.Client, host string, fallback Backend) *GitHubBackend {
	return &GitHubBackend{client: client, host: host, fallback: fallback}
}

// DefaultBranch implements Backend
func (b *GitHubBackend) DefaultBranch(ctx context.Context, remote string) (string, error) {
	owner, repo, ok := parseGitHubRemote(remote, b.host)
	if !ok {
		if b.fallback == nil {
			return "", fmt.Errorf("%s is not a %s repository", remote, b.host)
		}
		return b.fallback.DefaultBranch(ctx, remote)
	}

	r, _, err := b.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
	}
	branch := r.GetDefaultBranch()
	if branch == "" {
		return "", fmt.Errorf("repository %s/%s has no default branch", owner, repo)
	}
	return branch, nil
}

// parseGitHubRemote extracts owner and repository from https and scp-style
// remotes on host
func parseGitHubRemote(remote, host string) (string, string, bool) {
	var p string
	switch {
	case strings.HasPrefix(remote, "git@"+host+":"):
		p = strings.TrimPrefix(remote, "git@"+host+":")
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil || !strings.EqualFold(u.Hostname(), host) {
			return "", "", false
		}
		p = u.Path
	default:
		return "", "", false
	}

	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	parts := strings.Split(p, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
