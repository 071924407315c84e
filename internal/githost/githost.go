// Package githost implements the Git hosting adapters for GitHub and
// GitLab-compatible providers.
package githost

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// ErrNoCommits is returned when a branch has no commit history.
var ErrNoCommits = errors.New("branch has no commits")

// NewHost builds the adapter matching the configured provider.
func NewHost(cfg *contract.Config, logger zerolog.Logger) (contract.GitHost, error) {
	switch cfg.Provider {
	case schema.GitHubProvider:
		return NewGitHubHost(cfg, logger)
	case schema.GitLabProvider:
		return NewGitLabHost(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// apiBaseURL derives the provider API root from a repository URL.
func apiBaseURL(repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("invalid repository URL %q: %w", repoURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("repository URL %q must include a scheme and host", repoURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}
