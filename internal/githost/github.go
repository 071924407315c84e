package githost

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/go-github/v67/github"
	"github.com/rs/zerolog"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// GitHubHost adapts the GitHub REST API to the contract.GitHost interface.
type GitHubHost struct {
	client *github.Client
	owner  string
	repo   string
	logger zerolog.Logger
}

var _ contract.GitHost = &GitHubHost{} // Compile-time check

// NewGitHubHost creates an adapter for github.com using token auth and the
// retrying HTTP client.
func NewGitHubHost(cfg *contract.Config, logger zerolog.Logger) (*GitHubHost, error) {
	client := github.NewClient(NewHTTPClient(logger)).WithAuthToken(cfg.Token)
	return &GitHubHost{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		logger: logger,
	}, nil
}

// NewGitHubHostWithClient creates an adapter around an existing client,
// used by tests to point at a local server.
func NewGitHubHostWithClient(client *github.Client, owner, repo string, logger zerolog.Logger) *GitHubHost {
	return &GitHubHost{client: client, owner: owner, repo: repo, logger: logger}
}

// LatestCommit returns the SHA of the newest commit on a branch.
func (h *GitHubHost) LatestCommit(ctx context.Context, branch string) (string, error) {
	commits, _, err := h.client.Repositories.ListCommits(ctx, h.owner, h.repo, &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", fmt.Errorf("failed to list commits for branch %q: %w", branch, err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("branch %q: %w", branch, ErrNoCommits)
	}
	return commits[0].GetSHA(), nil
}

// ParentCommit returns the first parent of a commit, or "" for a root commit.
func (h *GitHubHost) ParentCommit(ctx context.Context, sha string) (string, error) {
	commit, _, err := h.client.Repositories.GetCommit(ctx, h.owner, h.repo, sha, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %q: %w", sha, err)
	}
	if len(commit.Parents) == 0 {
		return "", nil
	}
	return commit.Parents[0].GetSHA(), nil
}

// ChangedFiles returns the per-file changes of a commit, including the
// per-file unified diff when GitHub reports one.
func (h *GitHubHost) ChangedFiles(ctx context.Context, sha string) ([]schema.FileChange, error) {
	commit, _, err := h.client.Repositories.GetCommit(ctx, h.owner, h.repo, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %q: %w", sha, err)
	}

	changes := make([]schema.FileChange, 0, len(commit.Files))
	for _, f := range commit.Files {
		change := schema.FileChange{
			Path:      f.GetFilename(),
			Status:    mapGitHubStatus(f.GetStatus()),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		}
		if f.Patch != nil {
			change.Patch = f.Patch
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// mapGitHubStatus translates GitHub commit-file statuses into the cache's
// status enum. Renames and copies count as modifications.
func mapGitHubStatus(status string) schema.FileStatus {
	switch status {
	case "added":
		return schema.StatusAdded
	case "removed":
		return schema.StatusDeleted
	default:
		return schema.StatusModified
	}
}

// FileContent fetches a file's decoded content at a ref. Files over the size
// threshold or with non-UTF8 content are skipped with a nil result.
func (h *GitHubHost) FileContent(ctx context.Context, path, ref string) (*string, error) {
	fc, _, _, err := h.client.Repositories.GetContents(ctx, h.owner, h.repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return nil, fmt.Errorf("failed to get contents of %q at %q: %w", path, ref, err)
	}
	if fc == nil {
		return nil, fmt.Errorf("path %q at %q is not a file", path, ref)
	}
	if fc.GetSize() > contract.MaxContentBytes {
		h.logger.Debug().Str("path", path).Int("size", fc.GetSize()).Msg("skipping oversized file")
		return nil, nil
	}
	content, err := fc.GetContent()
	if err != nil {
		h.logger.Debug().Str("path", path).Err(err).Msg("skipping undecodable file")
		return nil, nil
	}
	if !utf8.ValidString(content) {
		h.logger.Debug().Str("path", path).Msg("skipping non-UTF8 file")
		return nil, nil
	}
	return &content, nil
}

// ListTree returns every blob path in the branch's recursive tree.
func (h *GitHubHost) ListTree(ctx context.Context, branch string) ([]string, error) {
	tree, _, err := h.client.Git.GetTree(ctx, h.owner, h.repo, branch, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for %q: %w", branch, err)
	}
	var paths []string
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			paths = append(paths, entry.GetPath())
		}
	}
	return paths, nil
}

// CreateBranch creates a ref pointing at the base branch's latest commit.
func (h *GitHubHost) CreateBranch(ctx context.Context, newBranch, baseBranch string) error {
	sha, err := h.LatestCommit(ctx, baseBranch)
	if err != nil {
		return err
	}
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + newBranch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}
	if _, _, err := h.client.Git.CreateRef(ctx, h.owner, h.repo, ref); err != nil {
		return fmt.Errorf("failed to create branch %q from %q: %w", newBranch, baseBranch, err)
	}
	return nil
}

// PushFiles lands all files as one commit on the target branch: one blob per
// file, a new tree on top of the branch's current tree, a commit, and a ref
// update. Any failure propagates.
func (h *GitHubHost) PushFiles(ctx context.Context, targetBranch string, files map[string]string, message string) error {
	ref, _, err := h.client.Git.GetRef(ctx, h.owner, h.repo, "heads/"+targetBranch)
	if err != nil {
		return fmt.Errorf("failed to resolve branch %q: %w", targetBranch, err)
	}
	baseSHA := ref.Object.GetSHA()

	baseCommit, _, err := h.client.Git.GetCommit(ctx, h.owner, h.repo, baseSHA)
	if err != nil {
		return fmt.Errorf("failed to get base commit %q: %w", baseSHA, err)
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]*github.TreeEntry, 0, len(paths))
	for _, path := range paths {
		blob, _, err := h.client.Git.CreateBlob(ctx, h.owner, h.repo, &github.Blob{
			Content:  github.String(files[path]),
			Encoding: github.String("utf-8"),
		})
		if err != nil {
			return fmt.Errorf("failed to create blob for %q: %w", path, err)
		}
		entries = append(entries, &github.TreeEntry{
			Path: github.String(path),
			Mode: github.String("100644"),
			Type: github.String("blob"),
			SHA:  blob.SHA,
		})
	}

	tree, _, err := h.client.Git.CreateTree(ctx, h.owner, h.repo, baseCommit.Tree.GetSHA(), entries)
	if err != nil {
		return fmt.Errorf("failed to create tree: %w", err)
	}

	commit, _, err := h.client.Git.CreateCommit(ctx, h.owner, h.repo, &github.Commit{
		Message: github.String(message),
		Tree:    tree,
		Parents: []*github.Commit{{SHA: github.String(baseSHA)}},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}

	ref.Object.SHA = commit.SHA
	if _, _, err := h.client.Git.UpdateRef(ctx, h.owner, h.repo, ref, false); err != nil {
		return fmt.Errorf("failed to update branch %q: %w", targetBranch, err)
	}

	h.logger.Info().Str("branch", targetBranch).Int("files", len(files)).Str("commit", commit.GetSHA()).Msg("pushed files")
	return nil
}

// CreatePullRequest opens a pull request from head into base.
func (h *GitHubHost) CreatePullRequest(ctx context.Context, head, base, title, body string) (*schema.PullRequest, error) {
	pr, _, err := h.client.PullRequests.Create(ctx, h.owner, h.repo, &github.NewPullRequest{
		Title: github.String(title),
		Head:  github.String(head),
		Base:  github.String(base),
		Body:  github.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request %q: %w", title, err)
	}
	return convertGitHubPR(pr), nil
}

// FindOpenPullRequest looks for an open pull request into base, matching the
// exact head branch first and falling back to a title prefix.
func (h *GitHubHost) FindOpenPullRequest(ctx context.Context, headBranch, titlePrefix, base string) (*schema.PullRequest, error) {
	prs, _, err := h.client.PullRequests.List(ctx, h.owner, h.repo, &github.PullRequestListOptions{
		State:       "open",
		Base:        base,
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list open pull requests: %w", err)
	}
	for _, pr := range prs {
		if pr.Head.GetRef() == headBranch {
			return convertGitHubPR(pr), nil
		}
	}
	if titlePrefix != "" {
		for _, pr := range prs {
			if strings.HasPrefix(pr.GetTitle(), titlePrefix) {
				return convertGitHubPR(pr), nil
			}
		}
	}
	return nil, nil
}

// UpdatePullRequest replaces the body of an existing pull request.
func (h *GitHubHost) UpdatePullRequest(ctx context.Context, number int, body string) (*schema.PullRequest, error) {
	pr, _, err := h.client.PullRequests.Edit(ctx, h.owner, h.repo, number, &github.PullRequest{Body: github.String(body)})
	if err != nil {
		return nil, fmt.Errorf("failed to update pull request #%d: %w", number, err)
	}
	return convertGitHubPR(pr), nil
}

func convertGitHubPR(pr *github.PullRequest) *schema.PullRequest {
	return &schema.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		HeadBranch: pr.Head.GetRef(),
		BaseBranch: pr.Base.GetRef(),
		URL:        pr.GetHTMLURL(),
		State:      pr.GetState(),
	}
}
