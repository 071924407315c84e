package githost

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// GitLabHost adapts the GitLab REST API to the contract.GitHost interface.
// It also serves Gitea and other GitLab-compatible self-hosted instances.
type GitLabHost struct {
	client  *gitlab.Client
	project string
	logger  zerolog.Logger
}

var _ contract.GitHost = &GitLabHost{} // Compile-time check

// NewGitLabHost creates an adapter for a GitLab-compatible host using
// private-token auth and the retrying HTTP client.
func NewGitLabHost(cfg *contract.Config, logger zerolog.Logger) (*GitLabHost, error) {
	base, err := apiBaseURL(cfg.RepoURL)
	if err != nil {
		return nil, err
	}
	client, err := gitlab.NewClient(cfg.Token,
		gitlab.WithBaseURL(base+"/api/v4"),
		gitlab.WithHTTPClient(NewHTTPClient(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &GitLabHost{client: client, project: cfg.ProjectPath, logger: logger}, nil
}

// NewGitLabHostWithClient creates an adapter around an existing client,
// used by tests to point at a local server.
func NewGitLabHostWithClient(client *gitlab.Client, project string, logger zerolog.Logger) *GitLabHost {
	return &GitLabHost{client: client, project: project, logger: logger}
}

// LatestCommit returns the SHA of the newest commit on a branch.
func (h *GitLabHost) LatestCommit(ctx context.Context, branch string) (string, error) {
	commits, _, err := h.client.Commits.ListCommits(h.project, &gitlab.ListCommitsOptions{
		RefName:     gitlab.Ptr(branch),
		ListOptions: gitlab.ListOptions{PerPage: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list commits for branch %q: %w", branch, err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("branch %q: %w", branch, ErrNoCommits)
	}
	return commits[0].ID, nil
}

// ParentCommit returns the first parent of a commit, or "" for a root commit.
func (h *GitLabHost) ParentCommit(ctx context.Context, sha string) (string, error) {
	commit, _, err := h.client.Commits.GetCommit(h.project, sha, nil, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to get commit %q: %w", sha, err)
	}
	if len(commit.ParentIDs) == 0 {
		return "", nil
	}
	return commit.ParentIDs[0], nil
}

// ChangedFiles returns the per-file changes of a commit from its diff. The
// diff text itself is dropped; line counts are derived from it.
func (h *GitLabHost) ChangedFiles(ctx context.Context, sha string) ([]schema.FileChange, error) {
	diffs, _, err := h.client.Commits.GetCommitDiff(h.project, sha, &gitlab.GetCommitDiffOptions{}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get diff for commit %q: %w", sha, err)
	}

	changes := make([]schema.FileChange, 0, len(diffs))
	for _, d := range diffs {
		path := d.NewPath
		status := schema.StatusModified
		switch {
		case d.NewFile:
			status = schema.StatusAdded
		case d.DeletedFile:
			status = schema.StatusDeleted
			path = d.OldPath
		}
		additions, deletions := countDiffLines(d.Diff)
		changes = append(changes, schema.FileChange{
			Path:      path,
			Status:    status,
			Additions: additions,
			Deletions: deletions,
		})
	}
	return changes, nil
}

// countDiffLines tallies added and removed lines in a unified diff body.
func countDiffLines(diff string) (additions, deletions int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}

// FileContent fetches a file's raw content at a ref. Files over the size
// threshold or with non-UTF8 content are skipped with a nil result.
func (h *GitLabHost) FileContent(ctx context.Context, path, ref string) (*string, error) {
	raw, _, err := h.client.RepositoryFiles.GetRawFile(h.project, path, &gitlab.GetRawFileOptions{
		Ref: gitlab.Ptr(ref),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get raw file %q at %q: %w", path, ref, err)
	}
	if len(raw) > contract.MaxContentBytes {
		h.logger.Debug().Str("path", path).Int("size", len(raw)).Msg("skipping oversized file")
		return nil, nil
	}
	if !utf8.Valid(raw) {
		h.logger.Debug().Str("path", path).Msg("skipping non-UTF8 file")
		return nil, nil
	}
	content := string(raw)
	return &content, nil
}

// ListTree returns every blob path in the branch's recursive tree,
// paginating manually.
func (h *GitLabHost) ListTree(ctx context.Context, branch string) ([]string, error) {
	opts := &gitlab.ListTreeOptions{
		Ref:         gitlab.Ptr(branch),
		Recursive:   gitlab.Ptr(true),
		ListOptions: gitlab.ListOptions{PerPage: 100, Page: 1},
	}

	var paths []string
	for {
		nodes, resp, err := h.client.Repositories.ListTree(h.project, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list tree for %q: %w", branch, err)
		}
		for _, node := range nodes {
			if node.Type == "blob" {
				paths = append(paths, node.Path)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return paths, nil
}

// CreateBranch creates a new branch from the base branch.
func (h *GitLabHost) CreateBranch(ctx context.Context, newBranch, baseBranch string) error {
	_, _, err := h.client.Branches.CreateBranch(h.project, &gitlab.CreateBranchOptions{
		Branch: gitlab.Ptr(newBranch),
		Ref:    gitlab.Ptr(baseBranch),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create branch %q from %q: %w", newBranch, baseBranch, err)
	}
	return nil
}

// PushFiles lands all files as one commit on the target branch using commit
// actions. Existing files are updated, new files are created. Any failure
// propagates.
func (h *GitLabHost) PushFiles(ctx context.Context, targetBranch string, files map[string]string, message string) error {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	actions := make([]*gitlab.CommitActionOptions, 0, len(paths))
	for _, path := range paths {
		action := gitlab.FileCreate
		if h.fileExists(ctx, path, targetBranch) {
			action = gitlab.FileUpdate
		}
		actions = append(actions, &gitlab.CommitActionOptions{
			Action:   gitlab.Ptr(action),
			FilePath: gitlab.Ptr(path),
			Content:  gitlab.Ptr(files[path]),
		})
	}

	commit, _, err := h.client.Commits.CreateCommit(h.project, &gitlab.CreateCommitOptions{
		Branch:        gitlab.Ptr(targetBranch),
		CommitMessage: gitlab.Ptr(message),
		Actions:       actions,
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to commit %d files to %q: %w", len(files), targetBranch, err)
	}

	h.logger.Info().Str("branch", targetBranch).Int("files", len(files)).Str("commit", commit.ID).Msg("pushed files")
	return nil
}

// fileExists reports whether a path already exists on a branch.
func (h *GitLabHost) fileExists(ctx context.Context, path, ref string) bool {
	_, _, err := h.client.RepositoryFiles.GetFileMetaData(h.project, path, &gitlab.GetFileMetaDataOptions{
		Ref: gitlab.Ptr(ref),
	}, gitlab.WithContext(ctx))
	return err == nil
}

// CreatePullRequest opens a merge request from head into base.
func (h *GitLabHost) CreatePullRequest(ctx context.Context, head, base, title, body string) (*schema.PullRequest, error) {
	mr, _, err := h.client.MergeRequests.CreateMergeRequest(h.project, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(title),
		Description:  gitlab.Ptr(body),
		SourceBranch: gitlab.Ptr(head),
		TargetBranch: gitlab.Ptr(base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request %q: %w", title, err)
	}
	return convertGitLabMR(mr), nil
}

// FindOpenPullRequest looks for an open merge request into base, matching
// the exact source branch first and falling back to a title prefix.
func (h *GitLabHost) FindOpenPullRequest(ctx context.Context, headBranch, titlePrefix, base string) (*schema.PullRequest, error) {
	mrs, _, err := h.client.MergeRequests.ListProjectMergeRequests(h.project, &gitlab.ListProjectMergeRequestsOptions{
		State:        gitlab.Ptr("opened"),
		TargetBranch: gitlab.Ptr(base),
		ListOptions:  gitlab.ListOptions{PerPage: 100},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list open merge requests: %w", err)
	}
	for _, mr := range mrs {
		if mr.SourceBranch == headBranch {
			return convertGitLabMR(mr), nil
		}
	}
	if titlePrefix != "" {
		for _, mr := range mrs {
			if strings.HasPrefix(mr.Title, titlePrefix) {
				return convertGitLabMR(mr), nil
			}
		}
	}
	return nil, nil
}

// UpdatePullRequest replaces the description of an existing merge request.
func (h *GitLabHost) UpdatePullRequest(ctx context.Context, number int, body string) (*schema.PullRequest, error) {
	mr, _, err := h.client.MergeRequests.UpdateMergeRequest(h.project, number, &gitlab.UpdateMergeRequestOptions{
		Description: gitlab.Ptr(body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to update merge request !%d: %w", number, err)
	}
	return convertGitLabMR(mr), nil
}

func convertGitLabMR(mr *gitlab.MergeRequest) *schema.PullRequest {
	return &schema.PullRequest{
		Number:     mr.IID,
		Title:      mr.Title,
		Body:       mr.Description,
		HeadBranch: mr.SourceBranch,
		BaseBranch: mr.TargetBranch,
		URL:        mr.WebURL,
		State:      mr.State,
	}
}
