// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/Ponnammaah123/test-agent/schema"
)

// GitHost defines the operations the analyzer needs from a Git hosting
// provider. This allows the analysis logic to be tested without a live
// GitHub or GitLab instance.
type GitHost interface {
	// --- Read path ---

	// LatestCommit returns the SHA of the most recent commit on a branch.
	LatestCommit(ctx context.Context, branch string) (string, error)

	// ParentCommit returns the SHA of the first parent of a commit, or ""
	// when the commit has no parent.
	ParentCommit(ctx context.Context, sha string) (string, error)

	// ChangedFiles returns the file changes introduced by a commit.
	ChangedFiles(ctx context.Context, sha string) ([]schema.FileChange, error)

	// FileContent returns the decoded content of a file at a ref. A nil
	// result with a nil error means the file was skipped (too large or not
	// valid UTF-8), which is not an error condition.
	FileContent(ctx context.Context, path, ref string) (*string, error)

	// ListTree returns every blob path in the branch's full file tree.
	ListTree(ctx context.Context, branch string) ([]string, error)

	// --- Write path ---

	// CreateBranch creates a new branch from the base branch's latest
	// commit.
	CreateBranch(ctx context.Context, newBranch, baseBranch string) error

	// PushFiles lands all files as a single commit on the target branch.
	PushFiles(ctx context.Context, targetBranch string, files map[string]string, message string) error

	// CreatePullRequest opens a pull request from head into base.
	CreatePullRequest(ctx context.Context, head, base, title, body string) (*schema.PullRequest, error)

	// FindOpenPullRequest looks up an open pull request into base by exact
	// head branch first, then by title prefix. Returns nil when none match.
	FindOpenPullRequest(ctx context.Context, headBranch, titlePrefix, base string) (*schema.PullRequest, error)

	// UpdatePullRequest replaces the body of an existing pull request.
	UpdatePullRequest(ctx context.Context, number int, body string) (*schema.PullRequest, error)
}

// SnapshotStore defines durable storage for serialized cache entries.
// This allows the persistence layer to be mocked for testing.
type SnapshotStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	Keys() ([]string, error)
	GetStatus() (schema.SnapshotStatus, error)
	Close() error
}

// TicketService defines the operations needed from the issue tracker.
type TicketService interface {
	// FetchTicket retrieves a ticket by its key.
	FetchTicket(ctx context.Context, key string) (*schema.JiraTicket, error)

	// AddComment posts a comment on a ticket. Failures propagate.
	AddComment(ctx context.Context, key, body string) error
}

// PlannerService defines the test-plan drafting operation.
type PlannerService interface {
	// DraftPlan produces a test plan for a ticket given codebase context.
	DraftPlan(ctx context.Context, ticket *schema.JiraTicket, analysis *schema.AnalysisResult) (*schema.TestPlan, error)
}
