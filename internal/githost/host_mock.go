package githost

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// MockGitHost is a testify mock of contract.GitHost.
type MockGitHost struct {
	mock.Mock
}

var _ contract.GitHost = &MockGitHost{} // Compile-time check

// LatestCommit mocks commit discovery.
func (m *MockGitHost) LatestCommit(ctx context.Context, branch string) (string, error) {
	args := m.Called(ctx, branch)
	return args.String(0), args.Error(1)
}

// ParentCommit mocks parent lookup.
func (m *MockGitHost) ParentCommit(ctx context.Context, sha string) (string, error) {
	args := m.Called(ctx, sha)
	return args.String(0), args.Error(1)
}

// ChangedFiles mocks change listing.
func (m *MockGitHost) ChangedFiles(ctx context.Context, sha string) ([]schema.FileChange, error) {
	args := m.Called(ctx, sha)
	var changes []schema.FileChange
	if args.Get(0) != nil {
		changes = args.Get(0).([]schema.FileChange)
	}
	return changes, args.Error(1)
}

// FileContent mocks content retrieval.
func (m *MockGitHost) FileContent(ctx context.Context, path, ref string) (*string, error) {
	args := m.Called(ctx, path, ref)
	var content *string
	if args.Get(0) != nil {
		content = args.Get(0).(*string)
	}
	return content, args.Error(1)
}

// ListTree mocks full-tree listing.
func (m *MockGitHost) ListTree(ctx context.Context, branch string) ([]string, error) {
	args := m.Called(ctx, branch)
	var paths []string
	if args.Get(0) != nil {
		paths = args.Get(0).([]string)
	}
	return paths, args.Error(1)
}

// CreateBranch mocks branch creation.
func (m *MockGitHost) CreateBranch(ctx context.Context, newBranch, baseBranch string) error {
	args := m.Called(ctx, newBranch, baseBranch)
	return args.Error(0)
}

// PushFiles mocks the atomic multi-file commit.
func (m *MockGitHost) PushFiles(ctx context.Context, targetBranch string, files map[string]string, message string) error {
	args := m.Called(ctx, targetBranch, files, message)
	return args.Error(0)
}

// CreatePullRequest mocks PR creation.
func (m *MockGitHost) CreatePullRequest(ctx context.Context, head, base, title, body string) (*schema.PullRequest, error) {
	args := m.Called(ctx, head, base, title, body)
	var pr *schema.PullRequest
	if args.Get(0) != nil {
		pr = args.Get(0).(*schema.PullRequest)
	}
	return pr, args.Error(1)
}

// FindOpenPullRequest mocks the idempotent PR lookup.
func (m *MockGitHost) FindOpenPullRequest(ctx context.Context, headBranch, titlePrefix, base string) (*schema.PullRequest, error) {
	args := m.Called(ctx, headBranch, titlePrefix, base)
	var pr *schema.PullRequest
	if args.Get(0) != nil {
		pr = args.Get(0).(*schema.PullRequest)
	}
	return pr, args.Error(1)
}

// UpdatePullRequest mocks PR body replacement.
func (m *MockGitHost) UpdatePullRequest(ctx context.Context, number int, body string) (*schema.PullRequest, error) {
	args := m.Called(ctx, number, body)
	var pr *schema.PullRequest
	if args.Get(0) != nil {
		pr = args.Get(0).(*schema.PullRequest)
	}
	return pr, args.Error(1)
}
