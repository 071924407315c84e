package core

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ponnammaah123/test-agent/internal/contentcache"
	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/internal/githost"
	"github.com/Ponnammaah123/test-agent/schema"
)

func strPtr(s string) *string { return &s }

func newTestAnalyzer(host contract.GitHost) *Analyzer {
	cfg := &contract.Config{
		ProjectPath: "acme/app",
		Workers:     4,
	}
	cache := contentcache.New(contentcache.Options{
		MaxEntries: 10,
		MaxSizeMB:  100,
		Logger:     zerolog.Nop(),
	})
	return NewAnalyzer(cfg, cache, host, zerolog.Nop())
}

func TestAnalyzeEnrichesChangedFiles(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "main").Return("head-sha", nil)
	host.On("ChangedFiles", mock.Anything, "head-sha").Return([]schema.FileChange{
		{Path: "services/auth_service/login.ts", Status: schema.StatusModified, Additions: 3, Deletions: 1, Patch: strPtr("@@ diff @@")},
		{Path: "docs/new.md", Status: schema.StatusAdded, Additions: 10},
	}, nil)
	host.On("ParentCommit", mock.Anything, "head-sha").Return("parent-sha", nil)
	host.On("FileContent", mock.Anything, "services/auth_service/login.ts", "main").Return(strPtr("new body"), nil)
	host.On("FileContent", mock.Anything, "services/auth_service/login.ts", "parent-sha").Return(strPtr("old body"), nil)
	host.On("FileContent", mock.Anything, "docs/new.md", "main").Return(strPtr("# docs"), nil)

	a := newTestAnalyzer(host)
	result, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)

	assert.Equal(t, "acme/app", result.Repository)
	assert.Equal(t, "head-sha", result.CommitSHA)
	assert.False(t, result.FromCache)
	assert.Equal(t, 13, result.TotalAdditions)
	assert.Equal(t, 1, result.TotalDeletions)
	assert.Equal(t, []string{"auth"}, result.Components)
	assert.InDelta(t, 85.0, result.TestCoverage, 0.001)
	require.Len(t, result.Files, 2)

	// Cached records carry the full enrichment.
	cached := a.Cache().GetFile("acme/app", "main", "services/auth_service/login.ts")
	require.NotNil(t, cached)
	require.NotNil(t, cached.Content)
	assert.Equal(t, "new body", *cached.Content)
	require.NotNil(t, cached.OriginalContent)
	assert.Equal(t, "old body", *cached.OriginalContent)
	require.NotNil(t, cached.Diff)

	added := a.Cache().GetFile("acme/app", "main", "docs/new.md")
	require.NotNil(t, added)
	assert.Nil(t, added.OriginalContent, "added files have no prior version")
	host.AssertExpectations(t)
}

func TestAnalyzeSecondCallServedFromCache(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "main").Return("head-sha", nil).Once()
	host.On("ChangedFiles", mock.Anything, "head-sha").Return([]schema.FileChange{
		{Path: "a.ts", Status: schema.StatusAdded, Additions: 1},
	}, nil).Once()
	host.On("FileContent", mock.Anything, "a.ts", "main").Return(strPtr("const x=1;"), nil).Once()

	a := newTestAnalyzer(host)
	first, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.CommitSHA, second.CommitSHA)
	host.AssertExpectations(t)
}

func TestAnalyzeLatestCommitFailureIsFatal(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "gone").Return("", assert.AnError)

	a := newTestAnalyzer(host)
	result, err := a.Analyze(context.Background(), "gone")
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAnalyzeChangeListingFailureDegradesToEmpty(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "main").Return("head-sha", nil)
	host.On("ChangedFiles", mock.Anything, "head-sha").Return(nil, assert.AnError)

	a := newTestAnalyzer(host)
	result, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, "head-sha", result.CommitSHA)

	// The degraded run is still cached.
	entry := a.Cache().Get("acme/app", "main")
	require.NotNil(t, entry)
	assert.Empty(t, entry.Files)
}

func TestAnalyzePartialEnrichmentFailure(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "main").Return("head-sha", nil)
	host.On("ChangedFiles", mock.Anything, "head-sha").Return([]schema.FileChange{
		{Path: "a.ts", Status: schema.StatusAdded, Additions: 1},
		{Path: "b.ts", Status: schema.StatusAdded, Additions: 2},
		{Path: "c.ts", Status: schema.StatusAdded, Additions: 3},
	}, nil)
	host.On("FileContent", mock.Anything, "a.ts", "main").Return(strPtr("aaa"), nil)
	host.On("FileContent", mock.Anything, "b.ts", "main").Return(nil, assert.AnError)
	host.On("FileContent", mock.Anything, "c.ts", "main").Return(strPtr("ccc"), nil)

	a := newTestAnalyzer(host)
	result, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, result.Files, 3, "a failed fetch still records the change")

	failed := a.Cache().GetFile("acme/app", "main", "b.ts")
	require.NotNil(t, failed)
	assert.Nil(t, failed.Content)
	assert.Empty(t, failed.FileHash)
	assert.Zero(t, failed.FileSizeBytes)
	assert.Equal(t, 2, failed.Additions, "change metadata survives the failure")
}

func TestAnalyzeSkippedContentIsNotAnError(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "main").Return("head-sha", nil)
	host.On("ChangedFiles", mock.Anything, "head-sha").Return([]schema.FileChange{
		{Path: "big.bin", Status: schema.StatusAdded},
	}, nil)
	host.On("FileContent", mock.Anything, "big.bin", "main").Return(nil, nil)

	a := newTestAnalyzer(host)
	result, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.False(t, result.Files[0].HasContent)
}

func TestAnalyzeDeletedFileSkipsContentFetch(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "main").Return("head-sha", nil)
	host.On("ChangedFiles", mock.Anything, "head-sha").Return([]schema.FileChange{
		{Path: "old.ts", Status: schema.StatusDeleted, Deletions: 12},
	}, nil)

	a := newTestAnalyzer(host)
	result, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, schema.StatusDeleted, result.Files[0].Status)

	// No FileContent expectation was registered, so a fetch would fail the
	// mock assertions.
	host.AssertExpectations(t)
}

func TestAnalyzeParentCommitFailureSkipsOriginals(t *testing.T) {
	host := &githost.MockGitHost{}
	host.On("LatestCommit", mock.Anything, "main").Return("head-sha", nil)
	host.On("ChangedFiles", mock.Anything, "head-sha").Return([]schema.FileChange{
		{Path: "a.ts", Status: schema.StatusModified, Additions: 1, Deletions: 1},
	}, nil)
	host.On("ParentCommit", mock.Anything, "head-sha").Return("", assert.AnError)
	host.On("FileContent", mock.Anything, "a.ts", "main").Return(strPtr("body"), nil)

	a := newTestAnalyzer(host)
	_, err := a.Analyze(context.Background(), "main")
	require.NoError(t, err)

	cached := a.Cache().GetFile("acme/app", "main", "a.ts")
	require.NotNil(t, cached)
	require.NotNil(t, cached.Content)
	assert.Nil(t, cached.OriginalContent)
}
