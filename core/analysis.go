package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ponnammaah123/test-agent/schema"
)

// placeholderCoverage is reported until coverage ingestion lands.
// TODO: replace with real coverage once CI report parsing is wired in.
const placeholderCoverage = 85.0

// Analyze resolves the branch's latest commit, enriches its changed files
// with content and diffs, and caches the outcome. A fresh cache entry for
// the branch short-circuits the whole pipeline.
func (a *Analyzer) Analyze(ctx context.Context, branch string) (*schema.AnalysisResult, error) {
	repo := a.Repository()

	// --- 1. Cache lookup ---
	if entry := a.cache.Get(repo, branch); entry != nil {
		a.logger.Debug().Str("branch", branch).Str("commit", entry.CommitSHA).Msg("Analysis served from cache")
		return a.resultFromEntry(entry, true), nil
	}

	// --- 2. Resolve the commit under analysis ---
	sha, err := a.host.LatestCommit(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest commit on '%s': %w", branch, err)
	}

	// --- 3. Change listing ---
	// A failed listing degrades to an empty file set so the run still
	// produces a usable entry for the commit.
	changes, err := a.host.ChangedFiles(ctx, sha)
	if err != nil {
		a.logger.Warn().Err(err).Str("commit", sha).Msg("Change listing failed; continuing with no files")
		changes = nil
	}

	// --- 4. Per-file enrichment ---
	files := a.enrichChanges(ctx, sha, branch, changes)

	paths := make([]string, 0, len(files))
	totalAdditions, totalDeletions := 0, 0
	for _, f := range files {
		paths = append(paths, f.Path)
		totalAdditions += f.Additions
		totalDeletions += f.Deletions
	}
	components := DeriveComponents(paths)

	// --- 5. Store and report ---
	a.cache.Set(repo, branch, sha, files, components, placeholderCoverage)

	summaries := make([]schema.FileSummary, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, f.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Path < summaries[j].Path })

	a.logger.Info().
		Str("branch", branch).
		Str("commit", sha).
		Int("files", len(files)).
		Strs("components", components).
		Msg("Analysis complete")

	return &schema.AnalysisResult{
		Repository:     repo,
		Branch:         branch,
		CommitSHA:      sha,
		AnalyzedAt:     time.Now(),
		Files:          summaries,
		TotalAdditions: totalAdditions,
		TotalDeletions: totalDeletions,
		Components:     components,
		TestCoverage:   placeholderCoverage,
		FromCache:      false,
		Environment:    a.cfg.Environment,
	}, nil
}

// enrichChanges fetches content for every changed file in parallel. Each
// goroutine writes to a unique index, so no locking is needed on the slice.
func (a *Analyzer) enrichChanges(ctx context.Context, sha, branch string, changes []schema.FileChange) []*schema.CachedFile {
	if len(changes) == 0 {
		return []*schema.CachedFile{}
	}

	// The parent commit is only needed when a modified file wants its
	// pre-change content. Resolving it is best effort.
	parentSHA := ""
	for _, c := range changes {
		if c.Status == schema.StatusModified {
			parent, err := a.host.ParentCommit(ctx, sha)
			if err != nil {
				a.logger.Debug().Err(err).Str("commit", sha).Msg("Parent commit unavailable; skipping original content")
			} else {
				parentSHA = parent
			}
			break
		}
	}

	files := make([]*schema.CachedFile, len(changes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, change := range changes {
		g.Go(func() error {
			files[i] = a.enrichFile(gctx, change, branch, parentSHA)
			return nil
		})
	}
	_ = g.Wait()

	return files
}

// enrichFile builds the cached record for one change. Fetch failures are
// tolerated per file: the change is still recorded, just without content.
func (a *Analyzer) enrichFile(ctx context.Context, change schema.FileChange, branch, parentSHA string) *schema.CachedFile {
	var content *string
	if change.Status != schema.StatusDeleted {
		fetched, err := a.host.FileContent(ctx, change.Path, branch)
		switch {
		case err != nil:
			a.logger.Warn().Err(err).Str("path", change.Path).Msg("Content fetch failed; recording change without content")
		case fetched == nil:
			a.logger.Debug().Str("path", change.Path).Msg("Content skipped (too large or not valid UTF-8)")
		default:
			content = fetched
		}
	}

	var original *string
	if change.Status == schema.StatusModified && parentSHA != "" {
		fetched, err := a.host.FileContent(ctx, change.Path, parentSHA)
		if err != nil {
			a.logger.Debug().Err(err).Str("path", change.Path).Msg("Original content unavailable")
		} else {
			original = fetched
		}
	}

	return schema.NewCachedFile(change.Path, change.Status, content, original, change.Patch, change.Additions, change.Deletions)
}
