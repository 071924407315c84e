// Package core implements the codebase analysis pipeline. It turns a
// branch's latest commit into enriched file records, derives component
// names from the touched paths, and feeds the results into the content
// cache so repeated lookups never hit the Git host.
package core

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/Ponnammaah123/test-agent/internal/contentcache"
	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// Analyzer orchestrates analysis runs against one configured repository.
type Analyzer struct {
	cfg    *contract.Config
	cache  *contentcache.Cache
	host   contract.GitHost
	logger zerolog.Logger
}

// NewAnalyzer wires an analyzer to its cache and Git host.
func NewAnalyzer(cfg *contract.Config, cache *contentcache.Cache, host contract.GitHost, logger zerolog.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, cache: cache, host: host, logger: logger}
}

// Cache exposes the analyzer's content cache for read-side commands.
func (a *Analyzer) Cache() *contentcache.Cache {
	return a.cache
}

// Repository returns the identity used for cache keys. GitLab projects can
// nest groups, so the full path is used rather than owner/repo.
func (a *Analyzer) Repository() string {
	return a.cfg.ProjectPath
}

// resultFromEntry projects a cache entry to the caller-facing result with
// file summaries sorted by path.
func (a *Analyzer) resultFromEntry(entry *schema.CachedAnalysis, fromCache bool) *schema.AnalysisResult {
	files := make([]schema.FileSummary, 0, len(entry.Files))
	for _, f := range entry.Files {
		files = append(files, f.Summary())
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &schema.AnalysisResult{
		Repository:     entry.Repository,
		Branch:         entry.Branch,
		CommitSHA:      entry.CommitSHA,
		AnalyzedAt:     entry.AnalyzedAt,
		Files:          files,
		TotalAdditions: entry.TotalAdditions,
		TotalDeletions: entry.TotalDeletions,
		Components:     entry.Components,
		TestCoverage:   entry.TestCoverage,
		FromCache:      fromCache,
		Environment:    a.cfg.Environment,
	}
}
