package schema

import "time"

// CachedAnalysis is one cache entry: everything captured for a single
// repository+branch analysis, keyed by "{repository}:{branch}".
type CachedAnalysis struct {
	Repository string    `json:"repository"`
	Branch     string    `json:"branch"`
	CommitSHA  string    `json:"commit_sha"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	Files map[string]*CachedFile `json:"files"`

	TotalAdditions int      `json:"total_additions"`
	TotalDeletions int      `json:"total_deletions"`
	Components     []string `json:"components"`
	TestCoverage   float64  `json:"test_coverage"`

	TTL time.Duration `json:"ttl"`
}

// Key returns the composite cache key for this entry.
func (a *CachedAnalysis) Key() string {
	return CacheKey(a.Repository, a.Branch)
}

// CacheKey composes the cache key for a repository and branch.
func CacheKey(repository, branch string) string {
	return repository + ":" + branch
}

// IsExpired reports whether the entry's age exceeds its TTL at time now.
func (a *CachedAnalysis) IsExpired(now time.Time) bool {
	return now.Sub(a.AnalyzedAt) > a.TTL
}

// ContentSizeBytes returns the total content bytes across all file records.
func (a *CachedAnalysis) ContentSizeBytes() int {
	total := 0
	for _, f := range a.Files {
		total += f.ContentSizeBytes()
	}
	return total
}

// ContentSizeMB returns the total content size in megabytes.
func (a *CachedAnalysis) ContentSizeMB() float64 {
	return float64(a.ContentSizeBytes()) / (1024 * 1024)
}

// AnalysisSummary is the lightweight view of a CachedAnalysis.
type AnalysisSummary struct {
	Repository     string    `json:"repository"`
	Branch         string    `json:"branch"`
	CommitSHA      string    `json:"commit_sha"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	FileCount      int       `json:"file_count"`
	TotalAdditions int       `json:"total_additions"`
	TotalDeletions int       `json:"total_deletions"`
	Components     []string  `json:"components"`
	TestCoverage   float64   `json:"test_coverage"`
	SizeMB         float64   `json:"size_mb"`
}

// Summary projects the entry to its lightweight view.
func (a *CachedAnalysis) Summary() AnalysisSummary {
	return AnalysisSummary{
		Repository:     a.Repository,
		Branch:         a.Branch,
		CommitSHA:      a.CommitSHA,
		AnalyzedAt:     a.AnalyzedAt,
		FileCount:      len(a.Files),
		TotalAdditions: a.TotalAdditions,
		TotalDeletions: a.TotalDeletions,
		Components:     a.Components,
		TestCoverage:   a.TestCoverage,
		SizeMB:         a.ContentSizeMB(),
	}
}
