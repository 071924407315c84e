package schema

import "time"

// FileChange is a raw change record reported by the Git host for a branch's
// latest commit, before enrichment.
type FileChange struct {
	Path      string     `json:"path"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`

	// Patch is the per-file unified diff when the provider returns it
	// alongside the change listing.
	Patch *string `json:"patch,omitempty"`
}

// EnvironmentConfig carries optional deployment context attached to an
// analysis, used downstream when drafting test plans.
type EnvironmentConfig struct {
	Name   string `json:"name"`
	AppURL string `json:"app_url"`
	APIURL string `json:"api_url"`
}

// AnalysisResult is the caller-facing outcome of analyzing a branch.
type AnalysisResult struct {
	Repository     string             `json:"repository"`
	Branch         string             `json:"branch"`
	CommitSHA      string             `json:"commit_sha"`
	AnalyzedAt     time.Time          `json:"analyzed_at"`
	Files          []FileSummary      `json:"files"`
	TotalAdditions int                `json:"total_additions"`
	TotalDeletions int                `json:"total_deletions"`
	Components     []string           `json:"components"`
	TestCoverage   float64            `json:"test_coverage"`
	FromCache      bool               `json:"from_cache"`
	Environment    *EnvironmentConfig `json:"environment,omitempty"`
}

// SearchMatch is one matching line from a content search.
type SearchMatch struct {
	Line int    `json:"line"` // 1-based
	Text string `json:"text"`
}

// PullRequest describes a pull or merge request on the Git host.
type PullRequest struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	HeadBranch string `json:"head_branch"`
	BaseBranch string `json:"base_branch"`
	URL        string `json:"url"`
	State      string `json:"state"`
}
