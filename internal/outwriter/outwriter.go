// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the
// command layer.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints an analysis result using the configured output format.
func (ow *OutWriter) WriteAnalysis(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResult(result, cfg, duration)
}

// WriteFiles prints cached file summaries using the configured output format.
func (ow *OutWriter) WriteFiles(files []schema.FileSummary, cfg *contract.Config) error {
	return WriteFileSummaries(files, cfg)
}

// WriteSearch prints content search matches using the configured output format.
func (ow *OutWriter) WriteSearch(matches map[string][]schema.SearchMatch, term string, cfg *contract.Config) error {
	return WriteSearchResults(matches, term, cfg)
}

// WriteStats prints cache statistics using the configured output format.
func (ow *OutWriter) WriteStats(stats schema.CacheStats, cfg *contract.Config) error {
	return WriteCacheStats(stats, cfg)
}

// WriteSnapshot prints snapshot store status using the configured output format.
func (ow *OutWriter) WriteSnapshot(status schema.SnapshotStatus, cfg *contract.Config) error {
	return WriteSnapshotStatus(status, cfg)
}

// getMaxTablePathWidth calculates the maximum width for file paths in table
// output based on terminal width.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns (status, additions, deletions,
	// language) plus table borders and padding.
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
