package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// WriteAnalysisResult outputs an analysis result, dispatching based on the
// output format configured.
func WriteAnalysisResult(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForAnalysis(csvWriter, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(result, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeAnalysisTable generates and writes the human-readable table.
func writeAnalysisTable(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Path", "Status", "+", "-", "Language", "Content"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, f := range result.Files {
		content := "yes"
		if !f.HasContent {
			content = "no"
		}
		data = append(data, []string{
			contract.TruncatePath(f.Path, getMaxTablePathWidth(cfg)),
			contract.GetStatusLabel(f.Status, cfg.UseColors),
			strconv.Itoa(f.Additions),
			strconv.Itoa(f.Deletions),
			f.Language,
			content,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	source := "host"
	if result.FromCache {
		source = "cache"
	}
	if _, err := fmt.Fprintf(writer, "%s@%s at %s: %d files, +%d/-%d\n",
		result.Repository, result.Branch, shortSHA(result.CommitSHA),
		len(result.Files), result.TotalAdditions, result.TotalDeletions); err != nil {
		return err
	}
	if len(result.Components) > 0 {
		if _, err := fmt.Fprintf(writer, "Components: %s\n", strings.Join(result.Components, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Coverage: %s%%. Analysis completed in %v from %s with %d workers\n",
		fmtFloat(result.TestCoverage), duration, source, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForAnalysis writes the analysis results in CSV format.
func writeCSVResultsForAnalysis(w *csv.Writer, result *schema.AnalysisResult) error {
	header := []string{
		"path",
		"status",
		"additions",
		"deletions",
		"file_size_bytes",
		"language",
		"extension",
		"has_content",
		"has_diff",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, f := range result.Files {
		rec := []string{
			f.Path,
			string(f.Status),
			strconv.Itoa(f.Additions),
			strconv.Itoa(f.Deletions),
			strconv.Itoa(f.FileSizeBytes),
			f.Language,
			f.Extension,
			strconv.FormatBool(f.HasContent),
			strconv.FormatBool(f.HasDiff),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// shortSHA abbreviates a commit SHA for display.
func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
