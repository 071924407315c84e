package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// WriteFileSummaries outputs cached file listings, dispatching based on the
// output format configured.
func WriteFileSummaries(files []schema.FileSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, files)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForFiles(csvWriter, files)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFileTable(files, cfg, w)
		}, "Wrote table")
	}
}

// writeFileTable generates and writes the human-readable table.
func writeFileTable(files []schema.FileSummary, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Path", "Status", "Size", "Language"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, f := range files {
		data = append(data, []string{
			contract.TruncatePath(f.Path, getMaxTablePathWidth(cfg)),
			contract.GetStatusLabel(f.Status, cfg.UseColors),
			formatBytes(f.FileSizeBytes),
			f.Language,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "Showing %d files\n", len(files))
	return err
}

// writeCSVResultsForFiles writes the file listing in CSV format.
func writeCSVResultsForFiles(w *csv.Writer, files []schema.FileSummary) error {
	header := []string{"path", "status", "file_size_bytes", "language", "extension", "has_content"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, f := range files {
		rec := []string{
			f.Path,
			string(f.Status),
			strconv.Itoa(f.FileSizeBytes),
			f.Language,
			f.Extension,
			strconv.FormatBool(f.HasContent),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// formatBytes renders a byte count in a compact human-readable unit.
func formatBytes(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
