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

// WriteCacheStats outputs cache statistics, dispatching based on the output
// format configured.
func WriteCacheStats(stats schema.CacheStats, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForStats(csvWriter, stats)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsTable(stats, cfg, w)
		}, "Wrote table")
	}
}

// writeStatsTable generates and writes the human-readable table.
func writeStatsTable(stats schema.CacheStats, cfg *contract.Config, writer io.Writer) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Key", "Files", "Size (MB)", "Analyzed", "Expired"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, e := range stats.Entries {
		data = append(data, []string{
			e.Key,
			strconv.Itoa(e.FileCount),
			fmtFloat(e.SizeMB),
			e.AnalyzedAt.Format(contract.DateTimeFormat),
			strconv.FormatBool(e.Expired),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Entries: %d/%d. Size: %s/%s MB\n",
		stats.EntryCount, stats.MaxEntries, fmtFloat(stats.CurrentSizeMB), fmtFloat(stats.MaxSizeMB)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Hits: %d, misses: %d, hit rate: %s%%\n",
		stats.HitCount, stats.MissCount, fmtFloat(stats.HitRate))
	return err
}

// writeCSVResultsForStats writes the per-entry statistics in CSV format.
func writeCSVResultsForStats(w *csv.Writer, stats schema.CacheStats) error {
	header := []string{"key", "file_count", "size_mb", "analyzed_at", "expired"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, e := range stats.Entries {
		rec := []string{
			e.Key,
			strconv.Itoa(e.FileCount),
			strconv.FormatFloat(e.SizeMB, 'f', -1, 64),
			e.AnalyzedAt.Format(contract.DateTimeFormat),
			strconv.FormatBool(e.Expired),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteSnapshotStatus outputs snapshot store status, dispatching based on
// the output format configured.
func WriteSnapshotStatus(status schema.SnapshotStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotText(status, w)
		}, "Wrote status")
	}
}

// writeSnapshotText prints the snapshot store status as key/value lines.
func writeSnapshotText(status schema.SnapshotStatus, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Backend: %s (connected: %t)\n", status.Backend, status.Connected); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Entries: %d, table size: %d bytes\n", status.TotalEntries, status.TableSizeBytes); err != nil {
		return err
	}
	if status.TotalEntries > 0 {
		if _, err := fmt.Fprintf(w, "Oldest: %s, newest: %s\n",
			status.OldestEntryTime.Format(contract.DateTimeFormat),
			status.LastEntryTime.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	return nil
}
