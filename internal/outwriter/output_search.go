package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// WriteSearchResults outputs content search matches, dispatching based on
// the output format configured.
func WriteSearchResults(matches map[string][]schema.SearchMatch, term string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, matches)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForSearch(csvWriter, matches)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSearchText(matches, term, w)
		}, "Wrote results")
	}
}

// writeSearchText prints matches grouped by path, grep style.
func writeSearchText(matches map[string][]schema.SearchMatch, term string, w io.Writer) error {
	paths := sortedPaths(matches)
	total := 0
	for _, path := range paths {
		for _, m := range matches[path] {
			if _, err := fmt.Fprintf(w, "%s:%d: %s\n", path, m.Line, m.Text); err != nil {
				return err
			}
			total++
		}
	}
	_, err := fmt.Fprintf(w, "%d matches for %q in %d files\n", total, term, len(matches))
	return err
}

// writeCSVResultsForSearch writes the matches in CSV format.
func writeCSVResultsForSearch(w *csv.Writer, matches map[string][]schema.SearchMatch) error {
	if err := w.Write([]string{"path", "line", "text"}); err != nil {
		return err
	}
	for _, path := range sortedPaths(matches) {
		for _, m := range matches[path] {
			if err := w.Write([]string{path, strconv.Itoa(m.Line), m.Text}); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortedPaths returns the map keys in stable order.
func sortedPaths(matches map[string][]schema.SearchMatch) []string {
	paths := make([]string, 0, len(matches))
	for path := range matches {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
