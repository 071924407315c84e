package contentcache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Ponnammaah123/test-agent/internal/parquet"
	"github.com/Ponnammaah123/test-agent/schema"
)

// exportVersion tags the JSON export format.
const exportVersion = 1

// exportDocument is the flat on-disk shape of a cache export.
type exportDocument struct {
	Version int                      `json:"version"`
	Entries []*schema.CachedAnalysis `json:"entries"`
}

// ExportJSON writes every live entry to w as a single JSON document.
func (c *Cache) ExportJSON(w io.Writer) error {
	doc := exportDocument{
		Version: exportVersion,
		Entries: c.Entries(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode cache export: %w", err)
	}
	return nil
}

// ExportJSONFile writes the export document to a file path.
func (c *Cache) ExportJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return c.ExportJSON(f)
}

// ImportJSON reads an export document from r and restores its entries,
// preserving their original timestamps and TTLs. Returns the number of
// entries restored.
func (c *Cache) ImportJSON(r io.Reader) (int, error) {
	var doc exportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to decode cache export: %w", err)
	}
	if doc.Version != exportVersion {
		return 0, fmt.Errorf("unsupported cache export version %d (expected %d)", doc.Version, exportVersion)
	}
	for _, entry := range doc.Entries {
		if entry.Files == nil {
			entry.Files = make(map[string]*schema.CachedFile)
		}
		c.Restore(entry)
	}
	return len(doc.Entries), nil
}

// ImportJSONFile restores entries from a file written by ExportJSONFile.
func (c *Cache) ImportJSONFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open export file %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return c.ImportJSON(f)
}

// ExportParquetFile flattens every file record of every live entry and
// writes them to a Parquet file for downstream analytics tooling.
func (c *Cache) ExportParquetFile(path string) (int, error) {
	records := parquet.ConvertFileRecords(c.Entries())
	if len(records) == 0 {
		return 0, fmt.Errorf("no cached file records found to export")
	}
	if err := parquet.WriteFileRecordsParquet(records, path); err != nil {
		return 0, fmt.Errorf("failed to write parquet export: %w", err)
	}
	return len(records), nil
}
