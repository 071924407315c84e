// Package parquet provides data structures and functions for exporting cached
// file records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/Ponnammaah123/test-agent/schema"
)

// FileRecord represents one cached file of one analysis entry, flattened for
// analytics tooling. Bulk content is carried so exports can feed downstream
// search or ML pipelines; the nullable fields mirror the cache records.
type FileRecord struct {
	// Repository is the "owner/repo" identity of the analysis entry
	Repository string `parquet:"repository,snappy"`

	// Branch is the branch of the analysis entry
	Branch string `parquet:"branch,snappy"`

	// CommitSHA is the commit the analysis was taken from
	CommitSHA string `parquet:"commit_sha,snappy"`

	// AnalyzedAt is when the entry was cached (stored as TIMESTAMP with nanosecond precision)
	AnalyzedAt time.Time `parquet:"analyzed_at,snappy"`

	// FilePath is the repository-relative path of the file
	FilePath string `parquet:"file_path,snappy"`

	// Status is the change status (added, modified, deleted, existing)
	Status string `parquet:"status,snappy"`

	// Content is the current file content (nullable)
	Content *string `parquet:"content,optional,snappy"`

	// OriginalContent is the pre-change content (nullable)
	OriginalContent *string `parquet:"original_content,optional,snappy"`

	// Diff is the unified diff (nullable)
	Diff *string `parquet:"diff,optional,snappy"`

	// Additions is the number of added lines
	Additions int32 `parquet:"additions,snappy"`

	// Deletions is the number of deleted lines
	Deletions int32 `parquet:"deletions,snappy"`

	// FileSizeBytes is the byte length of the current content
	FileSizeBytes int64 `parquet:"file_size_bytes,snappy"`

	// FileHash is the hex SHA-256 digest of the current content
	FileHash string `parquet:"file_hash,snappy"`

	// Language is the detected programming language
	Language string `parquet:"language,snappy"`

	// Extension is the lower-cased file extension
	Extension string `parquet:"extension,snappy"`
}

// WriteFileRecordsParquet writes a slice of FileRecord structs to a Parquet file.
func WriteFileRecordsParquet(data []FileRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the FileRecord struct tags
	writer := parquet.NewGenericWriter[FileRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertFileRecords flattens analysis entries into FileRecord rows for
// Parquet export.
func ConvertFileRecords(entries []*schema.CachedAnalysis) []FileRecord {
	var result []FileRecord
	for _, entry := range entries {
		for _, f := range entry.Files {
			result = append(result, FileRecord{
				Repository:      entry.Repository,
				Branch:          entry.Branch,
				CommitSHA:       entry.CommitSHA,
				AnalyzedAt:      entry.AnalyzedAt,
				FilePath:        f.Path,
				Status:          string(f.Status),
				Content:         f.Content,
				OriginalContent: f.OriginalContent,
				Diff:            f.Diff,
				Additions:       int32(f.Additions),
				Deletions:       int32(f.Deletions),
				FileSizeBytes:   int64(f.FileSizeBytes),
				FileHash:        f.FileHash,
				Language:        f.Language,
				Extension:       f.Extension,
			})
		}
	}
	return result
}
