package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ponnammaah123/test-agent/schema"
)

func strPtr(s string) *string { return &s }

func TestFileRecordStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	parquetSchema := parquet.SchemaOf(new(FileRecord))
	require.NotNil(t, parquetSchema)

	expectedColumns := []string{
		"repository",
		"branch",
		"commit_sha",
		"analyzed_at",
		"file_path",
		"status",
		"content",
		"original_content",
		"diff",
		"additions",
		"deletions",
		"file_size_bytes",
		"file_hash",
		"language",
		"extension",
	}

	for _, colName := range expectedColumns {
		col, ok := parquetSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertFileRecords(t *testing.T) {
	entry := &schema.CachedAnalysis{
		Repository: "acme/app",
		Branch:     "main",
		CommitSHA:  "abc123",
		AnalyzedAt: time.Now(),
		Files: map[string]*schema.CachedFile{
			"a.go":  schema.NewCachedFile("a.go", schema.StatusModified, strPtr("package a"), strPtr("package old"), strPtr("-old\n+a"), 2, 1),
			"b.bin": schema.NewCachedFile("b.bin", schema.StatusAdded, nil, nil, nil, 0, 0),
		},
	}

	records := ConvertFileRecords([]*schema.CachedAnalysis{entry})
	require.Len(t, records, 2)

	byPath := map[string]FileRecord{}
	for _, r := range records {
		byPath[r.FilePath] = r
	}

	a := byPath["a.go"]
	assert.Equal(t, "acme/app", a.Repository)
	assert.Equal(t, "main", a.Branch)
	assert.Equal(t, "modified", a.Status)
	require.NotNil(t, a.Content)
	assert.Equal(t, "package a", *a.Content)
	assert.EqualValues(t, 2, a.Additions)
	assert.Equal(t, "go", a.Extension)

	b := byPath["b.bin"]
	assert.Nil(t, b.Content)
	assert.Nil(t, b.Diff)
	assert.Zero(t, b.FileSizeBytes)
}

func TestWriteFileRecordsParquet(t *testing.T) {
	records := []FileRecord{
		{
			Repository: "acme/app",
			Branch:     "main",
			CommitSHA:  "abc",
			AnalyzedAt: time.Now(),
			FilePath:   "a.go",
			Status:     "added",
			Content:    strPtr("package a"),
			Language:   "go",
			Extension:  "go",
		},
	}

	path := filepath.Join(t.TempDir(), "files.parquet")
	require.NoError(t, WriteFileRecordsParquet(records, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// Read back to verify the file is a valid parquet document.
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := parquet.Read[FileRecord](f, info.Size())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a.go", rows[0].FilePath)
	require.NotNil(t, rows[0].Content)
	assert.Equal(t, "package a", *rows[0].Content)
}
