package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CachedFile is one file's analysis snapshot: content, prior-version content,
// unified diff, and derived metadata. Records are created once during
// enrichment and never mutated; re-analysis replaces the whole record.
type CachedFile struct {
	Path   string     `json:"path"`
	Status FileStatus `json:"status"`

	// Content holds the current version; nil when the file had no
	// retrievable content (deleted, oversized, non-UTF8, or fetch failure).
	Content *string `json:"content"`

	// OriginalContent holds the pre-change version, only meaningful for
	// modified files.
	OriginalContent *string `json:"original_content"`

	// Diff holds the unified diff for the file, when available.
	Diff *string `json:"diff"`

	Additions int `json:"additions"`
	Deletions int `json:"deletions"`

	FileSizeBytes int    `json:"file_size_bytes"`
	FileHash      string `json:"file_hash"`
	Language      string `json:"language"`
	Extension     string `json:"extension"`

	CreatedAt time.Time `json:"created_at"`
}

// NewCachedFile builds a CachedFile, deriving size, hash, extension, and
// language from the inputs. A nil content yields a zero size and empty hash.
func NewCachedFile(path string, status FileStatus, content, originalContent, diff *string, additions, deletions int) *CachedFile {
	ext := FileExtension(path)

	f := &CachedFile{
		Path:            path,
		Status:          status,
		Content:         content,
		OriginalContent: originalContent,
		Diff:            diff,
		Additions:       additions,
		Deletions:       deletions,
		Language:        DetectLanguage(ext),
		Extension:       ext,
		CreatedAt:       time.Now(),
	}

	if content != nil {
		f.FileSizeBytes = len(*content)
		f.FileHash = HashContent(*content)
	}

	return f
}

// HashContent returns the hex-encoded SHA-256 digest of content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// HasContent reports whether the current version content is present.
func (f *CachedFile) HasContent() bool { return f.Content != nil }

// HasDiff reports whether a unified diff is present.
func (f *CachedFile) HasDiff() bool { return f.Diff != nil }

// ContentSizeBytes returns the total bytes held by this record across
// content, original content, and diff.
func (f *CachedFile) ContentSizeBytes() int {
	total := 0
	if f.Content != nil {
		total += len(*f.Content)
	}
	if f.OriginalContent != nil {
		total += len(*f.OriginalContent)
	}
	if f.Diff != nil {
		total += len(*f.Diff)
	}
	return total
}

// FileSummary is the lightweight view of a CachedFile that omits bulk
// content, suitable for listings and API responses.
type FileSummary struct {
	Path          string     `json:"path"`
	Status        FileStatus `json:"status"`
	Additions     int        `json:"additions"`
	Deletions     int        `json:"deletions"`
	FileSizeBytes int        `json:"file_size_bytes"`
	Language      string     `json:"language"`
	Extension     string     `json:"extension"`
	HasContent    bool       `json:"has_content"`
	HasDiff       bool       `json:"has_diff"`
}

// Summary projects the record to its lightweight view.
func (f *CachedFile) Summary() FileSummary {
	return FileSummary{
		Path:          f.Path,
		Status:        f.Status,
		Additions:     f.Additions,
		Deletions:     f.Deletions,
		FileSizeBytes: f.FileSizeBytes,
		Language:      f.Language,
		Extension:     f.Extension,
		HasContent:    f.HasContent(),
		HasDiff:       f.HasDiff(),
	}
}
