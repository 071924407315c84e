package schema

// Custom string types for type safety.
type (
	// FileStatus represents the change status of a file within a commit.
	FileStatus string

	// Provider represents the Git hosting provider behind a repository URL.
	Provider string

	// OutputMode represents the format of CLI output.
	OutputMode string

	// SnapshotBackend represents the database backend for cache snapshots.
	SnapshotBackend string
)

// All file statuses supported.
const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusExisting FileStatus = "existing"
)

// All Git hosting providers supported.
const (
	GitHubProvider Provider = "github"
	GitLabProvider Provider = "gitlab"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All snapshot backends supported.
const (
	SQLiteBackend     SnapshotBackend = "sqlite"
	MySQLBackend      SnapshotBackend = "mysql"
	PostgreSQLBackend SnapshotBackend = "postgresql"
	NoneBackend       SnapshotBackend = "none"
)
