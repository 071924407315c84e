package schema

import "time"

// EntryDetail is the per-entry slice of cache statistics.
type EntryDetail struct {
	Key        string    `json:"key"`
	FileCount  int       `json:"file_count"`
	SizeMB     float64   `json:"size_mb"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Expired    bool      `json:"expired"`
}

// CacheStats is the operational snapshot returned by the cache.
type CacheStats struct {
	EntryCount    int           `json:"entry_count"`
	MaxEntries    int           `json:"max_entries"`
	CurrentSizeMB float64       `json:"current_size_mb"`
	MaxSizeMB     float64       `json:"max_size_mb"`
	HitCount      int64         `json:"hit_count"`
	MissCount     int64         `json:"miss_count"`
	HitRate       float64       `json:"hit_rate"`
	Entries       []EntryDetail `json:"entries"`
}

// SnapshotStatus reports the state of the durable snapshot store.
type SnapshotStatus struct {
	Backend         SnapshotBackend `json:"backend"`
	Connected       bool            `json:"connected"`
	TotalEntries    int             `json:"total_entries"`
	LastEntryTime   time.Time       `json:"last_entry_time"`
	OldestEntryTime time.Time       `json:"oldest_entry_time"`
	TableSizeBytes  int64           `json:"table_size_bytes"`
}
