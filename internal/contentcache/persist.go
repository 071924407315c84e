package contentcache

import (
	"encoding/json"
	"fmt"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// snapshotVersion tags the serialized entry format in the snapshot store.
const snapshotVersion = 1

// SaveTo serializes every live entry into the snapshot store, keyed by the
// cache key. Returns the number of entries written.
func (c *Cache) SaveTo(store contract.SnapshotStore) (int, error) {
	entries := c.Entries()
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize entry %q: %w", entry.Key(), err)
		}
		if err := store.Set(entry.Key(), data, snapshotVersion, entry.AnalyzedAt.Unix()); err != nil {
			return 0, fmt.Errorf("failed to persist entry %q: %w", entry.Key(), err)
		}
	}
	return len(entries), nil
}

// LoadFrom restores every compatible entry from the snapshot store,
// preserving original timestamps so expiry carries across restarts. Entries
// with an unknown version are skipped. Returns the number restored.
func (c *Cache) LoadFrom(store contract.SnapshotStore) (int, error) {
	keys, err := store.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshot keys: %w", err)
	}

	restored := 0
	for _, key := range keys {
		data, version, _, err := store.Get(key)
		if err != nil {
			return restored, fmt.Errorf("failed to read snapshot %q: %w", key, err)
		}
		if version != snapshotVersion {
			c.logger.Warn().Str("key", key).Int("version", version).Msg("skipping snapshot with unknown version")
			continue
		}
		var entry schema.CachedAnalysis
		if err := json.Unmarshal(data, &entry); err != nil {
			return restored, fmt.Errorf("failed to decode snapshot %q: %w", key, err)
		}
		if entry.Files == nil {
			entry.Files = make(map[string]*schema.CachedFile)
		}
		c.Restore(&entry)
		restored++
	}
	return restored, nil
}
