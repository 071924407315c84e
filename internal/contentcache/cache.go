// Package contentcache is a bounded, TTL-aware, LRU-evicting store of
// codebase analyses keyed by "repository:branch".
package contentcache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ponnammaah123/test-agent/internal/contract"
	"github.com/Ponnammaah123/test-agent/schema"
)

// Options configures a Cache. Zero values fall back to the package defaults.
type Options struct {
	MaxEntries int
	MaxSizeMB  float64
	DefaultTTL time.Duration
	Logger     zerolog.Logger
}

// Cache holds analysis entries with lazy TTL expiry on read and at most one
// LRU eviction per insert. The entry map, access times, and running size are
// updated together under one mutex so they always agree.
type Cache struct {
	mu          sync.Mutex
	entries     map[string]*schema.CachedAnalysis
	accessTimes map[string]time.Time

	maxEntries int
	maxSizeMB  float64
	defaultTTL time.Duration

	currentSizeMB float64
	hitCount      int64
	missCount     int64

	logger zerolog.Logger
	now    func() time.Time
}

// New creates an empty Cache.
func New(opts Options) *Cache {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = contract.DefaultCacheMaxEntries
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = contract.DefaultCacheMaxSizeMB
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = contract.DefaultCacheTTL
	}
	return &Cache{
		entries:     make(map[string]*schema.CachedAnalysis),
		accessTimes: make(map[string]time.Time),
		maxEntries:  opts.MaxEntries,
		maxSizeMB:   opts.MaxSizeMB,
		defaultTTL:  opts.DefaultTTL,
		logger:      opts.Logger,
		now:         time.Now,
	}
}

// Set builds a CachedAnalysis from the inputs and stores it. Replacing an
// existing key releases the old entry's size first. If the insert would push
// the running size to maxSizeMB or the entry count to maxEntries, the single
// least-recently-used entry is evicted before the insert; eviction never
// repeats within one call even if the new entry alone exceeds the bounds.
func (c *Cache) Set(repository, branch, commitSHA string, files []*schema.CachedFile, components []string, testCoverage float64) {
	entry := &schema.CachedAnalysis{
		Repository:   repository,
		Branch:       branch,
		CommitSHA:    commitSHA,
		AnalyzedAt:   c.now(),
		Files:        make(map[string]*schema.CachedFile, len(files)),
		Components:   components,
		TestCoverage: testCoverage,
		TTL:          c.defaultTTL,
	}
	for _, f := range files {
		entry.Files[f.Path] = f
		entry.TotalAdditions += f.Additions
		entry.TotalDeletions += f.Deletions
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.insert(entry)
}

// insert stores an already-built entry. Caller must hold the mutex.
func (c *Cache) insert(entry *schema.CachedAnalysis) {
	key := entry.Key()
	size := entry.ContentSizeMB()

	if old, ok := c.entries[key]; ok {
		c.removeEntry(key, old)
	}
	if c.currentSizeMB+size >= c.maxSizeMB || len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.accessTimes[key] = c.now()
	c.currentSizeMB += size

	c.logger.Debug().Str("key", key).Float64("size_mb", size).Msg("cache set")
}

// Get returns the live entry for (repository, branch), or nil. An expired
// entry is removed on the spot and counts as a miss. Every other read
// operation is defined in terms of this method.
func (c *Cache) Get(repository, branch string) *schema.CachedAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(schema.CacheKey(repository, branch))
}

// get implements lookup, expiry, and counter updates. Caller must hold the
// mutex.
func (c *Cache) get(key string) *schema.CachedAnalysis {
	entry, ok := c.entries[key]
	if !ok {
		c.missCount++
		c.logger.Debug().Str("key", key).Msg("cache miss")
		return nil
	}
	if entry.IsExpired(c.now()) {
		c.removeEntry(key, entry)
		c.missCount++
		c.logger.Debug().Str("key", key).Msg("cache entry expired")
		return nil
	}
	c.accessTimes[key] = c.now()
	c.hitCount++
	return entry
}

// GetFile returns one file record from a live entry, or nil.
func (c *Cache) GetFile(repository, branch, path string) *schema.CachedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.get(schema.CacheKey(repository, branch))
	if entry == nil {
		return nil
	}
	return entry.Files[path]
}

// GetFileContent returns a file's content, or nil when the analysis, the
// file, or the content is absent.
func (c *Cache) GetFileContent(repository, branch, path string) *string {
	f := c.GetFile(repository, branch, path)
	if f == nil {
		return nil
	}
	return f.Content
}

// GetFileDiff returns a file's unified diff, or nil when the analysis, the
// file, or the diff is absent.
func (c *Cache) GetFileDiff(repository, branch, path string) *string {
	f := c.GetFile(repository, branch, path)
	if f == nil {
		return nil
	}
	return f.Diff
}

// GetAllFiles returns a copy of the live entry's file map, empty when the
// analysis is absent.
func (c *Cache) GetAllFiles(repository, branch string) map[string]*schema.CachedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*schema.CachedFile)
	entry := c.get(schema.CacheKey(repository, branch))
	if entry == nil {
		return out
	}
	for path, f := range entry.Files {
		out[path] = f
	}
	return out
}

// GetFilesByStatus returns the live entry's files with an exact status match.
func (c *Cache) GetFilesByStatus(repository, branch string, status schema.FileStatus) map[string]*schema.CachedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*schema.CachedFile)
	entry := c.get(schema.CacheKey(repository, branch))
	if entry == nil {
		return out
	}
	for path, f := range entry.Files {
		if f.Status == status {
			out[path] = f
		}
	}
	return out
}

// GetFilesByLanguage returns the live entry's files whose language matches
// case-insensitively.
func (c *Cache) GetFilesByLanguage(repository, branch, language string) map[string]*schema.CachedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*schema.CachedFile)
	entry := c.get(schema.CacheKey(repository, branch))
	if entry == nil {
		return out
	}
	for path, f := range entry.Files {
		if strings.EqualFold(f.Language, language) {
			out[path] = f
		}
	}
	return out
}

// SearchContent scans the content of every file in the live entry for term,
// line by line, and returns 1-based matches for files with at least one hit.
func (c *Cache) SearchContent(repository, branch, term string, caseSensitive bool) map[string][]schema.SearchMatch {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]schema.SearchMatch)
	entry := c.get(schema.CacheKey(repository, branch))
	if entry == nil {
		return out
	}

	needle := term
	if !caseSensitive {
		needle = strings.ToLower(term)
	}
	for path, f := range entry.Files {
		if f.Content == nil {
			continue
		}
		var matches []schema.SearchMatch
		for i, line := range strings.Split(*f.Content, "\n") {
			haystack := line
			if !caseSensitive {
				haystack = strings.ToLower(line)
			}
			if strings.Contains(haystack, needle) {
				matches = append(matches, schema.SearchMatch{Line: i + 1, Text: line})
			}
		}
		if len(matches) > 0 {
			out[path] = matches
		}
	}
	return out
}

// Invalidate removes the entry for (repository, branch) and reports whether
// anything was removed.
func (c *Cache) Invalidate(repository, branch string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := schema.CacheKey(repository, branch)
	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeEntry(key, entry)
	c.logger.Debug().Str("key", key).Msg("cache invalidated")
	return true
}

// Clear removes every entry and resets the running size. Hit and miss
// counters are cumulative process statistics and survive a clear.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*schema.CachedAnalysis)
	c.accessTimes = make(map[string]time.Time)
	c.currentSizeMB = 0
	c.logger.Debug().Msg("cache cleared")
}

// Stats returns an operational snapshot with per-entry detail sorted by key.
func (c *Cache) Stats() schema.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := schema.CacheStats{
		EntryCount:    len(c.entries),
		MaxEntries:    c.maxEntries,
		CurrentSizeMB: c.currentSizeMB,
		MaxSizeMB:     c.maxSizeMB,
		HitCount:      c.hitCount,
		MissCount:     c.missCount,
	}
	if total := c.hitCount + c.missCount; total > 0 {
		stats.HitRate = float64(c.hitCount) / float64(total) * 100
	}

	now := c.now()
	for key, entry := range c.entries {
		stats.Entries = append(stats.Entries, schema.EntryDetail{
			Key:        key,
			FileCount:  len(entry.Files),
			SizeMB:     entry.ContentSizeMB(),
			AnalyzedAt: entry.AnalyzedAt,
			Expired:    entry.IsExpired(now),
		})
	}
	sort.Slice(stats.Entries, func(i, j int) bool { return stats.Entries[i].Key < stats.Entries[j].Key })
	return stats
}

// Entries returns a snapshot of the live entries, sorted by key. Expiry is
// not evaluated; this is a maintenance view used by export and persistence.
func (c *Cache) Entries() []*schema.CachedAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*schema.CachedAnalysis, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Restore inserts a previously serialized entry, keeping its original
// timestamps and TTL so expiry carries across a save/load cycle.
func (c *Cache) Restore(entry *schema.CachedAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insert(entry)
}

// removeEntry deletes an entry and releases its size. Caller must hold the
// mutex.
func (c *Cache) removeEntry(key string, entry *schema.CachedAnalysis) {
	delete(c.entries, key)
	delete(c.accessTimes, key)
	c.currentSizeMB -= entry.ContentSizeMB()
}

// evictOldest removes the entry with the oldest access time. Ties are broken
// by map iteration order. Caller must hold the mutex.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for key, at := range c.accessTimes {
		if first || at.Before(oldestTime) {
			oldestKey = key
			oldestTime = at
			first = false
		}
	}
	if first {
		return
	}
	if entry, ok := c.entries[oldestKey]; ok {
		c.removeEntry(oldestKey, entry)
		c.logger.Debug().Str("key", oldestKey).Msg("cache entry evicted")
	}
}
