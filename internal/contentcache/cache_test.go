package contentcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ponnammaah123/test-agent/schema"
)

func strPtr(s string) *string { return &s }

func newTestCache(maxEntries int, maxSizeMB float64, ttl time.Duration) *Cache {
	return New(Options{MaxEntries: maxEntries, MaxSizeMB: maxSizeMB, DefaultTTL: ttl})
}

func modifiedFile(path, content string) *schema.CachedFile {
	return schema.NewCachedFile(path, schema.StatusModified, strPtr(content), nil, nil, 1, 0)
}

// liveSizeMB sums entry sizes the slow way, for checking the running total.
func liveSizeMB(c *Cache) float64 {
	total := 0.0
	for _, entry := range c.Entries() {
		total += entry.ContentSizeMB()
	}
	return total
}

func TestSetAndGetScenario(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	c.Set("acme/app", "main", "abc123", []*schema.CachedFile{
		schema.NewCachedFile("a.ts", schema.StatusModified, strPtr("const x=1;"), nil, nil, 1, 0),
	}, []string{"auth"}, 85.0)

	entry := c.Get("acme/app", "main")
	require.NotNil(t, entry)
	assert.Equal(t, "abc123", entry.CommitSHA)
	assert.Len(t, entry.Files, 1)
	assert.Equal(t, 1, entry.TotalAdditions)
	assert.Equal(t, []string{"auth"}, entry.Components)

	content := c.GetFileContent("acme/app", "main", "a.ts")
	require.NotNil(t, content)
	assert.Equal(t, "const x=1;", *content)

	matches := c.SearchContent("acme/app", "main", "const", false)
	require.Contains(t, matches, "a.ts")
	assert.Equal(t, []schema.SearchMatch{{Line: 1, Text: "const x=1;"}}, matches["a.ts"])
}

func TestKeyComposition(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	c.Set("acme/app", "main", "sha-main", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)
	c.Set("acme/app", "dev", "sha-dev", []*schema.CachedFile{modifiedFile("b.go", "package b")}, nil, 0)

	main := c.Get("acme/app", "main")
	dev := c.Get("acme/app", "dev")
	require.NotNil(t, main)
	require.NotNil(t, dev)
	assert.Equal(t, "sha-main", main.CommitSHA)
	assert.Equal(t, "sha-dev", dev.CommitSHA)

	// Same pair resolves to the same entry until invalidated.
	assert.Same(t, main, c.Get("acme/app", "main"))
}

func TestGetMissIncrementsMissCount(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	assert.Nil(t, c.Get("acme/app", "main"))
	assert.Nil(t, c.Get("acme/app", "main"))

	stats := c.Stats()
	assert.EqualValues(t, 2, stats.MissCount)
	assert.EqualValues(t, 0, stats.HitCount)
	assert.Zero(t, stats.HitRate)
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("acme/app", "main", "abc", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)

	// Just before expiry the entry is served.
	c.now = func() time.Time { return base.Add(time.Hour - time.Second) }
	assert.NotNil(t, c.Get("acme/app", "main"))

	// Just after expiry the entry is removed and counts as a miss.
	c.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	assert.Nil(t, c.Get("acme/app", "main"))

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.HitCount)
	assert.EqualValues(t, 1, stats.MissCount)
	assert.Zero(t, stats.EntryCount)
	assert.InDelta(t, 0, stats.CurrentSizeMB, 1e-9)
}

func TestExpiredEntryInvisibleToAllReads(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("acme/app", "main", "abc", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.Nil(t, c.GetFile("acme/app", "main", "a.go"))
	assert.Empty(t, c.GetAllFiles("acme/app", "main"))
	assert.Empty(t, c.GetFilesByStatus("acme/app", "main", schema.StatusModified))
	assert.Empty(t, c.SearchContent("acme/app", "main", "package", false))
}

func TestLRUEvictionByEntryCount(t *testing.T) {
	c := newTestCache(1, 100, time.Hour)
	c.Set("acme/app", "main", "sha1", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)
	c.Set("acme/app", "dev", "sha2", []*schema.CachedFile{modifiedFile("b.go", "package b")}, nil, 0)

	assert.Nil(t, c.Get("acme/app", "main"))
	assert.NotNil(t, c.Get("acme/app", "dev"))

	stats := c.Stats()
	assert.Equal(t, 1, stats.EntryCount)
	assert.EqualValues(t, 1, stats.MissCount)
}

func TestLRUEvictionPicksOldestAccess(t *testing.T) {
	c := newTestCache(2, 100, time.Hour)
	base := time.Now()
	tick := 0
	c.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	c.Set("acme/app", "one", "s1", []*schema.CachedFile{modifiedFile("a.go", "a")}, nil, 0)
	c.Set("acme/app", "two", "s2", []*schema.CachedFile{modifiedFile("b.go", "b")}, nil, 0)

	// Touch "one" so "two" becomes the LRU candidate.
	require.NotNil(t, c.Get("acme/app", "one"))

	c.Set("acme/app", "three", "s3", []*schema.CachedFile{modifiedFile("c.go", "c")}, nil, 0)

	assert.NotNil(t, c.Get("acme/app", "one"))
	assert.Nil(t, c.Get("acme/app", "two"))
	assert.NotNil(t, c.Get("acme/app", "three"))
}

func TestSizeEvictionIsSingleShot(t *testing.T) {
	// Each entry is ~2MB against a 3MB budget, so any second insert trips
	// the size check but evicts only one entry.
	big := make([]byte, 2*1024*1024)
	for i := range big {
		big[i] = 'x'
	}
	content := string(big)

	c := newTestCache(10, 3, time.Hour)
	c.Set("acme/app", "one", "s1", []*schema.CachedFile{modifiedFile("a.txt", content)}, nil, 0)
	c.Set("acme/app", "two", "s2", []*schema.CachedFile{modifiedFile("b.txt", content)}, nil, 0)

	stats := c.Stats()
	assert.Equal(t, 1, stats.EntryCount)
	assert.Nil(t, c.Get("acme/app", "one"))
	assert.NotNil(t, c.Get("acme/app", "two"))
}

func TestSizeAccountingAcrossMutations(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	c.Set("acme/app", "main", "s1", []*schema.CachedFile{modifiedFile("a.go", "package a\n")}, nil, 0)
	c.Set("acme/app", "dev", "s2", []*schema.CachedFile{modifiedFile("b.go", "package b\nvar B = 2\n")}, nil, 0)
	assert.InDelta(t, liveSizeMB(c), c.Stats().CurrentSizeMB, 1e-12)

	// Replacing a key releases the old size first.
	c.Set("acme/app", "main", "s3", []*schema.CachedFile{modifiedFile("a.go", "package a\nvar A = 1\n")}, nil, 0)
	assert.InDelta(t, liveSizeMB(c), c.Stats().CurrentSizeMB, 1e-12)

	require.True(t, c.Invalidate("acme/app", "dev"))
	assert.InDelta(t, liveSizeMB(c), c.Stats().CurrentSizeMB, 1e-12)

	c.Clear()
	assert.InDelta(t, 0, c.Stats().CurrentSizeMB, 1e-12)
}

func TestIdempotentRead(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	c.Set("acme/app", "main", "abc", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)

	before := c.Stats().CurrentSizeMB
	first := c.Get("acme/app", "main")
	second := c.Get("acme/app", "main")
	assert.Same(t, first, second)

	stats := c.Stats()
	assert.EqualValues(t, 2, stats.HitCount)
	assert.InDelta(t, before, stats.CurrentSizeMB, 1e-12)
}

func TestGetRefreshesAccessTime(t *testing.T) {
	c := newTestCache(2, 100, time.Hour)
	base := time.Now()
	tick := 0
	c.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	c.Set("acme/app", "old", "s1", []*schema.CachedFile{modifiedFile("a.go", "a")}, nil, 0)
	c.Set("acme/app", "new", "s2", []*schema.CachedFile{modifiedFile("b.go", "b")}, nil, 0)

	// After this read, "old" is no longer the eviction candidate.
	require.NotNil(t, c.Get("acme/app", "old"))
	c.Set("acme/app", "newer", "s3", []*schema.CachedFile{modifiedFile("c.go", "c")}, nil, 0)

	assert.NotNil(t, c.Get("acme/app", "old"))
	assert.Nil(t, c.Get("acme/app", "new"))
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	c.Set("acme/app", "main", "abc", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)

	assert.True(t, c.Invalidate("acme/app", "main"))
	assert.False(t, c.Invalidate("acme/app", "main"))
	assert.Nil(t, c.Get("acme/app", "main"))
}

func TestClearKeepsCumulativeCounters(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	c.Set("acme/app", "main", "abc", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)
	require.NotNil(t, c.Get("acme/app", "main"))
	assert.Nil(t, c.Get("acme/app", "dev"))

	c.Clear()

	stats := c.Stats()
	assert.Zero(t, stats.EntryCount)
	assert.InDelta(t, 0, stats.CurrentSizeMB, 1e-12)
	assert.EqualValues(t, 1, stats.HitCount)
	assert.EqualValues(t, 1, stats.MissCount)
	assert.InDelta(t, 50.0, stats.HitRate, 1e-9)
}

func TestGetFilesByStatus(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	files := []*schema.CachedFile{
		schema.NewCachedFile("added.go", schema.StatusAdded, strPtr("a"), nil, nil, 1, 0),
		schema.NewCachedFile("modified.go", schema.StatusModified, strPtr("m"), nil, nil, 1, 1),
		schema.NewCachedFile("deleted.go", schema.StatusDeleted, nil, nil, nil, 0, 1),
	}
	c.Set("acme/app", "main", "abc", files, nil, 0)

	deleted := c.GetFilesByStatus("acme/app", "main", schema.StatusDeleted)
	require.Len(t, deleted, 1)
	assert.Contains(t, deleted, "deleted.go")
}

func TestGetFilesByLanguageCaseInsensitive(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	files := []*schema.CachedFile{
		modifiedFile("a.py", "print()"),
		modifiedFile("b.go", "package b"),
	}
	c.Set("acme/app", "main", "abc", files, nil, 0)

	assert.Len(t, c.GetFilesByLanguage("acme/app", "main", "PYTHON"), 1)
	assert.Len(t, c.GetFilesByLanguage("acme/app", "main", "Go"), 1)
	assert.Empty(t, c.GetFilesByLanguage("acme/app", "main", "rust"))
}

func TestSearchContent(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	files := []*schema.CachedFile{
		modifiedFile("a.ts", "const X = 1;\nlet y = 2;\nconst z = 3;"),
		modifiedFile("b.ts", "nothing here"),
		schema.NewCachedFile("c.bin", schema.StatusAdded, nil, nil, nil, 0, 0),
	}
	c.Set("acme/app", "main", "abc", files, nil, 0)

	// Case-insensitive by default.
	matches := c.SearchContent("acme/app", "main", "const", false)
	require.Len(t, matches, 1)
	assert.Equal(t, []schema.SearchMatch{
		{Line: 1, Text: "const X = 1;"},
		{Line: 3, Text: "const z = 3;"},
	}, matches["a.ts"])

	// Case-sensitive search distinguishes "X".
	assert.Empty(t, c.SearchContent("acme/app", "main", "x = 1", true))
	assert.Len(t, c.SearchContent("acme/app", "main", "X = 1", true), 1)
}

func TestStatsEntryDetail(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	c.Set("acme/app", "main", "abc", []*schema.CachedFile{modifiedFile("a.go", "package a")}, nil, 0)
	c.Set("acme/app", "dev", "def", []*schema.CachedFile{modifiedFile("b.go", "package b")}, nil, 0)

	stats := c.Stats()
	require.Len(t, stats.Entries, 2)
	// Sorted by key for deterministic output.
	assert.Equal(t, "acme/app:dev", stats.Entries[0].Key)
	assert.Equal(t, "acme/app:main", stats.Entries[1].Key)
	assert.Equal(t, 1, stats.Entries[0].FileCount)
	assert.False(t, stats.Entries[0].Expired)
}

func TestRestorePreservesTimestamps(t *testing.T) {
	c := newTestCache(10, 100, time.Hour)
	analyzedAt := time.Now().Add(-30 * time.Minute)
	entry := &schema.CachedAnalysis{
		Repository: "acme/app",
		Branch:     "main",
		CommitSHA:  "abc",
		AnalyzedAt: analyzedAt,
		Files:      map[string]*schema.CachedFile{"a.go": modifiedFile("a.go", "package a")},
		TTL:        time.Hour,
	}
	c.Restore(entry)

	got := c.Get("acme/app", "main")
	require.NotNil(t, got)
	assert.True(t, got.AnalyzedAt.Equal(analyzedAt))
	assert.InDelta(t, liveSizeMB(c), c.Stats().CurrentSizeMB, 1e-12)
}
