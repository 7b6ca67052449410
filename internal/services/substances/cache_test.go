package substances

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ReusesFreshSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "caffeine.json", `{"id":"caffeine","name":{"ja":"カフェイン"}}`)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(dir, 30*time.Second, createTestLogger())
	c.now = func() time.Time { return clock }

	first, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, first.Documents, 1)

	// New content within the freshness window is not picked up
	writeFile(t, dir, "morphine.json", `{"id":"morphine","name":{"ja":"モルヒネ"}}`)
	clock = clock.Add(29 * time.Second)

	second, err := c.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCache_RebuildsAfterWindow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "caffeine.json", `{"id":"caffeine","name":{"ja":"カフェイン"}}`)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(dir, 30*time.Second, createTestLogger())
	c.now = func() time.Time { return clock }

	first, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, first.Documents, 1)

	writeFile(t, dir, "morphine.json", `{"id":"morphine","name":{"ja":"モルヒネ"}}`)
	clock = clock.Add(31 * time.Second)

	second, err := c.Snapshot()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Documents, 2)
	assert.True(t, second.BuiltAt.After(first.BuiltAt))
}

func TestCache_ErrorPropagates(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "nope"), time.Second, createTestLogger())

	_, err := c.Snapshot()
	assert.Error(t, err)
	assert.Nil(t, c.Peek())
}

func TestCache_FailedRebuildDoesNotServeStale(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "caffeine.json", `{"id":"caffeine","name":{"ja":"カフェイン"}}`)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(dir, 30*time.Second, createTestLogger())
	c.now = func() time.Time { return clock }

	first, err := c.Snapshot()
	require.NoError(t, err)

	// Directory disappears and the window elapses: the rebuild error
	// surfaces, the stale snapshot is not served
	require.NoError(t, os.RemoveAll(dir))
	clock = clock.Add(time.Minute)

	_, err = c.Snapshot()
	assert.Error(t, err)

	// Peek still reports the last built generation for status purposes
	assert.Same(t, first, c.Peek())
}

func TestCache_DefaultTTL(t *testing.T) {
	c := NewCache(t.TempDir(), 0, createTestLogger())
	assert.Equal(t, DefaultCacheTTL, c.ttl)
}
