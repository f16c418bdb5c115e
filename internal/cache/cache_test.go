package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))

	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "key"))
}

func TestFileCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "art", []byte{0x89, 'P', 'N', 'G'}, 0))

	data, hit, err := c.Get(ctx, "art")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	require.NoError(t, c.Delete(ctx, "art"))
	_, hit, _ = c.Get(ctx, "art")
	assert.False(t, hit)

	assert.NoError(t, c.Delete(ctx, "art"), "deleting twice is not an error")
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))

	_, hit, _ := c.Get(ctx, "k")
	assert.True(t, hit)

	now = now.Add(2 * time.Hour)
	_, hit, _ = c.Get(ctx, "k")
	assert.False(t, hit)

	_, err = os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err), "expired entry should be removed")
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, os.WriteFile(c.path("k"), []byte("{not json"), 0644))

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKey(t *testing.T) {
	k1 := Key("caa", "id-1", 500)
	k2 := Key("caa", "id-1", 500)
	k3 := Key("caa", "id-2", 500)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, len("caa:")+64)
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash([]byte("hello")), Hash([]byte("hello")))
	assert.NotEqual(t, Hash([]byte("hello")), Hash([]byte("world")))
	assert.Len(t, Hash([]byte("hello")), 64)
}
