package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = &FileCacheConfig{}
	}
	config.Logger = NopLogger()
	return NewFileCache(config)
}

func TestFileCache_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Button.tsx", "export type Props = { label: string };\n")

	cache := newTestCache(nil)
	defer cache.Close()

	data, err := cache.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export type Props = { label: string };\n", string(data))

	_, err = cache.ReadFile(path)
	require.NoError(t, err)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.FilesLoaded)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, 1, stats.FilesCached)
	assert.Equal(t, 1, cache.Size())
}

func TestFileCache_MissingFile(t *testing.T) {
	cache := newTestCache(nil)
	defer cache.Close()

	_, err := cache.ReadFile(filepath.Join(t.TempDir(), "nope.ts"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, cache.Size())
}

func TestFileCache_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.ts", "")

	cache := newTestCache(nil)
	defer cache.Close()

	data, err := cache.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileCache_Invalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "props.ts", "export type A = string;\n")

	cache := newTestCache(nil)
	defer cache.Close()

	before, err := cache.ReadFile(path)
	require.NoError(t, err)

	// Replace the file the way editors do: write elsewhere, then rename.
	tmp := writeFile(t, dir, "props.ts.tmp", "export type A = number;\n")
	require.NoError(t, os.Rename(tmp, path))

	cache.Invalidate(path)
	after, err := cache.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "export type A = string;\n", string(before), "retired mapping stays readable")
	assert.Equal(t, "export type A = number;\n", string(after))
	assert.Equal(t, int64(1), cache.Stats().Invalidations)

	// Invalidating an unknown path is a no-op.
	cache.Invalidate(filepath.Join(dir, "other.ts"))
	assert.Equal(t, int64(1), cache.Stats().Invalidations)
}

func TestFileCache_MaxFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.ts", "a"),
		writeFile(t, dir, "b.ts", "b"),
		writeFile(t, dir, "c.ts", "c"),
	}

	cache := newTestCache(&FileCacheConfig{MaxFiles: 2})
	defer cache.Close()

	_, err := cache.ReadFile(paths[0])
	require.NoError(t, err)
	_, err = cache.ReadFile(paths[1])
	require.NoError(t, err)

	_, err = cache.ReadFile(paths[2])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCacheFull)

	// Cached files are still served.
	_, err = cache.ReadFile(paths[0])
	assert.NoError(t, err)
}

func TestFileCache_MaxMemory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.ts", strings.Repeat("x", 2*1024*1024))

	cache := newTestCache(&FileCacheConfig{MaxMemoryMB: 1})
	defer cache.Close()

	_, err := cache.ReadFile(path)
	assert.ErrorIs(t, err, ErrCacheFull)
}

func TestFileCache_Directory(t *testing.T) {
	cache := newTestCache(nil)
	defer cache.Close()

	_, err := cache.ReadFile(t.TempDir())
	assert.Error(t, err)
}

func TestFileCache_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 8; i++ {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%d.ts", i), fmt.Sprintf("export const v%d = %d;\n", i, i)))
	}

	cache := newTestCache(nil)
	defer cache.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i, path := range paths {
				data, err := cache.ReadFile(path)
				if err != nil {
					errs <- err
					return
				}
				if want := fmt.Sprintf("export const v%d = %d;\n", i, i); string(data) != want {
					errs <- fmt.Errorf("goroutine %d: got %q, want %q", g, data, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, len(paths), cache.Size())
	assert.Equal(t, int64(len(paths)), cache.Stats().FilesLoaded)
}

func TestFileCache_Close(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.ts", "a")

	cache := newTestCache(nil)
	_, err := cache.ReadFile(path)
	require.NoError(t, err)
	cache.Invalidate(path)
	_, err = cache.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Size())
}
