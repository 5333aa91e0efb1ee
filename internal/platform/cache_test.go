package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/makeplatform/internal/cachestore"
	"github.com/specialistvlad/makeplatform/internal/fsutil"
	"github.com/specialistvlad/makeplatform/internal/version"
)

func testPlatformForCache(t *testing.T, storagePath string, makefiles []string) *Platform {
	t.Helper()
	p := New()
	p.projectName = "proj"
	p.mode = "test"
	p.makefilePaths = makefiles
	p.cacheStorage = cachestore.New(storagePath)
	return p
}

func writeMakefile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("# rule file"), 0o644))
	return path
}

func TestLoadCache_FreshStorageRecordsFingerprint(t *testing.T) {
	dir := t.TempDir()
	makefile := writeMakefile(t, dir, "make.hcl")
	storagePath := filepath.Join(dir, "cache.js")

	p := testPlatformForCache(t, storagePath, []string{makefile})
	require.NoError(t, p.LoadCache())

	meta := p.cacheStorage.Namespace(cachestore.ReservedNamespace)
	require.NotNil(t, meta)
	assert.Equal(t, version.Current(), meta["version"])
	assert.Equal(t, "test", meta["mode"])
}

func TestLoadCache_VersionMismatchDropsStorage(t *testing.T) {
	dir := t.TempDir()
	makefile := writeMakefile(t, dir, "make.hcl")
	storagePath := filepath.Join(dir, "cache.js")

	seed := cachestore.New(storagePath)
	seed.Set(cachestore.ReservedNamespace, "version", "stale-version")
	seed.Set(cachestore.ReservedNamespace, "mode", "test")
	mtime, err := fsutil.ModTimeMillis(makefile)
	require.NoError(t, err)
	seed.Set(cachestore.ReservedNamespace, "makefiles", map[string]any{makefile: mtime})
	seed.Set("proj:tech", "app/build", "fingerprint-should-be-dropped")
	require.NoError(t, seed.Save())

	p := testPlatformForCache(t, storagePath, []string{makefile})
	require.NoError(t, p.LoadCache())

	_, ok := p.cacheStorage.Get("proj:tech", "app/build")
	assert.False(t, ok)

	meta := p.cacheStorage.Namespace(cachestore.ReservedNamespace)
	assert.Equal(t, version.Current(), meta["version"])
}

func TestLoadCache_ModeMismatchDropsStorage(t *testing.T) {
	dir := t.TempDir()
	makefile := writeMakefile(t, dir, "make.hcl")
	storagePath := filepath.Join(dir, "cache.js")

	seed := cachestore.New(storagePath)
	seed.Set(cachestore.ReservedNamespace, "version", version.Current())
	seed.Set(cachestore.ReservedNamespace, "mode", "production")
	mtime, err := fsutil.ModTimeMillis(makefile)
	require.NoError(t, err)
	seed.Set(cachestore.ReservedNamespace, "makefiles", map[string]any{makefile: mtime})
	seed.Set("proj:tech", "app/build", "fingerprint-should-be-dropped")
	require.NoError(t, seed.Save())

	p := testPlatformForCache(t, storagePath, []string{makefile})
	require.NoError(t, p.LoadCache())

	_, ok := p.cacheStorage.Get("proj:tech", "app/build")
	assert.False(t, ok)
}

func TestLoadCache_MakefileMtimeMismatchDropsStorage(t *testing.T) {
	dir := t.TempDir()
	makefile := writeMakefile(t, dir, "make.hcl")
	storagePath := filepath.Join(dir, "cache.js")

	seed := cachestore.New(storagePath)
	seed.Set(cachestore.ReservedNamespace, "version", version.Current())
	seed.Set(cachestore.ReservedNamespace, "mode", "test")
	seed.Set(cachestore.ReservedNamespace, "makefiles", map[string]any{makefile: int64(1)})
	seed.Set("proj:tech", "app/build", "fingerprint-should-be-dropped")
	require.NoError(t, seed.Save())

	p := testPlatformForCache(t, storagePath, []string{makefile})
	require.NoError(t, p.LoadCache())

	_, ok := p.cacheStorage.Get("proj:tech", "app/build")
	assert.False(t, ok)
}

func TestRebuildCache_ReplacesCacheInstanceEachCall(t *testing.T) {
	dir := t.TempDir()
	makefile := writeMakefile(t, dir, "make.hcl")
	storagePath := filepath.Join(dir, "cache.js")

	p := testPlatformForCache(t, storagePath, []string{makefile})
	require.NoError(t, p.LoadCache())

	first := p.cache
	p.rebuildCache()
	second := p.cache

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
}

func TestSaveCacheThenLoadCache_RoundTripsStoredValue(t *testing.T) {
	dir := t.TempDir()
	makefile := writeMakefile(t, dir, "make.hcl")
	storagePath := filepath.Join(dir, "cache.js")

	p := testPlatformForCache(t, storagePath, []string{makefile})
	require.NoError(t, p.LoadCache())

	p.cache.Set("tech", "app/build", "fingerprint-one")
	require.NoError(t, p.SaveCache())

	reloaded := testPlatformForCache(t, storagePath, []string{makefile})
	require.NoError(t, reloaded.LoadCache())

	val, ok := reloaded.cache.Get("tech", "app/build")
	require.True(t, ok)
	assert.Equal(t, "fingerprint-one", val)
}
