package node

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/makeplatform/internal/cachestore"
)

func TestBuild_NoTechsReturnsNodePath(t *testing.T) {
	n := New("app", t.TempDir())
	built, err := n.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, built)
	assert.Equal(t, Done, n.State())
}

func TestBuild_RunsRegisteredTech(t *testing.T) {
	n := New("app", t.TempDir())
	n.SetTechs([]Tech{{Name: "compile", Target: "build", Args: map[string]cty.Value{
		"entry": cty.StringVal("main.go"),
	}}})

	built, err := n.Build(context.Background(), []string{"build"})
	require.NoError(t, err)
	assert.Equal(t, []string{"app/build"}, built)
}

func TestBuild_RecordsTechFingerprintInCache(t *testing.T) {
	storage := cachestore.New(filepath.Join(t.TempDir(), "cache.js"))
	cache := cachestore.NewCache(storage, "proj")

	tech := Tech{Name: "compile", Target: "build", Args: map[string]cty.Value{
		"entry": cty.StringVal("main.go"),
	}}

	n1 := New("app", t.TempDir())
	n1.SetCache(cache)
	n1.SetTechs([]Tech{tech})
	_, err := n1.Build(context.Background(), []string{"build"})
	require.NoError(t, err)

	fp, _ := tech.fingerprint()
	cached, ok := cache.Get("tech", "app/build")
	require.True(t, ok)
	assert.Equal(t, fp, cached)
}

func TestClean_ForgetsCachedFingerprint(t *testing.T) {
	storage := cachestore.New(filepath.Join(t.TempDir(), "cache.js"))
	cache := cachestore.NewCache(storage, "proj")

	n := New("app", t.TempDir())
	n.SetCache(cache)
	n.SetTechs([]Tech{{Name: "compile", Target: "build"}})

	_, err := n.Build(context.Background(), []string{"build"})
	require.NoError(t, err)

	require.NoError(t, n.Clean(context.Background(), []string{"build"}))

	_, ok := cache.Get("tech", "app/build")
	assert.False(t, ok)
	assert.Equal(t, Pending, n.State())
}

func TestBuild_SourceEditInvalidatesCacheEvenWithUnchangedArgs(t *testing.T) {
	storage := cachestore.New(filepath.Join(t.TempDir(), "cache.js"))
	cache := cachestore.NewCache(storage, "proj")

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(srcPath, []byte("package main"), 0o644))

	tech := Tech{Name: "compile", Target: "build"}

	n := New("app", dir)
	n.SetCache(cache)
	n.SetLanguages([]string{"go"})
	n.SetTechs([]Tech{tech})

	_, err := n.Build(context.Background(), []string{"build"})
	require.NoError(t, err)
	firstFP, ok := cache.Get("tech", "app/build")
	require.True(t, ok)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(srcPath, later, later))

	_, err = n.Build(context.Background(), []string{"build"})
	require.NoError(t, err)
	secondFP, ok := cache.Get("tech", "app/build")
	require.True(t, ok)

	assert.NotEqual(t, firstFP, secondFP)
}

func TestLoadTechs_SetsInitializedState(t *testing.T) {
	n := New("app", t.TempDir())
	n.SetTechs([]Tech{{Name: "compile", Target: "build"}})
	require.NoError(t, n.LoadTechs(context.Background()))
	assert.Equal(t, Initialized, n.State())
}

func TestDestruct_DetachesCollaboratorsAndResetsState(t *testing.T) {
	storage := cachestore.New(filepath.Join(t.TempDir(), "cache.js"))
	cache := cachestore.NewCache(storage, "proj")

	n := New("app", t.TempDir())
	n.SetCache(cache)
	n.SetTechs([]Tech{{Name: "compile", Target: "build"}})
	require.NoError(t, n.LoadTechs(context.Background()))
	require.Equal(t, Initialized, n.State())

	n.Destruct()

	assert.Equal(t, Pending, n.State())
	assert.Nil(t, n.cache)
	assert.Nil(t, n.graph)
}

func TestBuiltTargets_AccumulatesAcrossCalls(t *testing.T) {
	n := New("app", t.TempDir())
	_, err := n.Build(context.Background(), []string{"one"})
	require.NoError(t, err)
	_, err = n.Build(context.Background(), []string{"two"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"app/one", "app/two"}, n.BuiltTargets())
}
