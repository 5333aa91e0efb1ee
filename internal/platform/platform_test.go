package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProject(t *testing.T, rule string) string {
	t.Helper()
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".enb")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "enb-make.hcl"), []byte(rule), 0o644))
	return dir
}

func TestInit_DiscoversConfigAndEvaluatesRules(t *testing.T) {
	dir := setupProject(t, `
node "app" {
  targets = ["build"]
}
`)

	p := New()
	require.NoError(t, p.Init(context.Background(), dir, "test"))
	defer p.Destruct()

	assert.Equal(t, "test", p.GetMode())
	_, ok := p.GetProjectConfig().NodeConfig("app")
	assert.True(t, ok)
}

func TestInit_MissingConfigDirIsError(t *testing.T) {
	dir := t.TempDir()
	p := New()
	err := p.Init(context.Background(), dir, "test")
	assert.Error(t, err)
}

func TestBuildTargets_ResolvesAndBuildsNode(t *testing.T) {
	dir := setupProject(t, `
node "app" {
  targets = ["build"]
}
`)

	p := New()
	require.NoError(t, p.Init(context.Background(), dir, "test"))
	defer p.Destruct()

	built, err := p.BuildTargets(context.Background(), []string{"app"})
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, built)

	n, ok := p.getNode("app")
	require.True(t, ok)
	assert.Contains(t, n.BuiltTargets(), "app")
}

func TestBuildTargets_UnknownTargetIsError(t *testing.T) {
	dir := setupProject(t, `
node "app" {
  targets = ["build"]
}
`)

	p := New()
	require.NoError(t, p.Init(context.Background(), dir, "test"))
	defer p.Destruct()

	_, err := p.BuildTargets(context.Background(), []string{"missing"})
	assert.Error(t, err)
}

func TestInitNode_MemoizesAcrossCalls(t *testing.T) {
	dir := setupProject(t, `
node "app" {
  targets = ["build"]
}
`)

	p := New()
	require.NoError(t, p.Init(context.Background(), dir, "test"))
	defer p.Destruct()

	first, err := p.initNode(context.Background(), "app")
	require.NoError(t, err)
	second, err := p.initNode(context.Background(), "app")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestCleanTargets_SucceedsAfterBuild(t *testing.T) {
	dir := setupProject(t, `
node "app" {
  targets = ["build"]
  tech "compile" {
    target = "build"
  }
}
`)

	p := New()
	require.NoError(t, p.Init(context.Background(), dir, "test"))
	defer p.Destruct()

	_, err := p.BuildTargets(context.Background(), []string{"app"})
	require.NoError(t, err)
	require.NoError(t, p.CleanTargets(context.Background(), []string{"app"}))
}

func TestRunTask_BuiltinCleanTask(t *testing.T) {
	dir := setupProject(t, `
node "app" {
  targets = ["build"]
}
`)

	p := New()
	require.NoError(t, p.Init(context.Background(), dir, "test"))
	defer p.Destruct()

	_, err := p.RunTask(context.Background(), "clean", nil)
	require.NoError(t, err)
}

func TestDestruct_IsIdempotent(t *testing.T) {
	dir := setupProject(t, `
node "app" {
  targets = ["build"]
}
`)

	p := New()
	require.NoError(t, p.Init(context.Background(), dir, "test"))

	p.Destruct()
	assert.NotPanics(t, func() { p.Destruct() })
}
