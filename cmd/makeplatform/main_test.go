package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".enb")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	rule := `
node "app" {
  targets = ["build"]
}
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "enb-make.hcl"), []byte(rule), 0o644))
	return dir
}

func TestRun_Build(t *testing.T) {
	t.Parallel()

	dir := writeProject(t)
	out := &bytes.Buffer{}

	err := run(out, []string{"-dir", dir, "build", "app"})
	require.NoError(t, err)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	dir := writeProject(t)
	out := &bytes.Buffer{}

	err := run(out, []string{"-dir", dir, "frobnicate"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown command")
}
