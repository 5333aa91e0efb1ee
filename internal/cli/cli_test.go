package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsLogFormatAndLevel(t *testing.T) {
	out := &bytes.Buffer{}
	cmd, shouldExit, err := Parse([]string{"build", "app"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "text", cmd.LogFormat)
	assert.Equal(t, "info", cmd.LogLevel)
}

func TestParse_LogFlagsAreParsedAndLowercased(t *testing.T) {
	out := &bytes.Buffer{}
	cmd, shouldExit, err := Parse([]string{"-log-format", "JSON", "-log-level", "DEBUG", "build", "app"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "json", cmd.LogFormat)
	assert.Equal(t, "debug", cmd.LogLevel)
}

func TestParse_InvalidLogFormatIsError(t *testing.T) {
	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-log-format", "xml", "build", "app"}, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-format")
}

func TestParse_InvalidLogLevelIsError(t *testing.T) {
	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"-log-level", "verbose", "build", "app"}, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-level")
}

func TestParse_TaskCommandCarriesLogFlagsToo(t *testing.T) {
	out := &bytes.Buffer{}
	cmd, shouldExit, err := Parse([]string{"-log-level", "warn", "task", "greet"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "warn", cmd.LogLevel)
	assert.Equal(t, "greet", cmd.TaskName)
}
