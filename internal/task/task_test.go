package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/makeplatform/internal/perrors"
)

func TestRegistry_RunInvokesRegisteredTask(t *testing.T) {
	r := New()
	r.Register("greet", func(ctx context.Context, args []string) (any, error) {
		return "hello " + args[0], nil
	})

	result, err := r.Run(context.Background(), "greet", []string{"world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestRegistry_RunUnknownTaskReturnsTaskNotFound(t *testing.T) {
	r := New()
	_, err := r.Run(context.Background(), "missing", nil)

	var notFound *perrors.TaskNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.Name)
}

func TestRegistry_HasAndNames(t *testing.T) {
	r := New()
	assert.False(t, r.Has("build"))

	r.Register("build", func(ctx context.Context, args []string) (any, error) { return nil, nil })
	assert.True(t, r.Has("build"))
	assert.Contains(t, r.Names(), "build")
}
