// Package task defines the ad-hoc task abstraction: named, user-defined
// operations a project config can register and the platform can invoke
// instead of (or before) resolving build targets.
package task

import (
	"context"
	"sync"

	"github.com/specialistvlad/makeplatform/internal/perrors"
)

// Func is the shape every registered task takes: given the arguments that
// followed the task's name on the command line, it runs to completion and
// either returns a result or an error. The platform only awaits this call;
// what it does in between (shell out, call back into the platform, etc.) is
// the task's own business.
type Func func(ctx context.Context, args []string) (any, error)

// Registry is a name-keyed table of tasks, mirroring the teacher's
// string-keyed registry pattern (internal/registry.Registry) but scoped to
// the single capability a task needs: "run me with these arguments".
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Func
}

// New creates an empty task registry.
func New() *Registry {
	return &Registry{tasks: make(map[string]Func)}
}

// Register adds or replaces the task registered under name.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[name] = fn
}

// Lookup returns the task registered under name, if any.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.tasks[name]
	return fn, ok
}

// Has reports whether a task with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered task names, unordered.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	return names
}

// Run looks up name and invokes it with args, returning a descriptive error
// if the task is unknown.
func (r *Registry) Run(ctx context.Context, name string, args []string) (any, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, &perrors.TaskNotFoundError{Name: name}
	}
	return fn(ctx, args)
}
