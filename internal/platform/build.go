package platform

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/makeplatform/internal/ctxlog"
	"github.com/specialistvlad/makeplatform/internal/perrors"
)

// Build is the platform's single top-level entry point, per spec.md §4.6:
// if targets[0] names a registered task (built-in or rule-file-declared),
// the whole call is treated as that task's invocation with the remaining
// targets as its args; otherwise every target is resolved and built
// normally via BuildTargets. Either way it logs "build started", then
// "build finished - <elapsed>ms" on success or "build failed" on error.
// The BuildTargets branch already carries that logging via runTargets, so
// only the task-dispatch branch wraps it here.
func (p *Platform) Build(ctx context.Context, targets []string) error {
	if len(targets) > 0 && p.tasks.Has(targets[0]) {
		return p.dispatchTask(ctx, targets[0], targets[1:])
	}
	_, err := p.BuildTargets(ctx, targets)
	return err
}

func (p *Platform) dispatchTask(ctx context.Context, name string, args []string) error {
	ctx = ctxlog.WithLogger(ctx, p.getLogger())
	logger := ctxlog.FromContext(ctx)
	logger.InfoContext(ctx, "build started")
	start := time.Now()

	_, err := p.RunTask(ctx, name, args)

	elapsed := time.Since(start)
	if err != nil {
		logger.ErrorContext(ctx, "build failed", "error", err)
		return err
	}
	logger.InfoContext(ctx, fmt.Sprintf("build finished - %dms", elapsed.Milliseconds()))
	return nil
}

// BuildTargets resolves inputs to nodes, initializes every node that is not
// already initialized, then builds each concurrently (spec.md §4.6). The
// first error from any node cancels the rest; every already-started node
// still runs to completion before the error is returned, per errgroup's
// contract. It returns every built node's aggregated builtTargets, flattened
// in resolution order, per spec.md §4.6 step 5.
func (p *Platform) BuildTargets(ctx context.Context, inputs []string) ([]string, error) {
	return p.runTargets(ctx, inputs, "build", func(ctx context.Context, n buildOrCleanCapable, nodePath string, subTargets []string) ([]string, error) {
		built, err := n.Build(ctx, subTargets)
		if err != nil {
			return nil, &perrors.NodeBuildError{NodePath: nodePath, Err: err}
		}
		return built, nil
	})
}

// CleanTargets resolves inputs to nodes, initializes every node that is not
// already initialized, then cleans each concurrently. Its aggregated result
// is discarded, per spec.md §4.6 ("identical except step 4 calls... and the
// aggregated result is discarded").
func (p *Platform) CleanTargets(ctx context.Context, inputs []string) error {
	_, err := p.runTargets(ctx, inputs, "clean", func(ctx context.Context, n buildOrCleanCapable, nodePath string, subTargets []string) ([]string, error) {
		if err := n.Clean(ctx, subTargets); err != nil {
			return nil, &perrors.NodeCleanError{NodePath: nodePath, Err: err}
		}
		return nil, nil
	})
	return err
}

type buildOrCleanCapable interface {
	Build(context.Context, []string) ([]string, error)
	Clean(context.Context, []string) error
}

// runTargets resolves inputs to nodes and drives them through run in two
// strictly separated errgroup fan-outs, per spec.md §4.6 steps 3-4 and §5's
// ordering guarantee: "init of all resolved nodes completes before any
// node's build/clean begins." The first pass initializes every resolved
// node and is fully awaited before the second pass — which calls run, i.e.
// Build or Clean — is even started, so no node can begin building while a
// sibling is still initializing.
func (p *Platform) runTargets(ctx context.Context, inputs []string, verb string, run func(context.Context, buildOrCleanCapable, string, []string) ([]string, error)) ([]string, error) {
	p.rebuildCache()

	ctx = ctxlog.WithLogger(ctx, p.getLogger())
	logger := ctxlog.FromContext(ctx)
	logger.InfoContext(ctx, verb+" started", "targets", len(inputs))
	start := time.Now()

	resolved, err := p.resolveTargets(inputs)
	if err != nil {
		logger.ErrorContext(ctx, verb+" failed", "error", err)
		return nil, err
	}

	nodes := make([]buildOrCleanCapable, len(resolved))
	initGroup, initCtx := errgroup.WithContext(ctx)
	for i, rt := range resolved {
		i, rt := i, rt
		initGroup.Go(func() error {
			n, err := p.initNode(initCtx, rt.nodePath)
			if err != nil {
				return err
			}
			nodes[i] = n
			return nil
		})
	}
	if err := initGroup.Wait(); err != nil {
		logger.ErrorContext(ctx, verb+" failed", "error", err)
		return nil, err
	}

	results := make([][]string, len(resolved))
	runGroup, runCtx := errgroup.WithContext(ctx)
	for i, rt := range resolved {
		i, rt := i, rt
		runGroup.Go(func() error {
			out, err := run(runCtx, nodes[i], rt.nodePath, rt.subTargets)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	err = runGroup.Wait()
	elapsed := time.Since(start)
	if err != nil {
		logger.ErrorContext(ctx, verb+" failed", "error", err)
		return nil, err
	}

	if err := p.SaveCache(); err != nil {
		logger.ErrorContext(ctx, verb+" failed", "error", err)
		return nil, err
	}
	logger.InfoContext(ctx, fmt.Sprintf("%s finished - %dms", verb, elapsed.Milliseconds()))

	var builtTargets []string
	for _, r := range results {
		builtTargets = append(builtTargets, r...)
	}
	return builtTargets, nil
}

// RunTask looks up name in the platform's task registry (which includes
// every rule-file-declared task plus the built-in "clean" task) and runs
// it with args.
func (p *Platform) RunTask(ctx context.Context, name string, args []string) (any, error) {
	ctx = ctxlog.WithLogger(ctx, p.getLogger())
	return p.tasks.Run(ctx, name, args)
}

// RequireNodeSources initializes the node at nodePath (if needed) and
// records sources as inputs it depends on.
func (p *Platform) RequireNodeSources(ctx context.Context, nodePath string, sources []string) error {
	ctx = ctxlog.WithLogger(ctx, p.getLogger())
	n, err := p.initNode(ctx, nodePath)
	if err != nil {
		return err
	}
	return n.RequireSources(ctx, sources)
}
