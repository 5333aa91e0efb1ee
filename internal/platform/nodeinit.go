package platform

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/makeplatform/internal/ctxlog"
	"github.com/specialistvlad/makeplatform/internal/fsutil"
	"github.com/specialistvlad/makeplatform/internal/node"
	"github.com/specialistvlad/makeplatform/internal/perrors"
	"github.com/specialistvlad/makeplatform/internal/projectconfig"
)

// nodeFuture memoizes one node's initialization result forever, for the
// lifetime of the platform: the underlying sync.Once guarantees the work
// it guards runs at most once ever, even if initNode is called again for
// the same path after the first call already completed — unlike
// golang.org/x/sync/singleflight, which only coalesces calls that overlap
// in time and would re-run the work for a second, later, non-overlapping
// call. That "at most once ever" guarantee is exactly what spec.md
// requires of node initialization, so a future keyed by node path is used
// instead.
type nodeFuture struct {
	once   sync.Once
	result *node.Node
	err    error
}

// initNode returns the fully initialized node at nodePath, running its
// one-time setup exactly once across the platform's lifetime (spec.md
// §4.5). Concurrent callers for the same path block on the same future and
// observe the same result.
func (p *Platform) initNode(ctx context.Context, nodePath string) (*node.Node, error) {
	future := p.futureFor(nodePath)
	future.once.Do(func() {
		future.result, future.err = p.buildNode(ctx, nodePath)
	})
	return future.result, future.err
}

func (p *Platform) futureFor(nodePath string) *nodeFuture {
	p.nodesMu.Lock()
	defer p.nodesMu.Unlock()
	f, ok := p.futures[nodePath]
	if !ok {
		f = &nodeFuture{}
		p.futures[nodePath] = f
	}
	return f
}

func (p *Platform) buildNode(ctx context.Context, nodePath string) (*node.Node, error) {
	dir := filepath.Join(p.projectDir, nodePath)
	if err := fsutil.EnsureDir(dir); err != nil {
		return nil, &perrors.NodeInitError{NodePath: nodePath, Err: err}
	}

	n := node.New(nodePath, dir)
	n.SetLogger(ctxlog.FromContext(ctx).With("node", nodePath))
	n.SetBuildGraph(p.buildGraph)
	n.SetBuildState(p.buildState)

	p.cacheMu.Lock()
	cache := p.cache
	p.cacheMu.Unlock()
	n.SetCache(cache)

	languages := p.GetLanguages()
	base, hasBase := p.projectConfig.NodeConfig(nodePath)

	if hasBase {
		p.applyNodeConfig(n, base, &languages)
	}

	for _, mask := range p.projectConfig.MatchingNodeMasks(nodePath) {
		p.applyNodeMaskConfig(n, mask, &languages)
	}

	if hasBase && base.ModeOverrides != nil {
		if override, ok := base.ModeOverrides[p.mode]; ok {
			p.applyNodeConfig(n, override, &languages)
		}
	}

	n.SetLanguages(languages)

	p.nodesMu.Lock()
	p.nodes[nodePath] = n
	p.nodesMu.Unlock()

	if err := n.LoadTechs(ctx); err != nil {
		return nil, &perrors.NodeInitError{NodePath: nodePath, Err: err}
	}
	return n, nil
}

func (p *Platform) applyNodeConfig(n *node.Node, cfg *projectconfig.NodeConfig, languages *[]string) {
	if len(cfg.Languages) > 0 {
		*languages = cfg.Languages
	}
	if len(cfg.Targets) > 0 {
		n.SetTargets(cfg.Targets)
	}
	if len(cfg.CleanTargets) > 0 {
		n.SetCleanTargets(cfg.CleanTargets)
	}
	if len(cfg.Techs) > 0 {
		n.SetTechs(convertTechs(cfg.Techs))
	}
}

func (p *Platform) applyNodeMaskConfig(n *node.Node, mask *projectconfig.NodeMaskConfig, languages *[]string) {
	if len(mask.Languages) > 0 {
		*languages = mask.Languages
	}
	if len(mask.Targets) > 0 {
		n.SetTargets(mask.Targets)
	}
	if len(mask.CleanTargets) > 0 {
		n.SetCleanTargets(mask.CleanTargets)
	}
	if len(mask.Techs) > 0 {
		n.SetTechs(convertTechs(mask.Techs))
	}
}

func convertTechs(cfgs []projectconfig.TechConfig) []node.Tech {
	out := make([]node.Tech, 0, len(cfgs))
	for _, c := range cfgs {
		target := c.Name
		if t, ok := c.Args["target"]; ok && t.Type() == cty.String {
			target = t.AsString()
		}
		out = append(out, node.Tech{Name: c.Name, Target: target, Args: c.Args})
	}
	return out
}

// getNode returns the already-initialized node at nodePath, if any.
func (p *Platform) getNode(nodePath string) (*node.Node, bool) {
	p.nodesMu.Lock()
	defer p.nodesMu.Unlock()
	n, ok := p.nodes[nodePath]
	return n, ok
}
