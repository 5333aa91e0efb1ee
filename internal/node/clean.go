package node

import "context"

// Clean removes the cached fingerprints for the given sub-targets (or
// every registered tech's target, for "*" / an empty list), so the next
// Build recomputes them regardless of whether their inputs actually
// changed.
func (n *Node) Clean(ctx context.Context, targets []string) error {
	n.setState(Cleaning)

	n.mu.RLock()
	techs := append([]Tech(nil), n.techs...)
	n.mu.RUnlock()

	if len(targets) == 0 {
		targets = []string{"*"}
	}

	for _, target := range targets {
		if target == "*" {
			for _, t := range techs {
				n.forgetTech(t)
			}
			continue
		}
		if t, ok := findTechByTarget(techs, target); ok {
			n.forgetTech(t)
		}
	}

	n.setState(Pending)
	return nil
}

func (n *Node) forgetTech(t Tech) {
	if n.cache == nil {
		return
	}
	artifact := n.path + "/" + t.Target
	n.cache.Set("tech", artifact, "")
}

// RequireSources records sources as inputs this node depends on, for
// visualization and future invalidation bookkeeping. It does not require
// the sources to currently exist on disk: a node may declare a source that
// a sibling node has not produced yet at declaration time.
func (n *Node) RequireSources(ctx context.Context, sources []string) error {
	if n.graph == nil {
		return nil
	}
	for _, src := range sources {
		srcID := n.path + "::" + src
		n.graph.AddNode(srcID, map[string]string{"kind": "source"})
		n.graph.AddEdge(srcID, n.path)
	}
	return nil
}

// BuiltTargets returns every artifact produced by Build calls so far.
func (n *Node) BuiltTargets() []string {
	n.builtMu.Lock()
	defer n.builtMu.Unlock()
	return append([]string(nil), n.built...)
}
