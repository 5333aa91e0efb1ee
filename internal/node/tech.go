package node

import (
	"context"
	"sort"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Tech is one build step registered on a node: the tech (build-step)
// plugin interface itself is explicitly out of scope (spec.md §1
// Non-goals), so this is the minimal in-process shape needed to exercise
// the reference Builder's Build/Clean and the incremental cache they
// consult. A Tech produces exactly one named target from a set of
// cty-typed arguments.
type Tech struct {
	Name   string
	Target string
	Args   map[string]cty.Value
}

// fingerprint returns a stable digest of the tech's arguments, stored in the
// incremental-build cache under the tech's artifact name: if a target's
// fingerprint is unchanged since the last build, Build skips redoing the
// work.
func (t Tech) fingerprint() (string, error) {
	keys := make([]string, 0, len(t.Args))
	for k := range t.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := make(map[string]cty.Value, len(t.Args))
	for _, k := range keys {
		obj[k] = t.Args[k]
	}
	val := cty.ObjectVal(obj)
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", err
	}
	return t.Name + ":" + t.Target + ":" + string(raw), nil
}

// LoadTechs records each of the node's registered techs as a vertex in the
// shared build graph, with an edge from the node itself, and marks the node
// Initialized. It performs no validation of the techs.
// This is the Builder contract spec.md §4.5 step 7 drives ("tell the node
// to load its techs").
func (n *Node) LoadTechs(ctx context.Context) error {
	n.mu.RLock()
	techs := append([]Tech(nil), n.techs...)
	n.mu.RUnlock()

	if n.graph != nil {
		n.graph.AddNode(n.path, map[string]string{"kind": "node"})
		for _, t := range techs {
			techID := n.path + "#" + t.Name
			n.graph.AddNode(techID, map[string]string{"kind": "tech", "target": t.Target})
			n.graph.AddEdge(n.path, techID)
		}
	}
	n.setState(Initialized)
	return nil
}
