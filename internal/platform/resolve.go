package platform

import (
	"sort"
	"strings"

	"github.com/specialistvlad/makeplatform/internal/perrors"
)

// resolvedTarget is one input string matched to the node whose path is its
// longest registered prefix, plus whatever sub-target suffix remained.
type resolvedTarget struct {
	nodePath   string
	subTargets []string
}

// resolveTargets implements spec.md §4.4: every input has any leading
// "./" repetitions stripped, then is matched against every known
// node-config path as a prefix, preferring the longest match.
// Inputs that resolve to the same node are merged, preserving first-seen
// order and uniqueness for both nodes and their sub-targets; an empty
// input list expands to every known node with sub-target "*". An input
// matching no node's prefix is a TargetNotFoundError.
func (p *Platform) resolveTargets(inputs []string) ([]resolvedTarget, error) {
	candidates := p.knownNodePaths()

	if len(inputs) == 0 {
		out := make([]resolvedTarget, 0, len(candidates))
		for _, path := range candidates {
			out = append(out, resolvedTarget{nodePath: path, subTargets: []string{"*"}})
		}
		return out, nil
	}

	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })

	order := make([]string, 0, len(inputs))
	bySub := make(map[string][]string)
	seen := make(map[string]bool)
	seenSub := make(map[string]map[string]bool)

	for _, raw := range inputs {
		input := raw
		for strings.HasPrefix(input, "./") {
			input = strings.TrimPrefix(input, "./")
		}

		var matched string
		for _, path := range candidates {
			if input == path || strings.HasPrefix(input, path+"/") || strings.HasPrefix(input, path+"\\") {
				matched = path
				break
			}
		}
		if matched == "" {
			return nil, &perrors.TargetNotFoundError{Target: raw}
		}

		sub := strings.TrimPrefix(input, matched)
		sub = strings.TrimPrefix(sub, "/")
		sub = strings.TrimPrefix(sub, "\\")
		if sub == "" {
			sub = "*"
		}

		if !seen[matched] {
			seen[matched] = true
			order = append(order, matched)
			seenSub[matched] = make(map[string]bool)
		}
		if !seenSub[matched][sub] {
			seenSub[matched][sub] = true
			bySub[matched] = append(bySub[matched], sub)
		}
	}

	out := make([]resolvedTarget, 0, len(order))
	for _, nodePath := range order {
		out = append(out, resolvedTarget{nodePath: nodePath, subTargets: bySub[nodePath]})
	}
	return out, nil
}

// knownNodePaths returns every registered node-config path in
// first-registration order. spec.md §4.4's empty-input expansion and §8's
// determinism invariant both require a stable order, which a bare Go map
// (randomized on every range) cannot provide on its own.
func (p *Platform) knownNodePaths() []string {
	return p.projectConfig.NodeOrder()
}
