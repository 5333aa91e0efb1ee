package projectconfig

import "github.com/zclconf/go-cty/cty"

// TechConfig is one `tech` block inside a node-config or node-mask-config
// body: a single build step to register on a node, with whatever
// cty-typed arguments its author wrote. The tech (build-step) plugin
// interface itself is out of scope per spec.md §1; this struct is just the
// configuration-side shape the core passes through to a node's builder
// untouched.
type TechConfig struct {
	Name string
	Args map[string]cty.Value
}

// NodeConfig is the decoded body of a `node "<path>" { ... }` block: the
// settings spec.md §4.5 step 6 applies to a node once it is initialized.
type NodeConfig struct {
	Path         string
	Languages    []string
	Targets      []string
	CleanTargets []string
	Techs        []TechConfig
	// ModeOverrides holds nested `mode "<name>" { ... }` blocks found inside
	// this node's body; spec.md §4.5 step 5 executes the one matching the
	// active mode, if any.
	ModeOverrides map[string]*NodeConfig
}

// NodeMaskConfig is the decoded body of a `node_mask "<pattern>" { ... }`
// block: the same settings as a NodeConfig, applied to every node whose
// path matches Pattern (a filepath.Match-style glob).
type NodeMaskConfig struct {
	Pattern      string
	Languages    []string
	Targets      []string
	CleanTargets []string
	Techs        []TechConfig
}

// Matches reports whether nodePath satisfies this mask's pattern. Pattern
// is matched with filepath.Match semantics against the full node path, so
// "bundles/*" matches "bundles/page" but not "bundles/page/header"; "**"
// is special-cased to mean "any number of path segments" since
// filepath.Match has no such wildcard.
func (m *NodeMaskConfig) Matches(nodePath string) bool {
	return globMatch(m.Pattern, nodePath)
}

// ModeConfig is the decoded body of a top-level `mode "<name>" { ... }`
// block: project-wide overrides activated only when that mode is current.
type ModeConfig struct {
	Name      string
	Languages []string
	Env       map[string]string
	// Nodes holds additional node-configs declared only under this mode,
	// merged into the project's node-configs when the mode is activated.
	Nodes []*NodeConfig
}

// TaskConfig is the decoded body of a top-level `task "<name>" { ... }`
// block: an ad-hoc, named external command the platform can run via
// buildTask, e.g. `task "deploy" { command = ["./scripts/deploy.sh"] }`.
type TaskConfig struct {
	Name    string
	Command []string
}

// LevelScheme is the opaque `{buildLevel, buildFilePath}` pair spec.md §3
// stores per level path.
type LevelScheme struct {
	BuildLevel    string
	BuildFilePath string
}
