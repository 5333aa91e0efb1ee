// Package projectconfig implements the project configuration object
// spec.md §1 calls an external collaborator: it is evaluated by user rule
// files (here, HCL rule files, per spec.md §9's "declarative data file plus
// a small evaluator" option) and exposes node-configs, node-mask-configs,
// mode-configs, task-configs, languages, env values, level naming schemes,
// and the included-file list back to internal/platform.
package projectconfig

import "sync"

// Config is a fresh, mutable project-config instance. One is constructed
// per platform init and mutated in place by rule-file evaluation
// (EvaluateFile calls Register*/Set*/Add* as it decodes each rule file).
type Config struct {
	projectDir string

	mu            sync.RWMutex
	nodeConfigs   map[string]*NodeConfig
	nodeOrder     []string
	nodeMasks     []*NodeMaskConfig
	modeConfigs   map[string]*ModeConfig
	taskConfigs   map[string]*TaskConfig
	languages     []string
	env           map[string]string
	includedFiles []string
	levelSchemes  map[string]LevelScheme
}

// New creates an empty Config bound to projectDir.
func New(projectDir string) *Config {
	return &Config{
		projectDir:   projectDir,
		nodeConfigs:  make(map[string]*NodeConfig),
		modeConfigs:  make(map[string]*ModeConfig),
		taskConfigs:  make(map[string]*TaskConfig),
		env:          make(map[string]string),
		levelSchemes: make(map[string]LevelScheme),
	}
}

// ProjectDir returns the directory this config was built for.
func (c *Config) ProjectDir() string { return c.projectDir }

// RegisterNode adds or replaces the node-config for cfg.Path. First
// registration fixes that path's position in NodeOrder; a later
// replacement keeps its original slot rather than moving to the end.
func (c *Config) RegisterNode(cfg *NodeConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.nodeConfigs[cfg.Path]; !exists {
		c.nodeOrder = append(c.nodeOrder, cfg.Path)
	}
	c.nodeConfigs[cfg.Path] = cfg
}

// RegisterNodeMask appends a node-mask-config. Order is preserved, since
// spec.md §4.5 step 4 applies masks "in the order the project config
// returns them".
func (c *Config) RegisterNodeMask(mask *NodeMaskConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodeMasks = append(c.nodeMasks, mask)
}

// RegisterMode adds or replaces the mode-config named cfg.Name.
func (c *Config) RegisterMode(cfg *ModeConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modeConfigs[cfg.Name] = cfg
}

// RegisterTask adds or replaces the task-config named cfg.Name.
func (c *Config) RegisterTask(cfg *TaskConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taskConfigs[cfg.Name] = cfg
}

// SetLanguages replaces the project's ordered language tag list.
func (c *Config) SetLanguages(langs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.languages = append([]string(nil), langs...)
}

// SetEnv merges kv into the project's env map.
func (c *Config) SetEnv(kv map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range kv {
		c.env[k] = v
	}
}

// AddIncludedFile appends path to the included-config filenames the
// platform folds into makefilePaths after evaluating a rule file.
func (c *Config) AddIncludedFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.includedFiles = append(c.includedFiles, path)
}

// SetLevelScheme records the naming scheme for levelPath.
func (c *Config) SetLevelScheme(levelPath string, scheme LevelScheme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levelSchemes[levelPath] = scheme
}

// NodeConfigs returns a snapshot copy of the node-config map.
func (c *Config) NodeConfigs() map[string]*NodeConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*NodeConfig, len(c.nodeConfigs))
	for k, v := range c.nodeConfigs {
		out[k] = v
	}
	return out
}

// NodeOrder returns every registered node path in first-registration order.
// spec.md §4.4's empty-input expansion and §8's determinism invariant both
// depend on a stable iteration order that a plain Go map cannot provide.
func (c *Config) NodeOrder() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.nodeOrder...)
}

// NodeConfig returns the node-config registered at path, if any.
func (c *Config) NodeConfig(path string) (*NodeConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.nodeConfigs[path]
	return cfg, ok
}

// MatchingNodeMasks returns every registered node-mask-config whose pattern
// matches nodePath, preserving registration order.
func (c *Config) MatchingNodeMasks(nodePath string) []*NodeMaskConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var matched []*NodeMaskConfig
	for _, mask := range c.nodeMasks {
		if mask.Matches(nodePath) {
			matched = append(matched, mask)
		}
	}
	return matched
}

// ModeConfig returns the mode-config named name, if any.
func (c *Config) ModeConfig(name string) (*ModeConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.modeConfigs[name]
	return cfg, ok
}

// TaskConfig returns the task-config named name, if any.
func (c *Config) TaskConfig(name string) (*TaskConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.taskConfigs[name]
	return cfg, ok
}

// TaskConfigs returns a snapshot copy of the task-config map.
func (c *Config) TaskConfigs() map[string]*TaskConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*TaskConfig, len(c.taskConfigs))
	for k, v := range c.taskConfigs {
		out[k] = v
	}
	return out
}

// Languages returns the project's ordered language tag list.
func (c *Config) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.languages...)
}

// Env returns a snapshot copy of the project's env map.
func (c *Config) Env() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.env))
	for k, v := range c.env {
		out[k] = v
	}
	return out
}

// IncludedFiles returns the included-config filenames reported so far.
func (c *Config) IncludedFiles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.includedFiles...)
}

// LevelSchemes returns a snapshot copy of the level-naming-scheme map.
func (c *Config) LevelSchemes() map[string]LevelScheme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]LevelScheme, len(c.levelSchemes))
	for k, v := range c.levelSchemes {
		out[k] = v
	}
	return out
}

// ApplyMode activates the mode-config named mode against this project
// config, per spec.md §4.2 step 6: its env and languages are merged in, and
// any node-configs it declares are registered.
func (c *Config) ApplyMode(mode string) {
	modeCfg, ok := c.ModeConfig(mode)
	if !ok {
		return
	}
	if len(modeCfg.Languages) > 0 {
		c.SetLanguages(modeCfg.Languages)
	}
	if len(modeCfg.Env) > 0 {
		c.SetEnv(modeCfg.Env)
	}
	for _, nodeCfg := range modeCfg.Nodes {
		c.RegisterNode(nodeCfg)
	}
}
