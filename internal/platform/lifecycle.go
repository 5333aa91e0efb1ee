package platform

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/specialistvlad/makeplatform/internal/buildgraph"
	"github.com/specialistvlad/makeplatform/internal/cachestore"
	"github.com/specialistvlad/makeplatform/internal/projectconfig"
)

// GetDir returns the absolute project directory this platform was
// initialized for.
func (p *Platform) GetDir() string { return p.projectDir }

// GetMode returns the resolved build mode.
func (p *Platform) GetMode() string { return p.mode }

// GetEnv returns a snapshot copy of the platform's resolved env map.
func (p *Platform) GetEnv() map[string]string {
	p.envMu.RLock()
	defer p.envMu.RUnlock()
	out := make(map[string]string, len(p.env))
	for k, v := range p.env {
		out[k] = v
	}
	return out
}

// SetEnv replaces the platform's env map wholesale.
func (p *Platform) SetEnv(env map[string]string) {
	p.envMu.Lock()
	defer p.envMu.Unlock()
	p.env = env
}

// GetLanguages returns the platform's default language tags.
//
// Deprecated: per-node languages (resolved via node-config/node-mask
// overrides in initNode) should be consulted instead wherever a node is
// already known; this remains only as the project-wide fallback spec.md
// §4.5 step 6 falls back to.
func (p *Platform) GetLanguages() []string {
	p.languagesMu.RLock()
	defer p.languagesMu.RUnlock()
	return append([]string(nil), p.languages...)
}

// SetLanguages replaces the platform's default language tags.
//
// Deprecated: see GetLanguages.
func (p *Platform) SetLanguages(langs []string) {
	p.languagesMu.Lock()
	defer p.languagesMu.Unlock()
	p.languages = langs
}

// GetLogger returns the platform's current root logger.
func (p *Platform) GetLogger() *slog.Logger { return p.getLogger() }

// SetLogger replaces the platform's root logger.
func (p *Platform) SetLogger(logger *slog.Logger) { p.setLogger(logger) }

func (p *Platform) getLogger() *slog.Logger {
	p.loggerMu.RLock()
	defer p.loggerMu.RUnlock()
	return p.logger
}

func (p *Platform) setLogger(logger *slog.Logger) {
	p.loggerMu.Lock()
	defer p.loggerMu.Unlock()
	p.logger = logger
}

// GetCacheStorage returns the platform's shared, persistent cache storage.
func (p *Platform) GetCacheStorage() *cachestore.Storage {
	p.cacheStorageMu.RLock()
	defer p.cacheStorageMu.RUnlock()
	return p.cacheStorage
}

// SetCacheStorage replaces the platform's shared cache storage.
func (p *Platform) SetCacheStorage(s *cachestore.Storage) {
	p.cacheStorageMu.Lock()
	defer p.cacheStorageMu.Unlock()
	p.cacheStorage = s
}

// GetBuildGraph returns the platform's write-only visualization sink.
func (p *Platform) GetBuildGraph() *buildgraph.Graph { return p.buildGraph }

// GetProjectConfig returns the evaluated project config collaborator.
func (p *Platform) GetProjectConfig() *projectconfig.Config { return p.projectConfig }

// GetLevelNamingScheme returns the naming scheme registered for levelPath,
// if any.
func (p *Platform) GetLevelNamingScheme(levelPath string) (projectconfig.LevelScheme, bool) {
	p.levelSchemesMu.RLock()
	defer p.levelSchemesMu.RUnlock()
	scheme, ok := p.levelSchemes[levelPath]
	return scheme, ok
}

// registerBuiltinCleanTask registers the "clean" task every project gets
// for free: per spec.md §4.2 step 8, it just forwards its args to
// cleanTargets, the same entry point the "clean" CLI verb uses directly.
func (p *Platform) registerBuiltinCleanTask() {
	p.tasks.Register("clean", func(ctx context.Context, args []string) (any, error) {
		return nil, p.CleanTargets(ctx, args)
	})
}

// registerRuleFileTasks wires every `task "<name>" { ... }` block the rule
// files declared onto the task registry, per spec.md §4.7: each becomes a
// task.Func that runs its configured command as an external process,
// rooted at the project directory, with the task's invocation args appended
// to the configured argv.
func (p *Platform) registerRuleFileTasks() {
	for name, cfg := range p.projectConfig.TaskConfigs() {
		cfg := cfg
		p.tasks.Register(name, func(ctx context.Context, args []string) (any, error) {
			return p.buildTask(ctx, cfg, args)
		})
	}
}

// buildTask runs cfg's configured command with args appended, scoped to the
// project directory, and returns its combined stdout/stderr output.
func (p *Platform) buildTask(ctx context.Context, cfg *projectconfig.TaskConfig, args []string) (any, error) {
	if len(cfg.Command) == 0 {
		return nil, nil
	}
	argv := append(append([]string(nil), cfg.Command...), args...)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = p.projectDir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Destruct tears the platform down per spec.md §4.8: it clears build state,
// destructs every initialized node, drops and detaches the cache storage
// and per-invocation cache, and detaches the project config and level
// naming table. Calling Destruct more than once is safe and a no-op after
// the first call.
func (p *Platform) Destruct() {
	p.buildState = nil

	p.nodesMu.Lock()
	for _, n := range p.nodes {
		n.Destruct()
	}
	p.nodes = nil
	p.futures = nil
	p.nodesMu.Unlock()

	p.cacheMu.Lock()
	if p.cache != nil {
		p.cache.Destruct()
		p.cache = nil
	}
	p.cacheMu.Unlock()

	p.cacheStorageMu.Lock()
	if p.cacheStorage != nil {
		_ = p.cacheStorage.Drop()
		p.cacheStorage = nil
	}
	p.cacheStorageMu.Unlock()

	p.projectConfig = nil

	p.levelSchemesMu.Lock()
	p.levelSchemes = nil
	p.levelSchemesMu.Unlock()
}
