// Package platform implements the MakePlatform: the top-level coordinator
// that loads project configuration, resolves build targets to nodes,
// initializes those nodes on demand, drives concurrent build/clean, and
// maintains a persistent, tool-version-aware build cache.
//
// This is the "hard part" spec.md §1 describes: everything else in this
// module (internal/node, internal/cachestore, internal/buildgraph,
// internal/task, internal/projectconfig) is a collaborator whose interface
// this package consumes but whose implementation it never reaches into.
package platform

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/makeplatform/internal/buildgraph"
	"github.com/specialistvlad/makeplatform/internal/cachestore"
	"github.com/specialistvlad/makeplatform/internal/node"
	"github.com/specialistvlad/makeplatform/internal/projectconfig"
	"github.com/specialistvlad/makeplatform/internal/task"
)

// defaultMode is used when neither an explicit mode argument nor YENV is
// set.
const defaultMode = "development"

// Platform is the MakePlatform coordinator. A zero Platform is not usable;
// construct one with New and call Init before anything else.
type Platform struct {
	projectDir  string
	projectName string
	mode        string
	configDir   string

	makefileMu    sync.RWMutex
	makefilePaths []string

	projectConfig *projectconfig.Config

	envMu sync.RWMutex
	env   map[string]string

	languagesMu sync.RWMutex
	languages   []string

	levelSchemesMu sync.RWMutex
	levelSchemes   map[string]projectconfig.LevelScheme

	loggerMu sync.RWMutex
	logger   *slog.Logger

	buildGraph *buildgraph.Graph

	cacheStorageMu sync.RWMutex
	cacheStorage   *cachestore.Storage

	cacheMu sync.Mutex
	cache   *cachestore.Cache

	buildState *sync.Map

	nodesMu sync.Mutex
	nodes   map[string]*node.Node
	futures map[string]*nodeFuture

	tasks *task.Registry
}

// New creates an unstarted Platform. Call Init to bring it up.
func New() *Platform {
	return &Platform{tasks: task.New()}
}

// Init brings the platform up for projectDir: it resolves the build mode,
// discovers the config directory and primary rule file, evaluates the rule
// files against a fresh project config, and prepares the cache storage.
// See spec.md §4.2 for the exact step sequence this follows.
func (p *Platform) Init(ctx context.Context, projectDir string, mode string) error {
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return err
	}
	p.projectDir = absDir
	p.projectName = filepath.Base(absDir)

	// Enrichment over spec.md: optionally source a .env file before
	// resolving mode, so a developer's local YENV override can live in a
	// dotenv file instead of their shell profile. A missing file is not an
	// error.
	_ = godotenv.Load(filepath.Join(absDir, ".env"))

	p.mode = resolveMode(mode)

	configDir, err := p.discoverConfigDir()
	if err != nil {
		return err
	}
	p.configDir = configDir

	primary, err := p.getMakeFile("make")
	if err != nil {
		return err
	}

	if p.getLogger() == nil {
		p.setLogger(newLogger())
	}
	p.buildState = &sync.Map{}
	p.buildGraph = buildgraph.New(p.projectName)
	p.projectConfig = projectconfig.New(p.projectDir)
	p.nodesMu.Lock()
	p.nodes = make(map[string]*node.Node)
	p.futures = make(map[string]*nodeFuture)
	p.nodesMu.Unlock()

	p.makefileMu.Lock()
	p.makefilePaths = []string{primary}
	p.makefileMu.Unlock()

	personal, hasPersonal := "", false
	if pf, err := p.getMakeFile("make.personal"); err == nil {
		personal, hasPersonal = pf, true
		p.makefileMu.Lock()
		p.makefilePaths = append(p.makefilePaths, personal)
		p.makefileMu.Unlock()
	}

	if err := p.evaluateRuleFile(primary); err != nil {
		return err
	}
	if hasPersonal {
		if err := p.evaluateRuleFile(personal); err != nil {
			return err
		}
	}

	p.makefileMu.Lock()
	for _, inc := range p.projectConfig.IncludedFiles() {
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(p.configDir, incPath)
		}
		p.makefilePaths = append(p.makefilePaths, incPath)
	}
	p.makefileMu.Unlock()

	p.projectConfig.ApplyMode(p.mode)

	p.languagesMu.Lock()
	p.languages = p.projectConfig.Languages()
	p.languagesMu.Unlock()

	p.envMu.Lock()
	p.env = p.projectConfig.Env()
	p.envMu.Unlock()

	p.levelSchemesMu.Lock()
	p.levelSchemes = p.projectConfig.LevelSchemes()
	p.levelSchemesMu.Unlock()

	p.registerBuiltinCleanTask()
	p.registerRuleFileTasks()

	tmpDir := filepath.Join(p.configDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return err
	}
	p.cacheStorageMu.Lock()
	p.cacheStorage = cachestore.New(filepath.Join(tmpDir, "cache.js"))
	p.cacheStorageMu.Unlock()

	if err := p.LoadCache(); err != nil {
		return err
	}

	p.getLogger().DebugContext(ctx, "platform initialized",
		"project", p.projectName, "mode", p.mode, "configDir", p.configDir)
	return nil
}

func resolveMode(mode string) string {
	if mode != "" {
		return mode
	}
	if env := os.Getenv("YENV"); env != "" {
		return env
	}
	return defaultMode
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
