// Package node provides the reference implementation of the per-node
// builder spec.md §1 lists as an external collaborator ("takes a list of
// target names and returns built artifacts; exposes clean, tech-loading,
// sub-logger hookup"). internal/platform constructs and holds concrete
// *Node values and calls only the exported methods this package exposes;
// replacing this package would mean changing internal/platform too.
//
// The atomic, lock-free state field is grounded on the teacher's
// internal/node.Node, which tracks per-vertex execution state the same
// way; everything else here (targets, techs, cache-backed incremental
// build) is new, since the teacher's Node represents a DAG vertex in an
// HCL execution graph, a different problem from a build unit that owns a
// directory of targets.
package node

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/makeplatform/internal/buildgraph"
	"github.com/specialistvlad/makeplatform/internal/cachestore"
)

// State is the node's lifecycle state, tracked atomically since Build and
// Clean may be entered from concurrently running goroutines (never for the
// same node twice under spec.md's init-once rule, but state is still read
// from places like tests without synchronization otherwise).
type State int32

const (
	Pending State = iota
	Initialized
	Building
	Cleaning
	Done
	Failed
)

// Node is one build unit rooted at a directory under the project.
type Node struct {
	path string
	dir  string

	logger *slog.Logger
	graph  *buildgraph.Graph
	cache  *cachestore.Cache

	mu           sync.RWMutex
	languages    []string
	targets      []string
	cleanTargets []string
	techs        []Tech
	buildState   *sync.Map

	state   atomic.Int32
	builtMu sync.Mutex
	built   []string
}

// New creates a Node rooted at dir, addressed by path (relative to the
// project directory).
func New(path, dir string) *Node {
	n := &Node{path: path, dir: dir}
	n.state.Store(int32(Pending))
	return n
}

// Path returns the node's path relative to the project directory.
func (n *Node) Path() string { return n.path }

// Dir returns the node's absolute directory on disk.
func (n *Node) Dir() string { return n.dir }

// SetLogger attaches the sub-logger internal/platform derives for this
// node (spec.md §4.5 step 2: "attach a sub-logger named after nodePath").
func (n *Node) SetLogger(logger *slog.Logger) { n.logger = logger }

// SetBuildGraph attaches the shared, write-only build graph sink.
func (n *Node) SetBuildGraph(g *buildgraph.Graph) { n.graph = g }

// SetCache attaches the per-invocation cache this node's Build/Clean will
// read and write through.
func (n *Node) SetCache(c *cachestore.Cache) { n.cache = c }

// SetBuildState attaches the scratchpad shared among every node for the
// platform's lifetime.
func (n *Node) SetBuildState(state *sync.Map) { n.buildState = state }

// SetLanguages sets the node's effective language tags (spec.md §4.5 step
// 6: "the node's own if set, else platform's" — internal/platform resolves
// that fallback before calling this).
func (n *Node) SetLanguages(langs []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.languages = langs
}

// SetTargets sets the node's targets-to-build.
func (n *Node) SetTargets(targets []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = targets
}

// SetCleanTargets sets the node's targets-to-clean.
func (n *Node) SetCleanTargets(targets []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleanTargets = targets
}

// SetTechs sets the node's registered build steps.
func (n *Node) SetTechs(techs []Tech) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.techs = techs
}

// Languages returns the node's effective language tags.
func (n *Node) Languages() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]string(nil), n.languages...)
}

// State returns the node's current lifecycle state.
func (n *Node) State() State { return State(n.state.Load()) }

func (n *Node) setState(s State) { n.state.Store(int32(s)) }

// Destruct detaches every collaborator reference this node was wired up
// with (cache, build graph, shared build state), per spec.md §4.8's
// "destructs every registered node" step. The node itself is not reusable
// afterward — a platform that needs it again constructs a fresh one
// through initNode, same as any other at-most-once-initialized node.
func (n *Node) Destruct() {
	n.mu.Lock()
	n.techs = nil
	n.buildState = nil
	n.mu.Unlock()

	n.cache = nil
	n.graph = nil
	n.setState(Pending)
}
