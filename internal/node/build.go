package node

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/makeplatform/internal/fsutil"
)

// Build runs every sub-target in targets against this node's registered
// techs and returns the list of artifacts it produced. A sub-target of
// "*" (or an empty list) builds every registered tech; any other
// sub-target is matched against a tech's declared Target name. A
// sub-target that matches no tech is passed through as a bare artifact
// name, since producing one is the out-of-scope tech plugin's job, not
// this reference implementation's.
func (n *Node) Build(ctx context.Context, targets []string) ([]string, error) {
	n.setState(Building)

	n.mu.RLock()
	techs := append([]Tech(nil), n.techs...)
	n.mu.RUnlock()

	if len(targets) == 0 {
		targets = []string{"*"}
	}

	var built []string
	for _, target := range targets {
		if target == "*" {
			if len(techs) == 0 {
				built = append(built, n.path)
				continue
			}
			for _, t := range techs {
				artifact, err := n.buildTech(t)
				if err != nil {
					n.setState(Failed)
					return nil, fmt.Errorf("node %q: %w", n.path, err)
				}
				built = append(built, artifact)
			}
			continue
		}

		if t, ok := findTechByTarget(techs, target); ok {
			artifact, err := n.buildTech(t)
			if err != nil {
				n.setState(Failed)
				return nil, fmt.Errorf("node %q: %w", n.path, err)
			}
			built = append(built, artifact)
			continue
		}

		built = append(built, n.path+"/"+target)
	}

	n.setState(Done)
	n.builtMu.Lock()
	n.built = append(n.built, built...)
	n.builtMu.Unlock()
	return built, nil
}

func (n *Node) buildTech(t Tech) (string, error) {
	fp, err := t.fingerprint()
	if err != nil {
		return "", err
	}
	sourcesFP, err := n.sourceFingerprint()
	if err != nil {
		return "", err
	}
	if sourcesFP != "" {
		fp += "|" + sourcesFP
	}
	artifact := n.path + "/" + t.Target

	if n.cache != nil {
		if cached, ok := n.cache.Get("tech", artifact); ok {
			if cachedFP, _ := cached.(string); cachedFP == fp {
				if n.logger != nil {
					n.logger.Debug("tech cache hit, skipping rebuild", "artifact", artifact)
				}
				return artifact, nil
			}
		}
		n.cache.Set("tech", artifact, fp)
	}

	if n.graph != nil {
		n.graph.AddEdge(n.path+"#"+t.Name, artifact)
	}
	return artifact, nil
}

// sourceFingerprint folds the mtimes of every source file matching the
// node's effective language tags (treated as file extensions) into a stable
// digest, so that a source-only edit under the node's directory invalidates
// the tech cache even when the tech's own arguments are unchanged.
func (n *Node) sourceFingerprint() (string, error) {
	n.mu.RLock()
	langs := append([]string(nil), n.languages...)
	n.mu.RUnlock()

	if len(langs) == 0 || !fsutil.IsDir(n.dir) {
		return "", nil
	}

	var files []string
	for _, lang := range langs {
		ext := lang
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		found, err := fsutil.FindFilesByExtension(n.dir, ext)
		if err != nil {
			return "", err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return "", nil
	}
	sort.Strings(files)

	var b strings.Builder
	for _, f := range files {
		mtime, err := fsutil.ModTimeMillis(f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s:%d;", f, mtime)
	}
	return b.String(), nil
}

func findTechByTarget(techs []Tech, target string) (Tech, bool) {
	for _, t := range techs {
		if t.Target == target {
			return t, true
		}
	}
	return Tech{}, false
}
