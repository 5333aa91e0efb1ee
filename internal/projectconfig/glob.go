package projectconfig

import (
	"path/filepath"
	"strings"
)

// globMatch matches nodePath against pattern. It is filepath.Match plus one
// extra wildcard, "**", meaning "zero or more path segments", since
// filepath.Match's "*" does not cross "/" and node-mask patterns are
// routinely meant to reach into nested bundles (e.g. "bundles/**" should
// match "bundles/page/bundles/header").
func globMatch(pattern, nodePath string) bool {
	if !strings.Contains(pattern, "**") {
		ok, err := filepath.Match(pattern, nodePath)
		return err == nil && ok
	}

	parts := strings.SplitN(pattern, "**", 2)
	prefix, suffix := parts[0], parts[1]
	prefix = strings.TrimSuffix(prefix, "/")
	suffix = strings.TrimPrefix(suffix, "/")

	if prefix != "" {
		if !strings.HasPrefix(nodePath, prefix) {
			return false
		}
		rest := strings.TrimPrefix(nodePath, prefix)
		if strings.HasSuffix(parts[0], "/") && rest != "" && !strings.HasPrefix(rest, "/") {
			return false
		}
		rest = strings.TrimPrefix(rest, "/")
		if suffix == "" {
			return true
		}
		ok, err := filepath.Match(suffix, rest)
		if err == nil && ok {
			return true
		}
		return matchAnyDepth(suffix, rest)
	}

	if suffix == "" {
		return true
	}
	return matchAnyDepth(suffix, nodePath)
}

func matchAnyDepth(pattern, path string) bool {
	segments := strings.Split(path, "/")
	for i := range segments {
		candidate := strings.Join(segments[i:], "/")
		if ok, err := filepath.Match(pattern, candidate); err == nil && ok {
			return true
		}
	}
	return false
}
