// Package version exposes the platform's own tool version, the value
// spec.md requires the cache validator to key cache validity on. The
// teacher's equivalent concept (a sibling package manifest) does not exist
// as a runtime-readable artifact for a compiled Go binary, so this is
// sourced the idiomatic Go way: from the module's build info when
// available, falling back to a hand-maintained constant for binaries built
// without module information (e.g. `go build` with GOFLAGS=-trimpath in
// some older toolchains, or a test binary).
package version

import "runtime/debug"

// fallback is bumped by hand whenever a change to cache-relevant behavior
// (the rule-file format, the node-config pipeline, the cache schema itself)
// means old caches must be invalidated.
const fallback = "0.1.0"

// Current returns the running binary's module version, or fallback if build
// info isn't available or didn't record one.
func Current() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fallback
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return fallback
}
