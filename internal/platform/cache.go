package platform

import (
	"github.com/specialistvlad/makeplatform/internal/cachestore"
	"github.com/specialistvlad/makeplatform/internal/fsutil"
	"github.com/specialistvlad/makeplatform/internal/version"
)

// LoadCache brings the shared cache storage up from disk and validates it
// against the running tool version, active mode, and the mtimes of every
// rule file that contributed to this run (spec.md §4.3). Any mismatch
// drops the whole cache rather than trying to invalidate selectively, since
// a partial rule-file change can ripple into node-configs the cache has no
// way to attribute.
func (p *Platform) LoadCache() error {
	p.cacheStorageMu.RLock()
	storage := p.cacheStorage
	p.cacheStorageMu.RUnlock()

	if err := storage.Load(); err != nil {
		return err
	}

	valid := p.cacheMatchesCurrentRun(storage)
	if !valid {
		if err := storage.Drop(); err != nil {
			return err
		}
		p.recordCacheFingerprint(storage)
	}

	p.cacheMu.Lock()
	p.cache = cachestore.NewCache(storage, p.projectName)
	p.cacheMu.Unlock()
	return nil
}

func (p *Platform) cacheMatchesCurrentRun(storage *cachestore.Storage) bool {
	meta := storage.Namespace(cachestore.ReservedNamespace)
	if meta == nil {
		return false
	}
	if v, _ := meta["version"].(string); v != version.Current() {
		return false
	}
	if m, _ := meta["mode"].(string); m != p.mode {
		return false
	}

	p.makefileMu.RLock()
	paths := append([]string(nil), p.makefilePaths...)
	p.makefileMu.RUnlock()

	recorded, _ := meta["makefiles"].(map[string]any)
	if recorded == nil {
		return false
	}
	if len(recorded) != len(paths) {
		return false
	}
	for _, path := range paths {
		mtime, err := fsutil.ModTimeMillis(path)
		if err != nil {
			return false
		}
		rawRecorded, ok := recorded[path]
		if !ok {
			return false
		}
		recordedMtime, ok := rawRecorded.(float64)
		if !ok || int64(recordedMtime) != mtime {
			return false
		}
	}
	return true
}

func (p *Platform) recordCacheFingerprint(storage *cachestore.Storage) {
	p.makefileMu.RLock()
	paths := append([]string(nil), p.makefilePaths...)
	p.makefileMu.RUnlock()

	makefiles := make(map[string]any, len(paths))
	for _, path := range paths {
		mtime, err := fsutil.ModTimeMillis(path)
		if err != nil {
			continue
		}
		makefiles[path] = mtime
	}

	storage.Set(cachestore.ReservedNamespace, "version", version.Current())
	storage.Set(cachestore.ReservedNamespace, "mode", p.mode)
	storage.Set(cachestore.ReservedNamespace, "makefiles", makefiles)
}

// rebuildCache constructs a fresh per-invocation cache over the shared
// cacheStorage, per spec.md §4.6 step 1: BuildTargets/CleanTargets each
// start from a new cache wrapper rather than reusing whatever a prior
// call (or LoadCache) left behind. Nodes already initialized earlier in
// the platform's lifetime keep whichever cache reference they were built
// with — spec.md §9 leaves the consequences of overlapping/repeated
// BuildTargets calls on one platform undefined, so this only guarantees
// that nodes initialized *during* this call see the fresh instance.
func (p *Platform) rebuildCache() {
	p.cacheStorageMu.RLock()
	storage := p.cacheStorage
	p.cacheStorageMu.RUnlock()

	p.cacheMu.Lock()
	p.cache = cachestore.NewCache(storage, p.projectName)
	p.cacheMu.Unlock()
}

// SaveCache writes the current mode, tool version, and makefile mtime map
// into the reserved cache namespace, then persists the storage to disk, per
// spec.md §4.3's saveCache contract.
func (p *Platform) SaveCache() error {
	p.cacheStorageMu.RLock()
	storage := p.cacheStorage
	p.cacheStorageMu.RUnlock()
	if storage == nil {
		return nil
	}
	p.recordCacheFingerprint(storage)
	return storage.Save()
}

// DropCache wipes the shared cache storage both in memory and on disk.
func (p *Platform) DropCache() error {
	p.cacheStorageMu.RLock()
	storage := p.cacheStorage
	p.cacheStorageMu.RUnlock()
	if storage == nil {
		return nil
	}
	return storage.Drop()
}
