package cachestore

import "fmt"

// Cache is the per-invocation view over a Storage that spec.md requires
// buildTargets/cleanTargets to (re)construct at the start of every call and
// tear down at destruct. It namespaces every key it touches under the
// project name so that two platforms sharing one Storage file (not a
// supported configuration today, but not actively prevented either) would
// not collide.
type Cache struct {
	storage     *Storage
	projectName string
}

// NewCache builds a fresh per-invocation cache over storage, scoped to
// projectName.
func NewCache(storage *Storage, projectName string) *Cache {
	return &Cache{storage: storage, projectName: projectName}
}

func (c *Cache) namespace(sub string) string {
	return fmt.Sprintf("%s:%s", c.projectName, sub)
}

// Get reads key from the given sub-namespace, scoped to this cache's
// project.
func (c *Cache) Get(sub, key string) (any, bool) {
	return c.storage.Get(c.namespace(sub), key)
}

// Set writes key into the given sub-namespace, scoped to this cache's
// project.
func (c *Cache) Set(sub, key string, value any) {
	c.storage.Set(c.namespace(sub), key, value)
}

// Storage exposes the underlying shared storage, for collaborators (such as
// a node's builder) that need direct namespace control.
func (c *Cache) Storage() *Storage { return c.storage }

// Destruct is a no-op placeholder matching the lifecycle the platform
// drives it through; a per-invocation cache holds no resources of its own
// beyond the shared Storage, which the platform destructs separately.
func (c *Cache) Destruct() {}
