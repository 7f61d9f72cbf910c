// Package query is the incremental-compilation black box spec.md §5/§9
// depend on without specifying: a minimal content-hash-keyed memoiser so
// the rest of the compiler has something concrete to call between passes.
// There is no invalidation protocol here (Non-goal) -- a Cache entry is
// simply indexed by the hash of whatever bytes produced it, the same
// "cache by canonical identity" shape as the teacher's
// internal/loader.ModuleLoader, generalised from a module-path key to a
// content-hash key and made safe for concurrent readers.
package query

import (
	"crypto/sha256"
	"sync"

	"github.com/sunholo/sigil/internal/canon"
	"github.com/sunholo/sigil/internal/types"
)

// Key is a content hash identifying one unit of source text. Two units
// with identical bytes share a Key, and therefore a cache entry --
// callers that want per-file identity should hash path+bytes together.
type Key [32]byte

// HashSource computes the Key for a unit's source bytes.
func HashSource(src []byte) Key {
	return sha256.Sum256(src)
}

// entry holds whatever a unit's pipeline produced, memoised independently
// per stage: a cache hit on the typed module does not imply a hit on the
// canonicalised form, since a caller may want type information without
// ever lowering to Core (e.g. an editor hover request).
type entry struct {
	typed *types.TypedModule
	core  *canon.CanonResult
}

// Cache memoises TypedModule/CanonResult by content hash, per spec §6
// "Persisted state". One Cache belongs to one compilation unit (per
// spec §5's unit-local resource ownership); the name interner's shards
// are the only structure shared read-concurrently *across* units, so a
// Cache itself only needs to be safe for concurrent readers within its
// own unit, not across units.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// TypedModule returns the memoised TypedModule for key, if any.
func (c *Cache) TypedModule(key Key) (*types.TypedModule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.typed == nil {
		return nil, false
	}
	return e.typed, true
}

// StoreTypedModule memoises tm under key, creating the entry if absent.
func (c *Cache) StoreTypedModule(key Key, tm *types.TypedModule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}
	e.typed = tm
}

// CanonResult returns the memoised CanonResult for key, if any.
func (c *Cache) CanonResult(key Key) (*canon.CanonResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.core == nil {
		return nil, false
	}
	return e.core, true
}

// StoreCanonResult memoises cr under key, creating the entry if absent.
func (c *Cache) StoreCanonResult(key Key, cr *canon.CanonResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}
	e.core = cr
}

// Forget drops any memoised entry for key. There is no dependency
// tracking to cascade the forget to dependents (Non-goal: no
// invalidation protocol) -- callers that know a unit's bytes changed are
// responsible for computing the new key and re-populating it themselves.
func (c *Cache) Forget(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of distinct keys currently memoised.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
