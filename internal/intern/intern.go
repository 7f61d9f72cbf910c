// Package intern implements the compiler's string interner: a packed
// 32-bit handle (Name) over a sharded, append-only string table.
//
// The layout mirrors the teacher compiler's arena-and-handle style
// (internal/types uses Idx handles into a type pool; this package gives
// source identifiers and literal text the same treatment at the string
// level) but the shard/hash-table implementation is new: it is grounded
// on the sharded-map pattern used across the Go ecosystem for
// concurrent-read caches.
package intern

import (
	"sync"
)

// shardBits is the number of bits used to select a shard; localBits are
// the remaining bits used as the index within a shard's string arena.
const (
	shardBits = 4
	localBits = 28
	numShards = 1 << shardBits
	localMask = 1<<localBits - 1
)

// Name is a packed 32-bit handle to an interned string: a 4-bit shard
// index and a 28-bit local index within that shard. Names are Hash, Ord
// (as plain uint32 comparison) and Copy by construction.
type Name uint32

// EMPTY is the reserved handle for the empty string. It is always
// present in every Interner, regardless of what else has been interned.
const EMPTY Name = 0

func newName(shard int, local uint32) Name {
	return Name(uint32(shard)<<localBits | (local & localMask))
}

func (n Name) shard() int    { return int(uint32(n) >> localBits) }
func (n Name) local() uint32 { return uint32(n) & localMask }

// shard is one partition of the interner: a map from each string to its
// local index, plus a slice holding the strings in local-index order.
// A shard is guarded by its own RWMutex so concurrent readers
// across shards never contend, and concurrent lookups within a shard
// never block each other either.
type shard struct {
	mu      sync.RWMutex
	index   map[string]uint32 // string -> local index
	strings []string          // local index -> string (backs lookup's O(1) slice return)
}

// Interner maps strings to Name handles and back. An Interner is
// append-only: once a string is interned its Name and its backing bytes
// never change or move, so lookup's returned slice is valid for the
// Interner's entire lifetime. Shards let concurrent readers proceed
// without contention; writers take only their shard's lock.
type Interner struct {
	shards [numShards]*shard
}

// New creates an Interner with EMPTY pre-reserved, plus any additional
// strings in reserved (language keywords, primitive type names) so that
// callers can rely on stable handles for them across compilations.
func New(reserved ...string) *Interner {
	in := &Interner{}
	for i := range in.shards {
		in.shards[i] = &shard{index: make(map[string]uint32)}
	}
	in.intern(EMPTY.shard(), "") // reserve handle 0 for ""
	for _, s := range reserved {
		in.Intern(s)
	}
	return in
}

// shardFor picks a shard deterministically from the string's FNV-1a hash.
func shardFor(s string) int {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return int(h % numShards)
}

// Intern returns the Name for s, interning it if this is the first time
// it has been seen. Intern is idempotent: repeated calls with an equal
// string always return the same Name.
func (in *Interner) Intern(s string) Name {
	if s == "" {
		return EMPTY
	}
	sh := shardFor(s)
	return in.intern(sh, s)
}

func (in *Interner) intern(sh int, s string) Name {
	shd := in.shards[sh]

	shd.mu.RLock()
	if local, ok := shd.index[s]; ok {
		shd.mu.RUnlock()
		return newName(sh, local)
	}
	shd.mu.RUnlock()

	shd.mu.Lock()
	defer shd.mu.Unlock()
	// Re-check under the write lock: another writer may have interned s
	// between our RUnlock and this Lock.
	if local, ok := shd.index[s]; ok {
		return newName(sh, local)
	}
	local := uint32(len(shd.strings))
	if local > localMask {
		panic("intern: shard exhausted (>2^28 locals)")
	}
	shd.strings = append(shd.strings, s)
	shd.index[s] = local
	return newName(sh, local)
}

// Lookup returns the string a Name was interned from. It is O(1): a
// direct slice index into the owning shard's string arena. The returned
// string is valid for the Interner's lifetime.
func (in *Interner) Lookup(n Name) string {
	if n == EMPTY {
		return ""
	}
	shd := in.shards[n.shard()]
	shd.mu.RLock()
	defer shd.mu.RUnlock()
	return shd.strings[n.local()]
}

// Len reports how many distinct strings (including EMPTY) have been
// interned so far, across all shards.
func (in *Interner) Len() int {
	n := 0
	for _, shd := range in.shards {
		shd.mu.RLock()
		n += len(shd.strings)
		shd.mu.RUnlock()
	}
	return n
}
