package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/sigil/internal/canon"
	"github.com/sunholo/sigil/internal/types"
)

func TestHashSourceIsStableAndDistinguishesContent(t *testing.T) {
	a := HashSource([]byte("func f() -> int = 1"))
	b := HashSource([]byte("func f() -> int = 1"))
	c := HashSource([]byte("func f() -> int = 2"))

	assert.Equal(t, a, b, "identical source bytes must hash to the same key")
	assert.NotEqual(t, a, c, "different source bytes must hash to different keys")
}

func TestCacheMissesBeforeStore(t *testing.T) {
	c := NewCache()
	key := HashSource([]byte("func f() -> int = 1"))

	_, ok := c.TypedModule(key)
	assert.False(t, ok, "fresh cache must miss")
	_, ok = c.CanonResult(key)
	assert.False(t, ok, "fresh cache must miss")
	require.Equal(t, 0, c.Len())
}

func TestCacheStoresTypedModuleAndCanonResultIndependently(t *testing.T) {
	c := NewCache()
	key := HashSource([]byte("func f() -> int = 1"))

	tm := &types.TypedModule{}
	c.StoreTypedModule(key, tm)

	got, ok := c.TypedModule(key)
	require.True(t, ok)
	assert.Same(t, tm, got)

	// A TypedModule hit must not imply a CanonResult hit: the two stages
	// are memoised independently under the same key.
	_, ok = c.CanonResult(key)
	assert.False(t, ok)

	cr := &canon.CanonResult{}
	c.StoreCanonResult(key, cr)
	gotCR, ok := c.CanonResult(key)
	require.True(t, ok)
	assert.Same(t, cr, gotCR)

	require.Equal(t, 1, c.Len(), "one key holding both stages is still one entry")
}

func TestCacheForgetDropsTheEntry(t *testing.T) {
	c := NewCache()
	key := HashSource([]byte("func f() -> int = 1"))
	c.StoreTypedModule(key, &types.TypedModule{})
	require.Equal(t, 1, c.Len())

	c.Forget(key)
	_, ok := c.TypedModule(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheConcurrentAccessDoesNotRace(t *testing.T) {
	c := NewCache()
	key := HashSource([]byte("func f() -> int = 1"))
	c.StoreTypedModule(key, &types.TypedModule{})

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, _ = c.TypedModule(key)
			_ = c.Len()
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
