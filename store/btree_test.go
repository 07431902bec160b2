package store

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBTreeCacheGetSet does basic sanity checks on our cache
func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")
	assertGet(t, base, k, nil)
	require.NoError(t, base.Set(k, v))
	assertGet(t, base, k, v)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assertGet(t, cache, k, v)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assertGet(t, cache, k2, v2)
	assertGet(t, base, k2, nil)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assertGet(t, base, k, v)
	assertGet(t, base, k2, v2)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	require.NoError(t, c2.Write())
	assertGet(t, base, k3, nil)

	// and commit another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	ok, err := c3.Has(k)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c3.Write())

	// make sure it commits proper
	assertGet(t, base, k, nil)
	assertGet(t, base, k2, v2)
}

func TestNestedCacheWraps(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set([]byte("b"), []byte("2")))

	inner := outer.CacheWrap()
	assertGet(t, inner, []byte("a"), []byte("1"))
	assertGet(t, inner, []byte("b"), []byte("2"))
	require.NoError(t, inner.Set([]byte("c"), []byte("3")))
	inner.Discard()

	assertGet(t, outer, []byte("c"), nil)
	require.NoError(t, outer.Write())
	assertGet(t, base, []byte("b"), []byte("2"))
	assertGet(t, base, []byte("c"), nil)
}

func TestMergedIteration(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}
	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("e"), []byte("cache-e")))
	require.NoError(t, cache.Delete([]byte("c")))
	require.NoError(t, cache.Set([]byte("h"), []byte("cache-h")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range ascending": {
			want: []Model{
				{Key: []byte("a"), Value: []byte("base-a")},
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("g"), Value: []byte("base-g")},
				{Key: []byte("h"), Value: []byte("cache-h")},
			},
		},
		"bounded ascending, end is exclusive": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []Model{
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("e"), Value: []byte("cache-e")},
			},
		},
		"full range descending": {
			reverse: true,
			want: []Model{
				{Key: []byte("h"), Value: []byte("cache-h")},
				{Key: []byte("g"), Value: []byte("base-g")},
				{Key: []byte("e"), Value: []byte("cache-e")},
				{Key: []byte("b"), Value: []byte("cache-b")},
				{Key: []byte("a"), Value: []byte("base-a")},
			},
		},
		"open end": {
			start: []byte("f"),
			want: []Model{
				{Key: []byte("g"), Value: []byte("base-g")},
				{Key: []byte("h"), Value: []byte("cache-h")},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			defer it.Release()

			var got []Model
			for {
				k, v, err := it.Next()
				if errors.ErrIteratorDone.Is(err) {
					break
				}
				require.NoError(t, err)
				got = append(got, Model{Key: k, Value: v})
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func assertGet(t testing.TB, db ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	has, err := db.Has(key)
	require.NoError(t, err)
	assert.Equal(t, want != nil, has)
}
