package store

import (
	"bytes"

	"github.com/google/btree"
)

// MemStore returns an in-memory store with no persistence. Writing it is a
// no-op, so it is only good for tests and scratch computations.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap buffers all modifications of a parent store in a btree.
// Reads see the buffered state first. Write replays the modifications on
// the parent through the batch.
type BTreeCacheWrap struct {
	bt     *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over given store. All writes must go
// through the batch, which is why the parent is read only. A nil free list
// allocates a new one.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:     btree.NewWithFreeList(2, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap returns a nested cache that writes into this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all buffered modifications to the parent store. The cache
// is empty afterwards.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all buffered modifications. A following Write is a no-op.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
	if nb, ok := b.batch.(*NonAtomicBatch); ok {
		nb.ops = nil
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(item{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(item{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if it, ok := b.cached(key); ok {
		return it.value, nil
	}
	return b.parent.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if it, ok := b.cached(key); ok {
		return !it.deleted, nil
	}
	return b.parent.Has(key)
}

// cached returns the buffered modification of given key, if any.
func (b BTreeCacheWrap) cached(key []byte) (item, bool) {
	res := b.bt.Get(item{key: key})
	if res == nil {
		return item{}, false
	}
	return res.(item), true
}

// Iterator returns the keys of the [start, end) range in ascending order,
// combining the buffered modifications with the parent content.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(parent, collect(b.bt, start, end, true), true), nil
}

// ReverseIterator is Iterator in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(parent, collect(b.bt, start, end, false), false), nil
}

// item is a buffered modification. A deleted item hides the parent entry
// with the same key.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = item{}

func (i item) Less(other btree.Item) bool {
	return bytes.Compare(i.key, other.(item).key) < 0
}
