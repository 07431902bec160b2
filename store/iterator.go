package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

// collect returns all items cached in the btree that are within the
// [start, end) range. Both set and deleted items are returned so that the
// merge can hide deleted parent entries.
func collect(bt *btree.BTree, start, end []byte, ascending bool) []item {
	var res []item
	insert := func(i btree.Item) bool {
		res = append(res, i.(item))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(item{key: end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(item{key: start}, insert)
	default:
		bt.AscendRange(item{key: start}, item{key: end}, insert)
	}
	if !ascending {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// mergedIterator combines the iteration of a parent store with the local
// modifications. Local items always win over parent items with the same key.
type mergedIterator struct {
	parent    Iterator
	local     []item
	ascending bool

	// head of the parent iterator, nil when not yet read
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(parent Iterator, local []item, ascending bool) *mergedIterator {
	return &mergedIterator{
		parent:    parent,
		local:     local,
		ascending: ascending,
	}
}

func (m *mergedIterator) peekParent() error {
	if m.pdone || m.pkey != nil {
		return nil
	}
	key, value, err := m.parent.Next()
	switch {
	case err == nil:
		m.pkey, m.pvalue = key, value
		return nil
	case errors.ErrIteratorDone.Is(err):
		m.pdone = true
		return nil
	default:
		return err
	}
}

// before returns true if a should be returned before b in the iteration
// order.
func (m *mergedIterator) before(a, b []byte) bool {
	if m.ascending {
		return bytes.Compare(a, b) < 0
	}
	return bytes.Compare(a, b) > 0
}

func (m *mergedIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.peekParent(); err != nil {
			return nil, nil, err
		}

		if len(m.local) == 0 {
			if m.pdone {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value := m.pkey, m.pvalue
			m.pkey, m.pvalue = nil, nil
			return key, value, nil
		}

		head := m.local[0]
		if !m.pdone && m.before(m.pkey, head.key) {
			key, value := m.pkey, m.pvalue
			m.pkey, m.pvalue = nil, nil
			return key, value, nil
		}

		// Local item shadows the parent entry with the same key.
		if !m.pdone && bytes.Equal(m.pkey, head.key) {
			m.pkey, m.pvalue = nil, nil
		}
		m.local = m.local[1:]
		if !head.deleted {
			return head.key, head.value, nil
		}
	}
}

func (m *mergedIterator) Release() {
	m.parent.Release()
	m.local = nil
}
