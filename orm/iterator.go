package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ModelIterator iterates over models stored in a single bucket.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
type ModelIterator interface {
	// LoadNext moves the iterator to the next entity in the database and
	// loads it into the passed destination. Primary key of the loaded
	// entity is returned. ErrIteratorDone is returned when there are no
	// more entities.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the Iterator.
	Release()
}

type modelIterator struct {
	it vault.Iterator
	// this is the bucket prefix to strip from each key
	prefix []byte
}

var _ ModelIterator = (*modelIterator)(nil)

func (i *modelIterator) LoadNext(dest Model) ([]byte, error) {
	key, value, err := i.it.Next()
	if err != nil {
		return nil, err
	}
	dest.Reset()
	if err := proto.Unmarshal(value, dest); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return key[len(i.prefix):], nil
}

func (i *modelIterator) Release() {
	i.it.Release()
}
