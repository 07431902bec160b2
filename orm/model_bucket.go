package orm

import (
	"fmt"
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// raw bytes.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db vault.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db vault.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into
	// database, model is validated using its Validate method.
	// If the key is nil, a new value is generated using the bucket's
	// sequence. Using a nil key is only allowed if the bucket was
	// created with an ID sequence.
	// Primary key used to store the entity is returned.
	Put(db vault.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db vault.KVStore, key []byte) error

	// IterAll returns an iterator over all entities of this bucket,
	// ordered by their primary keys.
	IterAll(db vault.ReadOnlyKVStore) (ModelIterator, error)

	// ReverseIterAll returns an iterator over all entities of this
	// bucket, ordered by their primary keys in a descending order.
	ReverseIterAll(db vault.ReadOnlyKVStore) (ModelIterator, error)

	// IterRange returns an iterator over entities with the primary key
	// within the [start, end) range. A nil start or end is not bounding
	// the range on that side.
	IterRange(db vault.ReadOnlyKVStore, start, end []byte) (ModelIterator, error)

	// IterPrefix returns an iterator over entities with the primary key
	// starting with given prefix.
	IterPrefix(db vault.ReadOnlyKVStore, prefix []byte) (ModelIterator, error)
}

// NewModelBucket returns a ModelBucket instance that stores models of the
// same type as given one. Bucket name must be a short lower case name, for
// example "txs".
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name: %q", name))
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", m))
	}
	b := &modelBucket{
		name:  name,
		model: tp,
	}
	for _, fn := range opts {
		fn(b)
	}
	return b
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIDSequence configures the bucket to use the given sequence instance for
// generating ID.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = &s
	}
}

type modelBucket struct {
	name  string
	model reflect.Type
	idSeq *Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	raw, err := db.Get(dbKey(mb.name, key))
	if err != nil {
		return errors.Wrap(err, "cannot get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	dest.Reset()
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db vault.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(dbKey(mb.name, key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db vault.KVStore, key []byte, m Model) ([]byte, error) {
	if err := mb.checkType(m); err != nil {
		return nil, err
	}
	if len(key) == 0 {
		if mb.idSeq == nil {
			return nil, errors.Wrap(errors.ErrInput, "key is required")
		}
		var err error
		key, err = mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(dbKey(mb.name, key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db vault.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return db.Delete(dbKey(mb.name, key))
}

func (mb *modelBucket) IterAll(db vault.ReadOnlyKVStore) (ModelIterator, error) {
	return mb.IterPrefix(db, nil)
}

func (mb *modelBucket) IterPrefix(db vault.ReadOnlyKVStore, prefix []byte) (ModelIterator, error) {
	start, end := prefixRange(dbKey(mb.name, prefix))
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return &modelIterator{it: it, prefix: dbKey(mb.name, nil)}, nil
}

func (mb *modelBucket) IterRange(db vault.ReadOnlyKVStore, start, end []byte) (ModelIterator, error) {
	from, to := prefixRange(dbKey(mb.name, nil))
	if start != nil {
		from = dbKey(mb.name, start)
	}
	if end != nil {
		to = dbKey(mb.name, end)
	}
	it, err := db.Iterator(from, to)
	if err != nil {
		return nil, err
	}
	return &modelIterator{it: it, prefix: dbKey(mb.name, nil)}, nil
}

func (mb *modelBucket) ReverseIterAll(db vault.ReadOnlyKVStore) (ModelIterator, error) {
	start, end := prefixRange(dbKey(mb.name, nil))
	it, err := db.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return &modelIterator{it: it, prefix: dbKey(mb.name, nil)}, nil
}

func (mb *modelBucket) checkType(m Model) error {
	if tp := reflect.TypeOf(m); tp != mb.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot handle %v, want %v", mb.name, tp, mb.model)
	}
	return nil
}
