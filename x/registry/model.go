package registry

import (
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

const (
	// BucketName is where we store the transactions
	BucketName = "txs"
	// SequenceName is an auto-increment ID counter for transactions
	SequenceName = "id"
)

var _ orm.Model = (*Transaction)(nil)

// Validate ensures the transaction is valid.
func (m *Transaction) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Value < 0 {
		return errors.Wrap(errors.ErrAmount, "value must not be negative")
	}
	if m.Submitter != nil {
		if err := m.Submitter.Validate(); err != nil {
			return errors.Wrap(err, "submitter")
		}
	}
	if err := m.SubmittedAt.Validate(); err != nil {
		return errors.Wrap(err, "submitted at")
	}
	return nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing transactions.
func NewBucket() Bucket {
	b := orm.NewModelBucket(BucketName, &Transaction{},
		orm.WithIDSequence(orm.NewSequence(BucketName, SequenceName)))
	return Bucket{
		ModelBucket: b,
	}
}

// Add stores a new transaction and returns its newly assigned ID. A
// transaction is never added in an executed state.
func (b Bucket) Add(db vault.KVStore, tx *Transaction) ([]byte, error) {
	if tx.Executed {
		return nil, errors.Wrap(errors.ErrState, "transaction already executed")
	}
	id, err := b.Put(db, nil, tx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store transaction")
	}
	return id, nil
}

// Get returns the transaction with given ID or ErrNotFound.
func (b Bucket) Get(db vault.ReadOnlyKVStore, id []byte) (*Transaction, error) {
	var tx Transaction
	if err := b.One(db, id, &tx); err != nil {
		return nil, errors.Wrapf(err, "transaction %s", FormatID(id))
	}
	return &tx, nil
}

// Exists returns true if a transaction with given ID was ever added.
func (b Bucket) Exists(db vault.ReadOnlyKVStore, id []byte) (bool, error) {
	switch err := b.Has(db, id); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// SetExecuted updates the executed flag of the transaction with given ID.
func (b Bucket) SetExecuted(db vault.KVStore, id []byte, executed bool) error {
	tx, err := b.Get(db, id)
	if err != nil {
		return err
	}
	tx.Executed = executed
	if _, err := b.Put(db, id, tx); err != nil {
		return errors.Wrap(err, "cannot store transaction")
	}
	return nil
}

// Iterate calls fn for every transaction, in the order they were added.
// Iteration stops on the first error returned by fn.
func (b Bucket) Iterate(db vault.ReadOnlyKVStore, fn func(id []byte, tx *Transaction) error) error {
	it, err := b.IterAll(db)
	if err != nil {
		return errors.Wrap(err, "iterator")
	}
	defer it.Release()

	for {
		var tx Transaction
		switch id, err := it.LoadNext(&tx); {
		case err == nil:
			if err := fn(id, &tx); err != nil {
				return err
			}
		case errors.ErrIteratorDone.Is(err):
			return nil
		default:
			return errors.Wrap(err, "load next")
		}
	}
}

// FormatID returns the human readable, decimal representation of a
// transaction ID.
func FormatID(id []byte) string {
	n, err := orm.DecodeSequence(id)
	if err != nil {
		return "(invalid)"
	}
	return strconv.FormatUint(n, 10)
}

// ParseID returns the binary transaction ID from its decimal
// representation.
func ParseID(s string) ([]byte, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "transaction id %q", s)
	}
	if n == 0 {
		return nil, errors.Wrap(errors.ErrInput, "transaction id must be greater than zero")
	}
	return orm.EncodeSequence(n), nil
}

// ValidateID returns an error if given value is not a well formed
// transaction ID.
func ValidateID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "transaction id")
	}
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "transaction id must be 8 bytes, got %d", len(id))
	}
	return nil
}
