package timelock

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/owners"
)

var _ orm.Model = (*Confirmation)(nil)

// Validate ensures the confirmation time is not negative.
func (m *Confirmation) Validate() error {
	return m.ConfirmedAt.Validate()
}

// ConfirmationBucket stores the set of owners that confirmed each
// transaction. Each confirmation is stored under the
// <transaction id><owner address> key so that all confirmations of a
// transaction can be found with a prefix scan.
type ConfirmationBucket struct {
	orm.ModelBucket
}

// NewConfirmationBucket returns a bucket for managing confirmations.
func NewConfirmationBucket() ConfirmationBucket {
	return ConfirmationBucket{
		ModelBucket: orm.NewModelBucket("confs", &Confirmation{}),
	}
}

func confirmationKey(id []byte, approver vault.Address) []byte {
	key := make([]byte, 0, len(id)+len(approver))
	key = append(key, id...)
	return append(key, approver...)
}

// Confirm records the confirmation of given approver.
func (b ConfirmationBucket) Confirm(db vault.KVStore, id []byte, approver vault.Address, now vault.UnixTime) error {
	if err := approver.Validate(); err != nil {
		return errors.Wrap(err, "approver")
	}
	_, err := b.Put(db, confirmationKey(id, approver), &Confirmation{ConfirmedAt: now})
	return err
}

// Revoke removes the confirmation of given approver. ErrNotFound is returned
// if there is no such confirmation.
func (b ConfirmationBucket) Revoke(db vault.KVStore, id []byte, approver vault.Address) error {
	return b.Delete(db, confirmationKey(id, approver))
}

// IsConfirmed returns true if given approver confirmed the transaction.
func (b ConfirmationBucket) IsConfirmed(db vault.ReadOnlyKVStore, id []byte, approver vault.Address) (bool, error) {
	if len(approver) == 0 {
		return false, nil
	}
	switch err := b.Has(db, confirmationKey(id, approver)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Confirmers returns the addresses of all approvers that confirmed given
// transaction, ordered by address.
func (b ConfirmationBucket) Confirmers(db vault.ReadOnlyKVStore, id []byte) ([]vault.Address, error) {
	it, err := b.IterPrefix(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	defer it.Release()

	var res []vault.Address
	for {
		var c Confirmation
		switch key, err := it.LoadNext(&c); {
		case err == nil:
			res = append(res, vault.Address(key[len(id):]))
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "load next")
		}
	}
}

// Count returns the number of confirmations of given transaction that were
// made by the current owners.
func (b ConfirmationBucket) Count(db vault.ReadOnlyKVStore, id []byte, set *owners.OwnerSet) (int, error) {
	confirmers, err := b.Confirmers(db, id)
	if err != nil {
		return 0, err
	}
	var n int
	for _, c := range confirmers {
		if set.IsOwner(c) {
			n++
		}
	}
	return n, nil
}

// IsQuorum returns true if the number of owners that confirmed given
// transaction reached the owner set threshold.
func (b ConfirmationBucket) IsQuorum(db vault.ReadOnlyKVStore, id []byte, set *owners.OwnerSet) (bool, error) {
	n, err := b.Count(db, id, set)
	if err != nil {
		return false, err
	}
	return n >= int(set.Threshold), nil
}
