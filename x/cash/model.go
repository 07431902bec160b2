package cash

import (
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

var _ orm.Model = (*Balance)(nil)

// Validate ensures the balance is never negative.
func (m *Balance) Validate() error {
	if m.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

// NewBucket returns a bucket for storing balances, keyed by the owner
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Balance{})
}
