package utils

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Recovery converts a panic raised by any of the following handlers into
// an ErrPanic error carrying the panic value. Put it in front of the
// Savepoint so that the state of a panicking transaction is discarded.
type Recovery struct{}

var _ vault.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (res *vault.CheckResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Check(ctx, db, tx)
	return res, err
}

func (Recovery) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (res *vault.DeliverResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Deliver(ctx, db, tx)
	return res, err
}
