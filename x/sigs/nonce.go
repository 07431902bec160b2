package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing.
// If not yet present, nonce counting starts with zero.
func NextNonce(db vault.ReadOnlyKVStore, signer vault.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
