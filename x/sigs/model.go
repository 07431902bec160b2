package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"golang.org/x/crypto/ed25519"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

var _ orm.Model = (*UserData)(nil)

// Validate ensures the public key is well formed and the sequence is not
// negative.
func (u *UserData) Validate() error {
	if len(u.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes", ed25519.PublicKeySize)
	}
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores the state of every signer, keyed by its address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing signer state.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate returns the state of the signer with given public key. A
// signer that never signed before starts with a zero sequence.
func (b Bucket) GetOrCreate(db vault.ReadOnlyKVStore, pubkey ed25519.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, vault.PubKeyAddress(pubkey), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, errors.Wrap(err, "cannot load user")
	}
}

// Save stores the state of a signer.
func (b Bucket) Save(db vault.KVStore, user *UserData) error {
	_, err := b.Put(db, vault.PubKeyAddress(user.Pubkey), user)
	return err
}
