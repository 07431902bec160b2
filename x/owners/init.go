package owners

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ vault.Initializer = (*Initializer)(nil)

// FromGenesis will parse the owner set from genesis and save it in the
// database. The owner set is required.
func (*Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var set OwnerSet
	if _, ok := opts[PackageName]; !ok {
		return errors.Wrap(errors.ErrEmpty, "owners genesis")
	}
	if err := opts.ReadOptions(PackageName, &set); err != nil {
		return err
	}
	if err := Save(db, &set); err != nil {
		return errors.Wrap(err, "cannot save owner set")
	}
	return nil
}
