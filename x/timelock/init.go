package timelock

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ vault.Initializer = Initializer{}

// FromGenesis will parse the initial time lock configuration from genesis
// and save it in the database. The configuration is required, a zero delay
// must be set explicitly.
func (Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	if _, ok := opts[PackageName]; !ok {
		return errors.Wrap(errors.ErrEmpty, "timelock genesis")
	}
	var conf Configuration
	if err := opts.ReadOptions(PackageName, &conf); err != nil {
		return err
	}
	if err := gconf.Save(db, PackageName, &conf); err != nil {
		return errors.Wrap(err, "cannot save configuration")
	}
	return nil
}
