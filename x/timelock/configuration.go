package timelock

import (
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

// PackageName is the name under which the configuration is stored.
const PackageName = "timelock"

// Validate always succeeds. Any delay, including zero which disables the
// time lock, is accepted.
func (c *Configuration) Validate() error {
	return nil
}

func loadConfig(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return nil, errors.Wrap(err, "timelock configuration")
	}
	return &conf, nil
}
