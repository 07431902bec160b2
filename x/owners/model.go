package owners

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

// PackageName is the name under which the owner set is stored.
const PackageName = "owners"

// NewOwnerSet returns an owner set that was validated. No owner set is
// returned if any of the construction rules is broken.
func NewOwnerSet(owners []vault.Address, threshold uint32) (*OwnerSet, error) {
	set := &OwnerSet{
		Owners:    owners,
		Threshold: threshold,
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate returns an error if the owner list is empty, contains an invalid
// or a duplicated address or if the threshold is not within the [1, owners]
// range.
func (m *OwnerSet) Validate() error {
	if len(m.Owners) == 0 {
		return errors.Wrap(errors.ErrEmpty, "owners")
	}
	seen := make(map[string]struct{}, len(m.Owners))
	for i, o := range m.Owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner #%d", i)
		}
		if _, ok := seen[string(o)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "owner %s", o)
		}
		seen[string(o)] = struct{}{}
	}
	if m.Threshold < 1 || int(m.Threshold) > len(m.Owners) {
		return errors.Wrapf(errors.ErrInput,
			"threshold must be between 1 and %d, got %d", len(m.Owners), m.Threshold)
	}
	return nil
}

// IsOwner returns true if given address belongs to the owner set.
func (m *OwnerSet) IsOwner(addr vault.Address) bool {
	for _, o := range m.Owners {
		if o.Equals(addr) {
			return true
		}
	}
	return false
}

// Load returns the owner set stored in the database.
func Load(db gconf.ReadStore) (*OwnerSet, error) {
	var set OwnerSet
	if err := gconf.Load(db, PackageName, &set); err != nil {
		return nil, errors.Wrap(err, "owner set")
	}
	return &set, nil
}

// Save validates and stores given owner set. The previous owner set, if
// any, is overwritten.
func Save(db gconf.Store, set *OwnerSet) error {
	return gconf.Save(db, PackageName, set)
}
