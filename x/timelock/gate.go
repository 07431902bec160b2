package timelock

import (
	"math"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/orm"
)

// Gate tracks for each transaction the time when the quorum was first
// reached, and the wallet wide delay that must elapse after that time before
// the transaction can be executed.
type Gate struct {
	bucket orm.ModelBucket
}

// NewGate returns a gate using the default bucket.
func NewGate() Gate {
	return Gate{
		bucket: orm.NewModelBucket("conftime", &ConfirmationTime{}),
	}
}

var _ orm.Model = (*ConfirmationTime)(nil)

// Validate ensures the confirmation time is set.
func (m *ConfirmationTime) Validate() error {
	if m.Time <= 0 {
		return errors.Wrap(errors.ErrState, "confirmation time must be set")
	}
	return nil
}

// ConfirmationTime returns the latched confirmation time of given
// transaction or zero if the quorum was never reached.
func (g Gate) ConfirmationTime(db vault.ReadOnlyKVStore, id []byte) (vault.UnixTime, error) {
	var ct ConfirmationTime
	switch err := g.bucket.One(db, id, &ct); {
	case err == nil:
		return ct.Time, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "cannot load confirmation time")
	}
}

// latch sets the confirmation time of given transaction. A confirmation
// time can be set only once.
func (g Gate) latch(db vault.KVStore, id []byte, now vault.UnixTime) error {
	switch prev, err := g.ConfirmationTime(db, id); {
	case err != nil:
		return err
	case prev != 0:
		return errors.Wrapf(ErrAlreadyLocked, "latched at %d", prev)
	}
	if _, err := g.bucket.Put(db, id, &ConfirmationTime{Time: now}); err != nil {
		return errors.Wrap(err, "cannot save confirmation time")
	}
	return nil
}

// Delay returns the current time lock delay in seconds.
func (g Gate) Delay(db vault.ReadOnlyKVStore) (uint64, error) {
	conf, err := loadConfig(db)
	if err != nil {
		return 0, err
	}
	return conf.Delay, nil
}

// SetDelay overwrites the time lock delay. It affects all transactions that
// were not executed yet.
func (g Gate) SetDelay(db vault.KVStore, delay uint64) error {
	return gconf.Save(db, PackageName, &Configuration{Delay: delay})
}

// UnlockTime returns the time at which given transaction becomes
// unlockable given the current delay. False is returned if the transaction
// was not latched yet. The result saturates at the maximal time value.
func (g Gate) UnlockTime(db vault.ReadOnlyKVStore, id []byte) (vault.UnixTime, bool, error) {
	conf, err := g.ConfirmationTime(db, id)
	if err != nil || conf == 0 {
		return 0, false, err
	}
	delay, err := g.Delay(db)
	if err != nil {
		return 0, false, err
	}
	if delay > uint64(math.MaxInt64-conf) {
		return math.MaxInt64, true, nil
	}
	return conf + vault.UnixTime(delay), true, nil
}

// IsUnlockable returns true if the confirmation time of given transaction
// is set and the current delay has elapsed since then.
func (g Gate) IsUnlockable(db vault.ReadOnlyKVStore, id []byte, now vault.UnixTime) (bool, error) {
	conf, err := g.ConfirmationTime(db, id)
	if err != nil {
		return false, err
	}
	if conf == 0 {
		return false, nil
	}
	delay, err := g.Delay(db)
	if err != nil {
		return false, err
	}
	return isUnlocked(conf, delay, now), nil
}

// isUnlocked compares the time elapsed since the latch with the delay, so
// that no addition can overflow. A clock that reads before the latch keeps
// the transaction locked.
func isUnlocked(conf vault.UnixTime, delay uint64, now vault.UnixTime) bool {
	if now < conf {
		return false
	}
	return uint64(now-conf) >= delay
}
