package timelock

import (
	"math"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestIsUnlocked(t *testing.T) {
	cases := map[string]struct {
		conf  vault.UnixTime
		delay uint64
		now   vault.UnixTime
		want  bool
	}{
		"delay elapsed exactly": {conf: 100, delay: 50, now: 150, want: true},
		"delay elapsed":         {conf: 100, delay: 50, now: 500, want: true},
		"one second missing":    {conf: 100, delay: 50, now: 149, want: false},
		"zero delay":            {conf: 100, delay: 0, now: 100, want: true},
		"clock before latch":    {conf: 100, delay: 0, now: 99, want: false},
		"huge delay":            {conf: 100, delay: math.MaxUint64, now: math.MaxInt64, want: false},
		"delay of all time":     {conf: 1, delay: math.MaxInt64 - 1, now: math.MaxInt64, want: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, isUnlocked(tc.conf, tc.delay, tc.now))
		})
	}
}

func TestGateLatch(t *testing.T) {
	db := store.MemStore()
	g := NewGate()
	id := vaulttest.SequenceID(1)

	conf, err := g.ConfirmationTime(db, id)
	assert.Nil(t, err)
	assert.Equal(t, vault.UnixTime(0), conf)

	assert.Nil(t, g.latch(db, id, 1000))
	if err := g.latch(db, id, 2000); !ErrAlreadyLocked.Is(err) {
		t.Fatalf("want ErrAlreadyLocked, got %+v", err)
	}
	conf, err = g.ConfirmationTime(db, id)
	assert.Nil(t, err)
	assert.Equal(t, vault.UnixTime(1000), conf)

	// Other transactions are not affected.
	conf, err = g.ConfirmationTime(db, vaulttest.SequenceID(2))
	assert.Nil(t, err)
	assert.Equal(t, vault.UnixTime(0), conf)
}

func TestGateUsesCurrentDelay(t *testing.T) {
	db := store.MemStore()
	g := NewGate()
	id := vaulttest.SequenceID(1)

	_, err := g.Delay(db)
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Nil(t, gconf.Save(db, PackageName, &Configuration{Delay: 100}))
	ok, err := g.IsUnlockable(db, id, 5000)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	_, latched, err := g.UnlockTime(db, id)
	assert.Nil(t, err)
	assert.Equal(t, false, latched)

	assert.Nil(t, g.latch(db, id, 1000))
	unlock, latched, err := g.UnlockTime(db, id)
	assert.Nil(t, err)
	assert.Equal(t, true, latched)
	assert.Equal(t, vault.UnixTime(1100), unlock)

	ok, err = g.IsUnlockable(db, id, 1050)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	assert.Nil(t, g.SetDelay(db, 10))
	ok, err = g.IsUnlockable(db, id, 1050)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	unlock, _, err = g.UnlockTime(db, id)
	assert.Nil(t, err)
	assert.Equal(t, vault.UnixTime(1010), unlock)

	assert.Nil(t, g.SetDelay(db, math.MaxUint64))
	unlock, _, err = g.UnlockTime(db, id)
	assert.Nil(t, err)
	assert.Equal(t, vault.UnixTime(math.MaxInt64), unlock)
}
