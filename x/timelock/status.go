package timelock

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x/owners"
)

// State is the position of a transaction in the execution workflow.
type State int

const (
	// StateConfirming transactions collect confirmations and can be
	// revoked.
	StateConfirming State = iota + 1
	// StateLocked transactions reached the quorum and wait for the delay
	// to elapse.
	StateLocked
	// StateUnlockable transactions can be executed.
	StateUnlockable
	// StateExecuted transactions were executed. This is the final state.
	StateExecuted
)

func (s State) String() string {
	switch s {
	case StateConfirming:
		return "confirming"
	case StateLocked:
		return "locked"
	case StateUnlockable:
		return "unlockable"
	case StateExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state using its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status describes a transaction as seen at a given time.
type Status struct {
	State State `json:"state"`
	// Confirmations is the number of current owners that confirmed the
	// transaction.
	Confirmations int             `json:"confirmations"`
	Threshold     uint32          `json:"threshold"`
	Confirmers    []vault.Address `json:"confirmers"`
	// ConfirmationTime is zero until the quorum is reached.
	ConfirmationTime vault.UnixTime `json:"confirmation_time"`
	// UnlockTime is computed using the current delay and is zero until
	// the quorum is reached.
	UnlockTime vault.UnixTime `json:"unlock_time"`
	Delay      uint64         `json:"delay"`
}

// Status returns the status of given transaction at the current time.
func (c *Controller) Status(ctx vault.Context, db vault.ReadOnlyKVStore, id []byte) (*Status, error) {
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := c.txs.Get(db, id)
	if err != nil {
		return nil, err
	}
	set, err := owners.Load(db)
	if err != nil {
		return nil, err
	}
	confirmers, err := c.confs.Confirmers(db, id)
	if err != nil {
		return nil, err
	}
	count, err := c.confs.Count(db, id, set)
	if err != nil {
		return nil, err
	}
	conf, err := c.gate.ConfirmationTime(db, id)
	if err != nil {
		return nil, err
	}
	delay, err := c.gate.Delay(db)
	if err != nil {
		return nil, err
	}
	unlock, _, err := c.gate.UnlockTime(db, id)
	if err != nil {
		return nil, err
	}

	s := Status{
		Confirmations:    count,
		Threshold:        set.Threshold,
		Confirmers:       confirmers,
		ConfirmationTime: conf,
		UnlockTime:       unlock,
		Delay:            delay,
	}
	switch {
	case tx.Executed:
		s.State = StateExecuted
	case conf == 0:
		s.State = StateConfirming
	case isUnlocked(conf, delay, now):
		s.State = StateUnlockable
	default:
		s.State = StateLocked
	}
	return &s, nil
}

// Events returns the full audit log.
func (c *Controller) Events(db vault.ReadOnlyKVStore) ([]*Event, error) {
	return c.events.Events(db)
}
