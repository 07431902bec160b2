package timelock

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/x/owners"
	"github.com/iov-one/vault/x/registry"
)

// Outcome is the result of an execution attempt that was not rejected.
type Outcome int

const (
	// OutcomeSucceeded means the action succeeded and the transaction is
	// executed.
	OutcomeSucceeded Outcome = iota + 1
	// OutcomeFailed means the action failed. The transaction is not
	// executed and can be executed again.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Controller implements the confirmation, time lock and execution workflow.
//
// Every operation validates all of its preconditions before the first
// write. A rejected operation returns an error and does not modify the
// database.
type Controller struct {
	txs    registry.Bucket
	confs  ConfirmationBucket
	gate   Gate
	events EventBucket
	action Action
}

// NewController returns a controller that runs given action when a
// transaction is executed.
func NewController(action Action) *Controller {
	return &Controller{
		txs:    registry.NewBucket(),
		confs:  NewConfirmationBucket(),
		gate:   NewGate(),
		events: NewEventBucket(),
		action: action,
	}
}

// blockTime returns the logical clock of the current operation. Zero is the
// "unset" value of the confirmation time so it is never a valid clock.
func blockTime(ctx vault.Context) (vault.UnixTime, error) {
	now, ok := vault.UnixBlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrState, "block time not set")
	}
	return now, nil
}

// requireOwner returns the owner set if caller is a current owner.
func requireOwner(db vault.ReadOnlyKVStore, caller vault.Address) (*owners.OwnerSet, error) {
	set, err := owners.Load(db)
	if err != nil {
		return nil, err
	}
	if len(caller) == 0 || !set.IsOwner(caller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller)
	}
	return set, nil
}

// Submit adds a new transaction to the registry and confirms it on behalf of
// the submitter. Only an owner can submit a transaction. The ID of the
// created transaction is returned.
func (c *Controller) Submit(
	ctx vault.Context,
	db vault.KVStore,
	caller vault.Address,
	destination vault.Address,
	value int64,
	payload []byte,
) ([]byte, error) {
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := requireOwner(db, caller); err != nil {
		return nil, err
	}
	tx := registry.Transaction{
		Destination: destination,
		Value:       value,
		Payload:     payload,
		Submitter:   caller,
		SubmittedAt: now,
	}
	if err := tx.Validate(); err != nil {
		return nil, errors.Wrap(err, "transaction")
	}

	id, err := c.txs.Add(db, &tx)
	if err != nil {
		return nil, err
	}
	if err := c.events.Emit(db, &Event{Kind: EventSubmitted, TransactionID: id, Approver: caller, Time: now}); err != nil {
		return nil, err
	}
	if err := c.Confirm(ctx, db, caller, id); err != nil {
		return nil, errors.Wrap(err, "cannot confirm")
	}
	return id, nil
}

// Confirm records the confirmation of the caller. If the quorum is reached
// by this or any earlier confirmation, the confirmation time is latched.
func (c *Controller) Confirm(ctx vault.Context, db vault.KVStore, caller vault.Address, id []byte) error {
	now, err := blockTime(ctx)
	if err != nil {
		return err
	}
	set, err := requireOwner(db, caller)
	if err != nil {
		return err
	}
	if _, err := c.txs.Get(db, id); err != nil {
		return err
	}
	switch ok, err := c.confs.IsConfirmed(db, id, caller); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrAlreadyConfirmed, "%s confirmed transaction %s", caller, registry.FormatID(id))
	}
	switch conf, err := c.gate.ConfirmationTime(db, id); {
	case err != nil:
		return err
	case conf != 0:
		return errors.Wrapf(ErrAlreadyLocked, "transaction %s locked at %d", registry.FormatID(id), conf)
	}

	if err := c.confs.Confirm(db, id, caller, now); err != nil {
		return errors.Wrap(err, "cannot confirm")
	}
	if err := c.events.Emit(db, &Event{Kind: EventConfirmed, TransactionID: id, Approver: caller, Time: now}); err != nil {
		return err
	}

	quorum, err := c.confs.IsQuorum(db, id, set)
	if err != nil {
		return err
	}
	if !quorum {
		return nil
	}
	if err := c.gate.latch(db, id, now); err != nil {
		return err
	}
	vault.GetLogger(ctx).Info("confirmation time latched",
		"transaction", registry.FormatID(id), "time", now)
	return c.events.Emit(db, &Event{Kind: EventConfirmationTimeSet, TransactionID: id, Time: now})
}

// Revoke removes the confirmation of the caller. Revocation is not possible
// once the confirmation time was latched.
func (c *Controller) Revoke(ctx vault.Context, db vault.KVStore, caller vault.Address, id []byte) error {
	now, err := blockTime(ctx)
	if err != nil {
		return err
	}
	if _, err := requireOwner(db, caller); err != nil {
		return err
	}
	tx, err := c.txs.Get(db, id)
	if err != nil {
		return err
	}
	if tx.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "transaction %s", registry.FormatID(id))
	}
	switch conf, err := c.gate.ConfirmationTime(db, id); {
	case err != nil:
		return err
	case conf != 0:
		return errors.Wrapf(ErrAlreadyLocked, "transaction %s locked at %d", registry.FormatID(id), conf)
	}
	switch ok, err := c.confs.IsConfirmed(db, id, caller); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(ErrNotConfirmed, "%s did not confirm transaction %s", caller, registry.FormatID(id))
	}

	if err := c.confs.Revoke(db, id, caller); err != nil {
		return errors.Wrap(err, "cannot revoke")
	}
	return c.events.Emit(db, &Event{Kind: EventRevoked, TransactionID: id, Approver: caller, Time: now})
}

// Execute runs the action of an unlocked transaction. Anyone can execute a
// transaction.
//
// The transaction is marked as executed before the action runs. The action
// runs on a cache of the database. If the action fails, its changes are
// discarded, the transaction is marked as not executed and OutcomeFailed is
// returned without an error, so that the execution can be retried.
func (c *Controller) Execute(ctx vault.Context, db vault.KVStore, id []byte) (Outcome, error) {
	now, err := blockTime(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := c.txs.Get(db, id)
	if err != nil {
		return 0, err
	}
	if tx.Executed {
		return 0, errors.Wrapf(ErrAlreadyExecuted, "transaction %s", registry.FormatID(id))
	}
	switch ok, err := c.gate.IsUnlockable(db, id, now); {
	case err != nil:
		return 0, err
	case !ok:
		return 0, c.stillLocked(db, id, now)
	}

	if err := c.txs.SetExecuted(db, id, true); err != nil {
		return 0, err
	}

	cache := cacheWrap(db)
	if err := c.act(ctx, cache, id, tx); err != nil {
		cache.Discard()
		if err := c.txs.SetExecuted(db, id, false); err != nil {
			return 0, err
		}
		vault.GetLogger(ctx).Info("transaction execution failed",
			"transaction", registry.FormatID(id), "err", err)
		ev := Event{Kind: EventExecutionFailed, TransactionID: id, Time: now, Reason: err.Error()}
		if err := c.events.Emit(db, &ev); err != nil {
			return 0, err
		}
		return OutcomeFailed, nil
	}
	if err := cache.Write(); err != nil {
		return 0, errors.Wrap(err, "cannot write action changes")
	}
	vault.GetLogger(ctx).Info("transaction executed",
		"transaction", registry.FormatID(id), "destination", tx.Destination, "value", tx.Value)
	if err := c.events.Emit(db, &Event{Kind: EventExecutionSucceeded, TransactionID: id, Time: now}); err != nil {
		return 0, err
	}
	return OutcomeSucceeded, nil
}

// act runs the action. A panic is a failure of the action.
func (c *Controller) act(ctx vault.Context, db vault.KVStore, id []byte, tx *registry.Transaction) (err error) {
	defer errors.Recover(&err)
	if c.action == nil {
		return errors.Wrap(errors.ErrHuman, "no action configured")
	}
	return c.action.Act(ctx, db, id, tx)
}

func (c *Controller) stillLocked(db vault.ReadOnlyKVStore, id []byte, now vault.UnixTime) error {
	unlock, latched, err := c.gate.UnlockTime(db, id)
	if err != nil {
		return err
	}
	if !latched {
		return errors.Wrapf(ErrStillLocked, "transaction %s did not reach the quorum", registry.FormatID(id))
	}
	return errors.Wrapf(ErrStillLocked, "transaction %s unlocks at %d, now is %d", registry.FormatID(id), unlock, now)
}

// cacheWrap returns a cache of given store. Writing the cache applies all
// changes to the store.
func cacheWrap(db vault.KVStore) vault.KVCacheWrap {
	if c, ok := db.(vault.CacheableKVStore); ok {
		return c.CacheWrap()
	}
	return store.NewBTreeCacheWrap(db, db.NewBatch(), nil)
}

// ChangeDelay sets a new time lock delay. Only the vault itself can change
// the delay. No validation of the delay value is done.
func (c *Controller) ChangeDelay(ctx vault.Context, db vault.KVStore, caller vault.Address, delay uint64) error {
	now, err := blockTime(ctx)
	if err != nil {
		return err
	}
	if !caller.Equals(SystemAddress) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s cannot change the delay", caller)
	}
	if err := c.gate.SetDelay(db, delay); err != nil {
		return errors.Wrap(err, "cannot set delay")
	}
	vault.GetLogger(ctx).Info("time lock delay changed", "delay", delay)
	return c.events.Emit(db, &Event{Kind: EventDelayChanged, Delay: delay, Time: now})
}

// IsLocked returns true if given transaction cannot be executed at the
// current time, because it did not reach the quorum or because the delay
// did not elapse yet.
func (c *Controller) IsLocked(ctx vault.Context, db vault.ReadOnlyKVStore, id []byte) (bool, error) {
	now, err := blockTime(ctx)
	if err != nil {
		return false, err
	}
	if _, err := c.txs.Get(db, id); err != nil {
		return false, err
	}
	ok, err := c.gate.IsUnlockable(db, id, now)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
