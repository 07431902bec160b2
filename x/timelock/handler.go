package timelock

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/registry"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The caller of each operation is the main signer as returned by
// given authenticator.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(SubmitMsg{}.Path(), SubmitHandler{auth: auth, ctrl: ctrl})
	r.Handle(ConfirmMsg{}.Path(), ConfirmHandler{auth: auth, ctrl: ctrl})
	r.Handle(RevokeMsg{}.Path(), RevokeHandler{auth: auth, ctrl: ctrl})
	r.Handle(ExecuteMsg{}.Path(), ExecuteHandler{ctrl: ctrl})
	r.Handle(ChangeDelayMsg{}.Path(), ChangeDelayHandler{auth: auth, ctrl: ctrl})
}

// SubmitHandler proposes a new transaction.
type SubmitHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = SubmitHandler{}

// Check runs the submission without persisting any change.
func (h SubmitHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg SubmitMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	err := dryRun(db, func(db vault.KVStore) error {
		_, err := h.submit(ctx, db, &msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver adds the transaction to the registry and confirms it for the
// signer. ID of the new transaction is returned.
func (h SubmitHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg SubmitMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var id []byte
	tags, err := trace(db, h.ctrl.events, func() error {
		var err error
		id, err = h.submit(ctx, db, &msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Data: id,
		Log:  "transaction " + registry.FormatID(id) + " submitted",
		Tags: tags,
	}, nil
}

func (h SubmitHandler) submit(ctx vault.Context, db vault.KVStore, msg *SubmitMsg) ([]byte, error) {
	caller := x.MainSignerAddress(ctx, h.auth)
	return h.ctrl.Submit(ctx, db, caller, msg.Destination, msg.Value, msg.Payload)
}

// ConfirmHandler records the confirmation of the signer.
type ConfirmHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = ConfirmHandler{}

// Check runs the confirmation without persisting any change.
func (h ConfirmHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg ConfirmMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSignerAddress(ctx, h.auth)
	err := dryRun(db, func(db vault.KVStore) error {
		return h.ctrl.Confirm(ctx, db, caller, msg.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver records the confirmation of the signer.
func (h ConfirmHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg ConfirmMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSignerAddress(ctx, h.auth)
	tags, err := trace(db, h.ctrl.events, func() error {
		return h.ctrl.Confirm(ctx, db, caller, msg.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{Tags: tags}, nil
}

// RevokeHandler removes the confirmation of the signer.
type RevokeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = RevokeHandler{}

// Check runs the revocation without persisting any change.
func (h RevokeHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg RevokeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSignerAddress(ctx, h.auth)
	err := dryRun(db, func(db vault.KVStore) error {
		return h.ctrl.Revoke(ctx, db, caller, msg.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver removes the confirmation of the signer.
func (h RevokeHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg RevokeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSignerAddress(ctx, h.auth)
	tags, err := trace(db, h.ctrl.events, func() error {
		return h.ctrl.Revoke(ctx, db, caller, msg.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{Tags: tags}, nil
}

// ExecuteHandler attempts to execute a transaction. No authentication is
// required.
type ExecuteHandler struct {
	ctrl *Controller
}

var _ vault.Handler = ExecuteHandler{}

// Check ensures the transaction can be executed now. The action is run
// and its result is reported, but no change is persisted.
func (h ExecuteHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg ExecuteMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var outcome Outcome
	err := dryRun(db, func(db vault.KVStore) error {
		var err error
		outcome, err = h.ctrl.Execute(ctx, db, msg.TransactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &vault.CheckResult{Data: []byte(outcome.String()), Log: "execution " + outcome.String()}, nil
}

// Deliver executes the transaction. A failing action is not an error: the
// outcome is returned as the result data and the transaction can be
// executed again.
func (h ExecuteHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg ExecuteMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var outcome Outcome
	tags, err := trace(db, h.ctrl.events, func() error {
		var err error
		outcome, err = h.ctrl.Execute(ctx, db, msg.TransactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{
		Data: []byte(outcome.String()),
		Log:  "execution " + outcome.String(),
		Tags: tags,
	}, nil
}

// ChangeDelayHandler sets a new time lock delay.
type ChangeDelayHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ vault.Handler = ChangeDelayHandler{}

// Check runs the delay change without persisting any change.
func (h ChangeDelayHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	var msg ChangeDelayMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSignerAddress(ctx, h.auth)
	err := dryRun(db, func(db vault.KVStore) error {
		return h.ctrl.ChangeDelay(ctx, db, caller, msg.Delay)
	})
	if err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver sets the new delay. Only the vault itself is authorized.
func (h ChangeDelayHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	var msg ChangeDelayMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	caller := x.MainSignerAddress(ctx, h.auth)
	tags, err := trace(db, h.ctrl.events, func() error {
		return h.ctrl.ChangeDelay(ctx, db, caller, msg.Delay)
	})
	if err != nil {
		return nil, err
	}
	return &vault.DeliverResult{Tags: tags}, nil
}

// trace runs fn and returns the tags of all events emitted while it was
// running, including events emitted by nested operations.
func trace(db vault.KVStore, events EventBucket, fn func() error) ([]common.KVPair, error) {
	mark, err := events.Mark(db)
	if err != nil {
		return nil, errors.Wrap(err, "audit log")
	}
	if err := fn(); err != nil {
		return nil, err
	}
	emitted, err := events.Since(db, mark)
	if err != nil {
		return nil, errors.Wrap(err, "audit log")
	}
	return EventTags(emitted)
}

// dryRun calls fn with a cache of the database that is always discarded.
func dryRun(db vault.KVStore, fn func(vault.KVStore) error) error {
	cache := cacheWrap(db)
	defer cache.Discard()
	return fn(cache)
}
