package timelock

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/registry"
)

// Action is the effect of executing a transaction. An action either
// succeeds or fails as a whole. All changes made to the database by a
// failing action are discarded.
//
// An action may call back into the vault, including an attempt to execute
// the same transaction again.
type Action interface {
	Act(ctx vault.Context, db vault.KVStore, id []byte, tx *registry.Transaction) error
}

// ActionFunc is an adapter that allows to use a function as an Action.
type ActionFunc func(ctx vault.Context, db vault.KVStore, id []byte, tx *registry.Transaction) error

func (fn ActionFunc) Act(ctx vault.Context, db vault.KVStore, id []byte, tx *registry.Transaction) error {
	return fn(ctx, db, id, tx)
}

// Decoder is implemented by a codec that can decode a transaction payload
// into a message.
type Decoder interface {
	Decode(raw []byte) (vault.Msg, error)
}

// Dispatcher is the Action used in production. It moves the value of the
// transaction from the vault to the destination. If the transaction is
// sent to SystemAddress, its payload is decoded into a message that is then
// delivered with the vault authenticated as the signer.
type Dispatcher struct {
	cash    cash.Controller
	decoder Decoder
	handler vault.Deliverer
}

var _ Action = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher that delivers self addressed payloads
// using given handler. Usually the handler is the application router.
func NewDispatcher(ctrl cash.Controller, decoder Decoder, handler vault.Deliverer) *Dispatcher {
	return &Dispatcher{
		cash:    ctrl,
		decoder: decoder,
		handler: handler,
	}
}

func (d *Dispatcher) Act(ctx vault.Context, db vault.KVStore, id []byte, tx *registry.Transaction) error {
	if err := d.cash.MoveCoins(db, SystemAddress, tx.Destination, tx.Value); err != nil {
		return errors.Wrap(err, "cannot transfer value")
	}
	if len(tx.Payload) == 0 || !tx.Destination.Equals(SystemAddress) {
		return nil
	}

	msg, err := d.decoder.Decode(tx.Payload)
	if err != nil {
		return errors.Wrap(err, "cannot decode payload")
	}
	ctx = withSystem(ctx)
	if _, err := d.handler.Deliver(ctx, db, &selfTx{msg: msg}); err != nil {
		return errors.Wrapf(err, "cannot deliver %s", msg.Path())
	}
	return nil
}

// selfTx is a transaction created by the vault while executing a
// transaction payload.
type selfTx struct {
	msg vault.Msg
}

var _ vault.Tx = (*selfTx)(nil)

func (tx *selfTx) GetMsg() (vault.Msg, error) {
	return tx.msg, nil
}
