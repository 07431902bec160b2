package timelock

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/owners"
	"github.com/iov-one/vault/x/registry"
)

// wallet is a vault with three owners ready for testing.
type wallet struct {
	db         store.CacheableKVStore
	ctrl       *Controller
	alice, bob vault.Address
	charlie    vault.Address

	// signers maps the owner addresses to their conditions.
	signers map[string]vault.Condition
}

func newWallet(t testing.TB, threshold uint32, delay uint64, action Action) *wallet {
	t.Helper()

	w := wallet{
		db:      store.MemStore(),
		ctrl:    NewController(action),
		signers: make(map[string]vault.Condition),
	}
	for _, owner := range []*vault.Address{&w.alice, &w.bob, &w.charlie} {
		cond := vaulttest.NewCondition()
		*owner = cond.Address()
		w.signers[owner.String()] = cond
	}
	set, err := owners.NewOwnerSet([]vault.Address{w.alice, w.bob, w.charlie}, threshold)
	assert.Nil(t, err)
	assert.Nil(t, owners.Save(w.db, set))
	assert.Nil(t, gconf.Save(w.db, PackageName, &Configuration{Delay: delay}))
	return &w
}

// submit creates a transaction confirmed by alice only.
func (w *wallet) submit(t testing.TB, now int64) []byte {
	t.Helper()
	id, err := w.ctrl.Submit(vaulttest.Context(now), w.db, w.alice, vaulttest.RandomAddr(), 0, nil)
	assert.Nil(t, err)
	return id
}

// latched creates a transaction that reached the quorum of two at given time.
func (w *wallet) latched(t testing.TB, now int64) []byte {
	t.Helper()
	id := w.submit(t, now)
	assert.Nil(t, w.ctrl.Confirm(vaulttest.Context(now), w.db, w.bob, id))
	return id
}

// signer returns the condition of given owner.
func (w *wallet) signer(addr vault.Address) vault.Condition {
	return w.signers[addr.String()]
}

func (w *wallet) executed(t testing.TB, id []byte) bool {
	t.Helper()
	tx, err := w.ctrl.txs.Get(w.db, id)
	assert.Nil(t, err)
	return tx.Executed
}

func (w *wallet) confirmationTime(t testing.TB, id []byte) vault.UnixTime {
	t.Helper()
	conf, err := w.ctrl.gate.ConfirmationTime(w.db, id)
	assert.Nil(t, err)
	return conf
}

func (w *wallet) kinds(t testing.TB) []EventKind {
	t.Helper()
	events, err := w.ctrl.Events(w.db)
	assert.Nil(t, err)
	kinds := make([]EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

// succeed is an action that does nothing.
var succeed = ActionFunc(func(vault.Context, vault.KVStore, []byte, *registry.Transaction) error {
	return nil
})

// fail is an action that writes to the database and fails.
var fail = ActionFunc(func(ctx vault.Context, db vault.KVStore, id []byte, tx *registry.Transaction) error {
	if err := db.Set([]byte("side-effect"), id); err != nil {
		return err
	}
	return errors.Wrap(errors.ErrHuman, "action failed")
})

// protoDecoder decodes payloads that are serialized ExecuteMsg or
// ChangeDelayMsg. A serialized ExecuteMsg always carries an ID, which is
// used to tell them apart.
type protoDecoder struct{}

func (protoDecoder) Decode(raw []byte) (vault.Msg, error) {
	var exec ExecuteMsg
	if err := proto.Unmarshal(raw, &exec); err == nil && len(exec.TransactionID) != 0 {
		return &exec, nil
	}
	var msg ChangeDelayMsg
	if err := proto.Unmarshal(raw, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &msg, nil
}

// router is a minimal path based handler registry.
type router map[string]vault.Handler

func (r router) Handle(path string, h vault.Handler) {
	r[path] = h
}

func (r router) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	h, ok := r[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %s", msg.Path())
	}
	return h.Deliver(ctx, db, tx)
}
