package app

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/timelock"
)

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("timelock/execute", &vaulttest.Handler{})

	cases := map[string]string{
		"duplicated path": "timelock/execute",
		"empty path":      "",
		"invalid path":    "timelock execute",
		"invalid char":    "timelock/$",
	}
	for testName, path := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Panics(t, func() {
				r.Handle(path, &vaulttest.Handler{})
			})
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	var (
		execute = &vaulttest.Handler{DeliverResult: vault.DeliverResult{Log: "execute"}}
		confirm = &vaulttest.Handler{CheckErr: errors.ErrHuman}
	)
	r := NewRouter()
	r.Handle(timelock.ExecuteMsg{}.Path(), execute)
	r.Handle(timelock.ConfirmMsg{}.Path(), confirm)

	ctx := context.Background()
	db := store.MemStore()

	res, err := r.Deliver(ctx, db, &vaulttest.Tx{Msg: &timelock.ExecuteMsg{}})
	assert.Nil(t, err)
	assert.Equal(t, "execute", res.Log)
	assert.Equal(t, 1, execute.DeliverCallCount())
	assert.Equal(t, 0, confirm.CallCount())

	_, err = r.Check(ctx, db, &vaulttest.Tx{Msg: &timelock.ConfirmMsg{}})
	assert.IsErr(t, errors.ErrHuman, err)
	assert.Equal(t, 1, confirm.CheckCallCount())

	_, err = r.Deliver(ctx, db, &vaulttest.Tx{Msg: &timelock.RevokeMsg{}})
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Check(ctx, db, &vaulttest.Tx{Msg: &timelock.RevokeMsg{}})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(ctx, db, &vaulttest.Tx{Err: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = r.Deliver(ctx, db, &vaulttest.Tx{})
	assert.IsErr(t, errors.ErrMsg, err)
}
