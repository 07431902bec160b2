package vault_test

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/timelock"
)

func TestLoadMsg(t *testing.T) {
	id := vaulttest.SequenceID(1)

	cases := map[string]struct {
		tx      vault.Tx
		dest    interface{}
		want    interface{}
		wantErr *errors.Error
	}{
		"valid message": {
			tx:   &vaulttest.Tx{Msg: &timelock.ExecuteMsg{TransactionID: id}},
			dest: &timelock.ExecuteMsg{},
			want: &timelock.ExecuteMsg{TransactionID: id},
		},
		"message type mismatch": {
			tx:      &vaulttest.Tx{Msg: &timelock.ExecuteMsg{TransactionID: id}},
			dest:    &timelock.ConfirmMsg{},
			want:    &timelock.ConfirmMsg{},
			wantErr: errors.ErrType,
		},
		"destination is not a pointer": {
			tx:      &vaulttest.Tx{Msg: &timelock.ExecuteMsg{TransactionID: id}},
			dest:    timelock.ExecuteMsg{},
			want:    timelock.ExecuteMsg{},
			wantErr: errors.ErrType,
		},
		"invalid message": {
			tx:      &vaulttest.Tx{Msg: &timelock.ExecuteMsg{}},
			dest:    &timelock.ExecuteMsg{},
			want:    &timelock.ExecuteMsg{},
			wantErr: errors.ErrEmpty,
		},
		"no message": {
			tx:      &vaulttest.Tx{},
			dest:    &timelock.ExecuteMsg{},
			want:    &timelock.ExecuteMsg{},
			wantErr: errors.ErrMsg,
		},
		"transaction error": {
			tx:      &vaulttest.Tx{Err: errors.ErrInput},
			dest:    &timelock.ExecuteMsg{},
			want:    &timelock.ExecuteMsg{},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := vault.LoadMsg(tc.tx, tc.dest)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.want, tc.dest)
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "timelock/execute", vault.GetPath(&vaulttest.Tx{Msg: &timelock.ExecuteMsg{}}))
	assert.Equal(t, "(missing)", vault.GetPath(&vaulttest.Tx{}))
	assert.Equal(t, "(missing)", vault.GetPath(&vaulttest.Tx{Err: errors.ErrInput}))
}
