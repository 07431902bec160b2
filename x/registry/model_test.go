package registry

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestTransactionValidation(t *testing.T) {
	cases := map[string]struct {
		Tx      *Transaction
		WantErr *errors.Error
	}{
		"valid transaction": {
			Tx: &Transaction{Destination: vaulttest.RandomAddr(), Value: 10},
		},
		"zero value with a payload": {
			Tx: &Transaction{Destination: vaulttest.RandomAddr(), Payload: []byte("call")},
		},
		"missing destination": {
			Tx:      &Transaction{Value: 10},
			WantErr: errors.ErrEmpty,
		},
		"negative value": {
			Tx:      &Transaction{Destination: vaulttest.RandomAddr(), Value: -1},
			WantErr: errors.ErrAmount,
		},
		"malformed submitter": {
			Tx:      &Transaction{Destination: vaulttest.RandomAddr(), Submitter: vault.Address("x")},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.WantErr, tc.Tx.Validate())
		})
	}
}

func TestBucket(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()

	dest := vaulttest.RandomAddr()
	id1, err := b.Add(db, &Transaction{Destination: dest, Value: 5, SubmittedAt: 1000})
	assert.Nil(t, err)
	assert.Equal(t, vaulttest.SequenceID(1), id1)

	id2, err := b.Add(db, &Transaction{Destination: dest, Value: 7, Payload: []byte("p")})
	assert.Nil(t, err)
	assert.Equal(t, vaulttest.SequenceID(2), id2)

	_, err = b.Add(db, &Transaction{Destination: dest, Executed: true})
	assert.IsErr(t, errors.ErrState, err)

	ok, err := b.Exists(db, id1)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	ok, err = b.Exists(db, vaulttest.SequenceID(3))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	tx, err := b.Get(db, id1)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), tx.Value)
	assert.Equal(t, vault.UnixTime(1000), tx.SubmittedAt)
	assert.Equal(t, false, tx.Executed)

	_, err = b.Get(db, vaulttest.SequenceID(99))
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Nil(t, b.SetExecuted(db, id1, true))
	tx, err = b.Get(db, id1)
	assert.Nil(t, err)
	assert.Equal(t, true, tx.Executed)

	assert.Nil(t, b.SetExecuted(db, id1, false))
	tx, err = b.Get(db, id1)
	assert.Nil(t, err)
	assert.Equal(t, false, tx.Executed)

	assert.IsErr(t, errors.ErrNotFound, b.SetExecuted(db, vaulttest.SequenceID(99), true))

	var values []int64
	err = b.Iterate(db, func(id []byte, tx *Transaction) error {
		values = append(values, tx.Value)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []int64{5, 7}, values)

	stop := errors.Wrap(errors.ErrHuman, "stop")
	err = b.Iterate(db, func(id []byte, tx *Transaction) error { return stop })
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestFormatParseID(t *testing.T) {
	cases := map[string]struct {
		Raw     string
		Want    []byte
		WantErr *errors.Error
	}{
		"first":        {Raw: "1", Want: vaulttest.SequenceID(1)},
		"large":        {Raw: "123456789", Want: vaulttest.SequenceID(123456789)},
		"zero":         {Raw: "0", WantErr: errors.ErrInput},
		"negative":     {Raw: "-4", WantErr: errors.ErrInput},
		"not a number": {Raw: "abc", WantErr: errors.ErrInput},
		"empty":        {Raw: "", WantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			id, err := ParseID(tc.Raw)
			assert.IsErr(t, tc.WantErr, err)
			if tc.WantErr != nil {
				return
			}
			assert.Equal(t, tc.Want, id)
			assert.Equal(t, tc.Raw, FormatID(id))
			assert.Nil(t, ValidateID(id))
		})
	}
}
