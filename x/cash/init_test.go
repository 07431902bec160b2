package cash

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestGenesis(t *testing.T) {
	a := vaulttest.RandomAddr()
	b := vaulttest.RandomAddr()

	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		WantA   int64
		WantB   int64
	}{
		"no accounts": {
			Genesis: `{}`,
		},
		"two accounts": {
			Genesis: fmt.Sprintf(`{"cash": [{"address": "%s", "amount": 50}, {"address": "%s", "amount": 7}]}`, a, b),
			WantA:   50,
			WantB:   7,
		},
		"same account twice is summed up": {
			Genesis: fmt.Sprintf(`{"cash": [{"address": "%s", "amount": 50}, {"address": "%s", "amount": 7}]}`, a, a),
			WantA:   57,
		},
		"negative amount": {
			Genesis: fmt.Sprintf(`{"cash": [{"address": "%s", "amount": -1}]}`, a),
			WantErr: errors.ErrAmount,
		},
		"missing address": {
			Genesis: `{"cash": [{"amount": 1}]}`,
			WantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts vault.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.Genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			assert.IsErr(t, tc.WantErr, err)
			if tc.WantErr != nil {
				return
			}
			ctrl := NewController()
			got, err := ctrl.Balance(db, a)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantA, got)
			got, err = ctrl.Balance(db, b)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantB, got)
		})
	}
}
