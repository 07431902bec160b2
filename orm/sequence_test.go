package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	cases := map[string]struct {
		bucket, name string
		increments   uint64
		want         uint64
	}{
		"first":       {"txs", "id", 22, 22},
		"second":      {"txs", "other", 11, 11},
		"first again": {"txs", "id", 18, 40},
	}

	for _, name := range []string{"first", "second", "first again"} {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			s := NewSequence(tc.bucket, tc.name)
			orig := s.peek(t, db)

			var val uint64
			for i := uint64(0); i < tc.increments; i++ {
				var err error
				val, err = s.NextInt(db)
				assert.Nil(t, err)
			}
			assert.Equal(t, tc.want, val)

			// Raw bytes must keep the order of the values.
			last := s.peek(t, db)
			if bytes.Compare(last, orig) != 1 {
				t.Fatalf("want %X to be greater than %X", last, orig)
			}
		})
	}
}

func (s *Sequence) peek(t testing.TB, db store.KVStore) []byte {
	t.Helper()
	val, err := s.Latest(db)
	assert.Nil(t, err)
	return EncodeSequence(val)
}

func TestDecodeSequence(t *testing.T) {
	val, err := DecodeSequence(nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), val)

	_, err = DecodeSequence([]byte{1, 2})
	assert.IsErr(t, errors.ErrInput, err)
}
