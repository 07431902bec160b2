package vaulttest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/iov-one/vault"
	"golang.org/x/crypto/ed25519"
)

// NewKey returns a freshly generated ed25519 key pair.
func NewKey() (ed25519.PublicKey, ed25519.PrivateKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return pub, priv
}

// NewCondition returns a signature condition of a random key.
func NewCondition() vault.Condition {
	pub, _ := NewKey()
	return vault.SigCondition(pub)
}

// RandomAddr returns the address of a random signature condition.
func RandomAddr() vault.Address {
	return NewCondition().Address()
}

// SequenceID returns the binary representation of a sequence value.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) vault.Address {
	t.Helper()

	addr, err := vault.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
