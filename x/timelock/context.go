package timelock

import (
	"context"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/x"
)

type contextKey int

const (
	// private type creates an interface key for Context that cannot be accessed by any other package
	contextKeySystem contextKey = iota
)

var (
	// SystemCondition is the identity the vault uses when it acts on its
	// own behalf, while executing a transaction.
	SystemCondition = vault.NewCondition("timelock", "system", []byte("self"))

	// SystemAddress is the address of the vault itself. It holds the
	// funds of the vault and it is the destination of transactions that
	// govern the vault.
	SystemAddress = SystemCondition.Address()
)

func withSystem(ctx vault.Context) vault.Context {
	return context.WithValue(ctx, contextKeySystem, true)
}

// Authenticate authenticates the vault itself in contexts created while
// executing a transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns SystemCondition if the context was created for the
// execution of a transaction.
func (Authenticate) GetConditions(ctx vault.Context) []vault.Condition {
	// (val, ok) form to return nil instead of panic if unset
	if ok, _ := ctx.Value(contextKeySystem).(bool); ok {
		return []vault.Condition{SystemCondition}
	}
	return nil
}

// HasAddress returns true iff this address is in GetConditions.
func (a Authenticate) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
