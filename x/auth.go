package x

import (
	"github.com/iov-one/vault"
)

// Authenticator reveals the conditions satisfied by the current request.
// Handlers receive it in their constructor so that the source of the
// signers can be replaced, for example by the system identity during a
// governed self-call.
type Authenticator interface {
	// GetConditions returns all conditions satisfied in given context, in
	// order of importance.
	GetConditions(vault.Context) []vault.Condition
	// HasAddress reports whether any of the conditions resolves to given
	// address.
	HasAddress(vault.Context, vault.Address) bool
}

// ChainAuth combines authenticators. Conditions are reported in the order
// of the authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// MultiAuth is an Authenticator backed by a list of authenticators.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

func (m MultiAuth) GetConditions(ctx vault.Context) []vault.Condition {
	var conds []vault.Condition
	for _, impl := range m.impls {
		conds = append(conds, impl.GetConditions(ctx)...)
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the principal on whose behalf an operation is
// performed: the first condition of given authenticator. It returns nil
// if the request is not authenticated.
func MainSigner(ctx vault.Context, auth Authenticator) vault.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}

// MainSignerAddress returns the address of the main signer or nil.
func MainSignerAddress(ctx vault.Context, auth Authenticator) vault.Address {
	if main := MainSigner(ctx, auth); main != nil {
		return main.Address()
	}
	return nil
}
