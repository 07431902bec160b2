package vaulttest

import (
	"context"
	"fmt"

	"github.com/iov-one/vault"
)

// Auth is an authenticator that always reports the same conditions. Signer,
// when set, is reported first and is therefore the main signer.
type Auth struct {
	Signer  vault.Condition
	Signers []vault.Condition
}

func (a *Auth) GetConditions(vault.Context) []vault.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append([]vault.Condition{a.Signer}, a.Signers...)
}

func (a *Auth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an authenticator that reads the conditions stored in the
// context by SetConditions. Two instances with different keys do not see
// each other's conditions.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context authenticated with given conditions.
func (a *CtxAuth) SetConditions(ctx vault.Context, conds ...vault.Condition) vault.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx vault.Context) []vault.Condition {
	switch conds := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []vault.Condition:
		return conds
	default:
		panic(fmt.Sprintf("unexpected conditions type %T", conds))
	}
}

func (a *CtxAuth) HasAddress(ctx vault.Context, addr vault.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

type ctxAuthKey string

func hasAddress(conds []vault.Condition, addr vault.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
