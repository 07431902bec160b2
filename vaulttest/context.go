package vaulttest

import (
	"context"
	"time"

	"github.com/iov-one/vault"
)

// Context returns a context with the block time set to given unix
// timestamp.
func Context(unix int64) vault.Context {
	return vault.WithBlockTime(context.Background(), time.Unix(unix, 0))
}
