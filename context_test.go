package vault

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestBlockTime(t *testing.T) {
	ctx := context.Background()
	if _, ok := BlockTime(ctx); ok {
		t.Fatal("want no block time")
	}
	if _, ok := UnixBlockTime(ctx); ok {
		t.Fatal("want no unix block time")
	}

	now := time.Unix(1000, 0)
	ctx = WithBlockTime(ctx, now)
	got, ok := BlockTime(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, true, now.Equal(got))
	unix, ok := UnixBlockTime(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, UnixTime(1000), unix)

	assert.Equal(t, true, IsExpired(ctx, 1000))
	assert.Equal(t, false, IsExpired(ctx, 1001))

	assert.Panics(t, func() { WithBlockTime(ctx, now) })
}

func TestEpochIsNotAValidBlockTime(t *testing.T) {
	ctx := WithBlockTime(context.Background(), time.Unix(0, 0))
	if _, ok := UnixBlockTime(ctx); ok {
		t.Fatal("zero is the unset value and must not be a valid clock")
	}
}

func TestHeight(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetHeight(ctx); ok {
		t.Fatal("want no height")
	}
	ctx = WithHeight(ctx, 7)
	h, ok := GetHeight(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(7), h)
	assert.Panics(t, func() { WithHeight(ctx, 8) })
}

func TestChainID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetChainID(ctx))

	assert.Panics(t, func() { WithChainID(ctx, "no") })

	ctx = WithChainID(ctx, "test-chain")
	assert.Equal(t, "test-chain", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "other-chain") })
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(ctx))

	logger := log.NewTMLogger(ioutil.Discard).With("module", "test")
	ctx = WithLogger(ctx, logger)
	assert.Equal(t, logger, GetLogger(ctx))

	ctx = WithLogInfo(ctx, "height", 1)
	if GetLogger(ctx) == logger {
		t.Fatal("want a new logger with additional values")
	}
}
