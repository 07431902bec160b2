package app

import (
	"context"
	"fmt"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// TagListener is notified about the tags of every successful delivery.
type TagListener interface {
	OnTags(ctx vault.Context, tags []common.KVPair) error
}

// Application processes transactions against a commit store. Transactions
// are processed in blocks. Each block shares a single logical clock value
// and is persisted by Commit.
//
// Application is not safe for concurrent use. All operations are expected
// to be serialized by the caller.
type Application struct {
	logger      log.Logger
	store       *CommitStore
	handler     vault.Handler
	initializer vault.Initializer
	listeners   []TagListener
	debug       bool

	// chainID is loaded from the database or set by InitChain.
	chainID string

	// blockContext is valid for the current block only. It is nil when
	// no block was started.
	blockContext vault.Context
}

// NewApplication returns an application that processes all transactions
// with given handler and initializes the state with given initializer.
func NewApplication(store vault.CommitKVStore, handler vault.Handler, inits vault.Initializer) (*Application, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &Application{
		logger:      log.NewNopLogger(),
		store:       cs,
		handler:     handler,
		initializer: inits,
		chainID:     chainID,
	}, nil
}

// WithLogger sets the logger used by the application and all handlers.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// WithDebug controls whether panic details are returned to the caller.
// Panics are always logged in full.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// WithListener registers a listener that is notified after each successful
// delivery.
func (a *Application) WithListener(l TagListener) *Application {
	a.listeners = append(a.listeners, l)
	return a
}

// ChainID returns the chain id set by the genesis or an empty string if
// the application was not initialized yet.
func (a *Application) ChainID() string {
	return a.chainID
}

// InitChain initializes the state from given genesis. Either all
// initializers succeed or nothing is written.
func (a *Application) InitChain(gen *Genesis) error {
	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "already initialized for chain %s", a.chainID)
	}
	if len(gen.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}

	cache := a.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := a.initializer.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// BeginBlock starts a new block. All transactions of the block are
// processed at given time.
func (a *Application) BeginBlock(now time.Time) error {
	info, err := a.store.CommitInfo()
	if err != nil {
		return errors.Wrap(err, "commit info")
	}
	height := info.Version + 1

	ctx := context.Background()
	ctx = vault.WithHeight(ctx, height)
	ctx = vault.WithBlockTime(ctx, now)
	if a.chainID != "" {
		ctx = vault.WithChainID(ctx, a.chainID)
	}
	ctx = vault.WithLogger(ctx, a.logger.With("height", height))
	a.blockContext = ctx
	return nil
}

// Check validates given transaction against the check state. Nothing is
// persisted.
func (a *Application) Check(tx vault.Tx) (*vault.CheckResult, error) {
	if a.blockContext == nil {
		return nil, errors.Wrap(errors.ErrState, "no block started")
	}
	res, err := a.handler.Check(a.blockContext, a.store.CheckStore(), tx)
	if err != nil {
		return nil, a.redact(err)
	}
	return res, nil
}

// Deliver processes given transaction. Listeners are notified with the
// result tags when the processing succeeds. A listener failure is logged
// and does not change the result.
func (a *Application) Deliver(tx vault.Tx) (*vault.DeliverResult, error) {
	if a.blockContext == nil {
		return nil, errors.Wrap(errors.ErrState, "no block started")
	}
	res, err := a.handler.Deliver(a.blockContext, a.store.DeliverStore(), tx)
	if err != nil {
		return nil, a.redact(err)
	}
	for _, l := range a.listeners {
		if err := l.OnTags(a.blockContext, res.Tags); err != nil {
			a.logger.Error("tag listener failed", "path", vault.GetPath(tx), "err", err)
		}
	}
	return res, nil
}

func (a *Application) redact(err error) error {
	if errors.ErrPanic.Is(err) {
		a.logger.Error("transaction panicked", "err", fmt.Sprintf("%+v", err))
	}
	return errors.Redact(err, a.debug)
}

// Commit persists all delivered transactions and ends the current block.
func (a *Application) Commit() (vault.CommitID, error) {
	id, err := a.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	a.blockContext = nil
	a.logger.Info("commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// DeliverStore returns the delivery state, including the changes not
// committed yet. Use it for queries.
func (a *Application) DeliverStore() vault.CacheableKVStore {
	return a.store.DeliverStore()
}
