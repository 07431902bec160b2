package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/owners"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/timelock"
	"github.com/iov-one/vault/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Vault is the application together with the components it is built of.
type Vault struct {
	*Application

	Codec    *Codec
	Timelock *timelock.Controller
	Cash     cash.BaseController
}

// Messages returns factories of all messages that the vault can process.
func Messages() []func() vault.Msg {
	return []func() vault.Msg{
		func() vault.Msg { return &timelock.SubmitMsg{} },
		func() vault.Msg { return &timelock.ConfirmMsg{} },
		func() vault.Msg { return &timelock.RevokeMsg{} },
		func() vault.Msg { return &timelock.ExecuteMsg{} },
		func() vault.Msg { return &timelock.ChangeDelayMsg{} },
	}
}

// NewVault builds the vault application on top of given store. Metrics are
// registered with reg unless it is nil.
func NewVault(store vault.CommitKVStore, logger log.Logger, reg prometheus.Registerer) (*Vault, error) {
	codec := NewCodec()
	for _, fn := range Messages() {
		codec.Register(fn)
	}

	// Payloads addressed to the vault itself are delivered straight to
	// the router. The outer decorators already run for the whole
	// execution.
	router := NewRouter()
	bank := cash.NewController()
	ctrl := timelock.NewController(timelock.NewDispatcher(bank, codec, router))
	auth := x.ChainAuth(timelock.Authenticate{}, sigs.Authenticate{})
	timelock.RegisterRoutes(router, auth, ctrl)

	handler := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
		sigs.NewDecorator().AllowMissingSigs(),
	).WithHandler(router)

	inits := ChainInitializers(
		&owners.Initializer{},
		cash.Initializer{},
		timelock.Initializer{},
	)

	application, err := NewApplication(store, handler, inits)
	if err != nil {
		return nil, err
	}
	observers := timelock.Observers{timelock.LoggingObserver{}}
	if reg != nil {
		metrics, err := timelock.NewMetricsObserver(reg)
		if err != nil {
			return nil, err
		}
		switch delay, err := timelock.NewGate().Delay(application.DeliverStore()); {
		case err == nil:
			metrics.SetDelay(delay)
		case !errors.ErrNotFound.Is(err):
			return nil, errors.Wrap(err, "load delay")
		}
		observers = append(observers, metrics)
	}
	application.WithLogger(logger).WithListener(observers)

	return &Vault{
		Application: application,
		Codec:       codec,
		Timelock:    ctrl,
		Cash:        bank,
	}, nil
}
