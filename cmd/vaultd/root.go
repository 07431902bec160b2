package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/timelock"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

const (
	flagHome     = "home"
	flagLogLevel = "log-level"
	flagTime     = "time"
	flagDebug    = "debug"

	// dbName is the name of the database directory inside of the home
	// directory.
	dbName = "vault"
)

// env holds the process configuration shared by all commands.
type env struct {
	conf *viper.Viper
}

func newRootCmd() *cobra.Command {
	e := &env{conf: viper.New()}
	root := &cobra.Command{
		Use:           "vaultd",
		Short:         "Time-locked multi-approver vault",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load()
		},
	}

	flags := root.PersistentFlags()
	flags.String(flagHome, defaultHome(), "directory holding the configuration and the database")
	flags.String(flagLogLevel, "info", "log level (debug, info, error or none)")
	flags.Int64(flagTime, 0, "logical clock as unix seconds, wall clock if zero")
	flags.Bool(flagDebug, false, "report panic details instead of a generic error")
	if err := e.conf.BindPFlags(flags); err != nil {
		panic(err)
	}
	e.conf.SetEnvPrefix("VAULT")
	e.conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	e.conf.AutomaticEnv()

	root.AddCommand(
		initCmd(e),
		keygenCmd(e),
		submitCmd(e),
		confirmCmd(e),
		revokeCmd(e),
		executeCmd(e),
		statusCmd(e),
		eventsCmd(e),
		balanceCmd(e),
	)
	return root
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vault"
	}
	return filepath.Join(home, ".vault")
}

// load reads the optional vault.toml configuration file from the home
// directory. Flags and environment variables take precedence.
func (e *env) load() error {
	path := filepath.Join(e.conf.GetString(flagHome), "vault.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	e.conf.SetConfigFile(path)
	if err := e.conf.ReadInConfig(); err != nil {
		return errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
	}
	return nil
}

func (e *env) logger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	opt, err := log.AllowLevel(e.conf.GetString(flagLogLevel))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt).With("module", "vaultd"), nil
}

// now returns the logical clock of the current command.
func (e *env) now() time.Time {
	if t := e.conf.GetInt64(flagTime); t != 0 {
		return time.Unix(t, 0)
	}
	return time.Now()
}

// queryContext returns a context usable for read only queries.
func (e *env) queryContext() vault.Context {
	return vault.WithBlockTime(context.Background(), e.now())
}

// open loads the vault from the database in the home directory. Returned
// function must be called to release the database.
func (e *env) open() (*app.Vault, func(), error) {
	logger, err := e.logger()
	if err != nil {
		return nil, nil, err
	}
	home := e.conf.GetString(flagHome)
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, nil, errors.Wrapf(errors.ErrDatabase, "home directory: %s", err)
	}
	db, err := iavl.NewCommitStore(home, dbName)
	if err != nil {
		return nil, nil, err
	}
	v, err := app.NewVault(db, logger, nil)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	v.WithDebug(e.conf.GetBool(flagDebug))
	return v, func() { db.Close() }, nil
}

// openInitialized is like open but fails if the vault was never initialized.
func (e *env) openInitialized() (*app.Vault, func(), error) {
	v, release, err := e.open()
	if err != nil {
		return nil, nil, err
	}
	if v.ChainID() == "" {
		release()
		return nil, nil, errors.Wrap(errors.ErrState, "vault not initialized, run init first")
	}
	return v, release, nil
}

// deliver processes a single message in its own block and commits the
// result. The transaction is signed when keyPath is not empty.
func (e *env) deliver(keyPath string, msg vault.Msg) (*vault.DeliverResult, error) {
	v, release, err := e.openInitialized()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := v.BeginBlock(e.now()); err != nil {
		return nil, err
	}
	tx := &app.Tx{Msg: msg}
	if keyPath != "" {
		key, err := loadKey(keyPath)
		if err != nil {
			return nil, err
		}
		signer := vault.PubKeyAddress(key.Public().(ed25519.PublicKey))
		seq, err := sigs.NextNonce(v.DeliverStore(), signer)
		if err != nil {
			return nil, err
		}
		if err := tx.Sign(key, v.ChainID(), seq); err != nil {
			return nil, err
		}
	}
	res, err := v.Deliver(tx)
	if err != nil {
		return nil, err
	}
	if _, err := v.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// parseAddress accepts a hex or condition encoded address. The "system"
// keyword stands for the vault itself.
func parseAddress(s string) (vault.Address, error) {
	if s == "system" {
		return timelock.SystemAddress, nil
	}
	return vault.ParseAddress(s)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
	return err
}
