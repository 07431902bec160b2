package main

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/registry"
	"github.com/iov-one/vault/x/timelock"
	"github.com/spf13/cobra"
)

func initCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init <genesis.json>",
		Short: "Create the vault from a genesis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.LoadGenesis(args[0])
			if err != nil {
				return err
			}
			v, release, err := e.open()
			if err != nil {
				return err
			}
			defer release()

			if err := v.InitChain(gen); err != nil {
				return err
			}
			if _, err := v.Commit(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vault %s initialized\n", gen.ChainID)
			return nil
		},
	}
}

func keygenCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new signing key and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := generateKey(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "key.json", "file the key is written to")
	return cmd
}

func submitCmd(e *env) *cobra.Command {
	var (
		as    string
		to    string
		value int64
		delay uint64
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Propose a new transaction and confirm it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := timelock.SubmitMsg{Value: value}
			if cmd.Flags().Changed("change-delay") {
				// A delay change is a payload that the vault sends to
				// itself.
				payload, err := app.EncodeMsg(&timelock.ChangeDelayMsg{Delay: delay})
				if err != nil {
					return err
				}
				msg.Payload = payload
				msg.Destination = timelock.SystemAddress
			}
			if to != "" {
				dest, err := parseAddress(to)
				if err != nil {
					return err
				}
				msg.Destination = dest
			}
			if msg.Destination == nil {
				return errors.Wrap(errors.ErrEmpty, "destination is required")
			}
			res, err := e.deliver(as, &msg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), registry.FormatID(res.Data))
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "key file of the submitting owner")
	cmd.Flags().StringVar(&to, "to", "", "destination address, \"system\" for the vault itself")
	cmd.Flags().Int64Var(&value, "value", 0, "value transferred on execution")
	cmd.Flags().Uint64Var(&delay, "change-delay", 0, "propose a new time lock delay in seconds")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

// txCmd builds a command that delivers a message referencing a single
// transaction.
func txCmd(e *env, use, short string, signed bool, build func(id []byte) vault.Msg) *cobra.Command {
	var (
		as string
		tx string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := registry.ParseID(tx)
			if err != nil {
				return err
			}
			res, err := e.deliver(as, build(id))
			if err != nil {
				return err
			}
			if len(res.Log) != 0 {
				fmt.Fprintln(cmd.OutOrStdout(), res.Log)
			}
			return nil
		},
	}
	if signed {
		cmd.Flags().StringVar(&as, "as", "", "key file of the owner")
		_ = cmd.MarkFlagRequired("as")
	} else {
		cmd.Flags().StringVar(&as, "as", "", "optional key file of the caller")
	}
	cmd.Flags().StringVar(&tx, "tx", "", "transaction ID")
	_ = cmd.MarkFlagRequired("tx")
	return cmd
}

func confirmCmd(e *env) *cobra.Command {
	return txCmd(e, "confirm", "Confirm a transaction", true, func(id []byte) vault.Msg {
		return &timelock.ConfirmMsg{TransactionID: id}
	})
}

func revokeCmd(e *env) *cobra.Command {
	return txCmd(e, "revoke", "Revoke a confirmation", true, func(id []byte) vault.Msg {
		return &timelock.RevokeMsg{TransactionID: id}
	})
}

func executeCmd(e *env) *cobra.Command {
	return txCmd(e, "execute", "Execute an unlocked transaction", false, func(id []byte) vault.Msg {
		return &timelock.ExecuteMsg{TransactionID: id}
	})
}

func statusCmd(e *env) *cobra.Command {
	var tx string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the state of a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := registry.ParseID(tx)
			if err != nil {
				return err
			}
			v, release, err := e.openInitialized()
			if err != nil {
				return err
			}
			defer release()

			status, err := v.Timelock.Status(e.queryContext(), v.DeliverStore(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		},
	}
	cmd.Flags().StringVar(&tx, "tx", "", "transaction ID")
	_ = cmd.MarkFlagRequired("tx")
	return cmd
}

func eventsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, release, err := e.openInitialized()
			if err != nil {
				return err
			}
			defer release()

			events, err := v.Timelock.Events(v.DeliverStore())
			if err != nil {
				return err
			}
			for _, ev := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n",
					ev.Time, ev.Kind, registry.FormatID(ev.TransactionID), ev.Approver)
			}
			return nil
		},
	}
}

func balanceCmd(e *env) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the balance of an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAddress(addr)
			if err != nil {
				return err
			}
			v, release, err := e.openInitialized()
			if err != nil {
				return err
			}
			defer release()

			amount, err := v.Cash.Balance(v.DeliverStore(), a)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), amount)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "system", "address, \"system\" for the vault itself")
	return cmd
}
