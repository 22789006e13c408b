package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
)

func newAccountsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Show every account and its balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			return printAccounts(cmd.OutOrStdout(), s.store.All(), s.cfg.Currency)
		},
	}
}

func printAccounts(out io.Writer, accts []model.Account, currency string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tID\tBALANCE")
	for _, a := range accts {
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", a.Icon, a.Name, a.ID, money.Format(a.Balance, currency))
	}
	return tw.Flush()
}

func newTransactionsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "transactions <account>",
		Short: "List an account's transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			txs, err := s.store.Transactions(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txs) == 0 {
				fmt.Fprintln(out, "No transactions.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tDESCRIPTION")
			for _, tx := range txs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					tx.ID, tx.Date.Format("02 Jan 2006"), tx.Type,
					money.FormatSigned(tx.Amount, s.cfg.Currency), tx.Description)
			}
			return tw.Flush()
		},
	}
}

func newSetBalanceCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <account> <amount>",
		Short: "Overwrite an account balance without recording a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			bal, err := money.ParseBalance(args[1])
			if err != nil {
				return err
			}
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			if err := s.store.UpdateBalance(id, bal); err != nil {
				return err
			}
			acct, err := s.store.Get(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s balance set to %s\n", acct.Name, money.Format(acct.Balance, s.cfg.Currency))
			return nil
		},
	}
}

func newTopUpCommand(flags *globalFlags) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "topup <account> <amount>",
		Short: "Add money to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdjust(cmd, flags, args, description, true)
		},
	}
	cmd.Flags().StringVar(&description, "description", "Top up", "ledger description")
	return cmd
}

func newWithdrawCommand(flags *globalFlags) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "withdraw <account> <amount>",
		Short: "Take money out of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdjust(cmd, flags, args, description, false)
		},
	}
	cmd.Flags().StringVar(&description, "description", "Withdrawal", "ledger description")
	return cmd
}

func runAdjust(cmd *cobra.Command, flags *globalFlags, args []string, description string, topUp bool) error {
	id, err := model.ParseAccountID(args[0])
	if err != nil {
		return err
	}
	amount, err := money.ParseAmount(args[1])
	if err != nil {
		return err
	}
	s, err := flags.open(cmd)
	if err != nil {
		return err
	}

	var tx model.Transaction
	if topUp {
		tx, err = s.store.TopUp(id, amount, description)
	} else {
		tx, err = s.store.Withdraw(id, amount, description)
	}
	if err != nil {
		return err
	}
	acct, err := s.store.Get(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s, balance %s\n",
		tx.ID, acct.Name, money.FormatSigned(tx.Amount, s.cfg.Currency), money.Format(acct.Balance, s.cfg.Currency))
	return nil
}
