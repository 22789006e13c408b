package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
	"github.com/potmover/potmover/internal/wizard"
)

const (
	pensionWarningText = "Moving money out of your pension may mean tax charges and a smaller retirement pot."
	savingsWarningText = "Taking money out of savings for everyday spending can set back your savings goals."
)

var errNotAcknowledged = errors.New("warning not acknowledged (rerun with --yes)")

func newTransferCommand(flags *globalFlags) *cobra.Command {
	var currency string
	var yes bool

	cmd := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move money between two accounts in one step",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := model.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			to, err := model.ParseAccountID(args[1])
			if err != nil {
				return err
			}
			amount, err := money.ParseAmount(args[2])
			if err != nil {
				return err
			}
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}

			sess := wizard.New(s.store, wizard.WithLogger(s.logger), wizard.WithCurrency(s.cfg.Currency))
			req := wizard.Request{Source: from, Destination: to, Amount: amount}
			if currency != "" {
				c, ok := money.LookupCurrency(currency)
				if !ok {
					return fmt.Errorf("%w: %q", wizard.ErrUnknownCurrency, currency)
				}
				req.Currency = c.Code
			}
			return runTransfer(cmd.OutOrStdout(), sess, req, yes)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "currency label shown with the amount")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept pension and savings warnings")

	return cmd
}

func runTransfer(out io.Writer, sess *wizard.Session, req wizard.Request, yes bool) error {
	if req.Source == model.AccountPension {
		fmt.Fprintln(out, "Warning: "+pensionWarningText)
		if !yes {
			return errNotAcknowledged
		}
		req.PensionAcknowledged = true
	}
	if err := sess.Enter(wizard.StepReview, req); err != nil {
		return err
	}
	if err := sess.Confirm(); err != nil {
		return err
	}
	if sess.Step() == wizard.StepSavingsWarning {
		fmt.Fprintln(out, "Warning: "+savingsWarningText)
		if !yes {
			sess.Abandon()
			return errNotAcknowledged
		}
		if err := sess.Acknowledge(); err != nil {
			return err
		}
	}
	printConfirmed(out, sess)
	return nil
}

func newMoveCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move",
		Short: "Move money step by step, with a review before anything changes",
		Long: "Walks through choosing accounts and an amount. At any prompt enter\n" +
			"\"b\" to go back a step or \"q\" to leave without moving anything.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.open(cmd)
			if err != nil {
				return err
			}
			sess := wizard.New(s.store, wizard.WithLogger(s.logger), wizard.WithCurrency(s.cfg.Currency))
			p := &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
			return runMove(p, sess)
		},
	}
}

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask prints label and returns the next trimmed line. ok is false at EOF.
func (p *prompter) ask(label string) (line string, ok bool) {
	fmt.Fprint(p.out, label+" ")
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func runMove(p *prompter, sess *wizard.Session) error {
	for {
		step := sess.Step()
		switch step {
		case wizard.StepHome:
			fmt.Fprintln(p.out, "Nothing moved.")
			return nil
		case wizard.StepConfirmed:
			printConfirmed(p.out, sess)
			return nil
		}

		if step == wizard.StepReview || step == wizard.StepSavingsWarning {
			sum, err := sess.Review()
			if err != nil {
				return err
			}
			if step == wizard.StepReview {
				printSummary(p.out, sum)
			}
		}
		printStep(p.out, sess)

		line, ok := p.ask(promptFor(step, sess.Currency()))
		if !ok {
			sess.Abandon()
			continue
		}
		switch strings.ToLower(line) {
		case "q", "quit":
			sess.Abandon()
			continue
		case "b", "back":
			sess.Back()
			continue
		}

		if err := applyInput(sess, step, line); err != nil {
			fmt.Fprintf(p.out, "  %v\n", err)
		}
	}
}

func printStep(out io.Writer, sess *wizard.Session) {
	switch sess.Step() {
	case wizard.StepSelectSource:
		fmt.Fprintln(out, "Move money from:")
		for _, c := range sess.Sources() {
			note := ""
			if !c.Available {
				note = "  (no funds)"
			}
			fmt.Fprintf(out, "  %-15s %s %s%s\n", c.Account.ID, c.Account.Name,
				money.Format(c.Account.Balance, sess.Currency()), note)
		}
	case wizard.StepPensionWarning:
		fmt.Fprintln(out, "Warning: "+pensionWarningText)
	case wizard.StepSelectDestination:
		fmt.Fprintln(out, "Move money to:")
		for _, c := range sess.Destinations() {
			fmt.Fprintf(out, "  %-15s %s\n", c.Account.ID, c.Account.Name)
		}
	case wizard.StepSavingsWarning:
		fmt.Fprintln(out, "Warning: "+savingsWarningText)
	}
}

func promptFor(step wizard.Step, currency string) string {
	switch step {
	case wizard.StepSelectSource, wizard.StepSelectDestination:
		return "Account:"
	case wizard.StepEnterAmount:
		return fmt.Sprintf("Amount (%s, or \"<amount> <currency>\"):", currency)
	case wizard.StepReview:
		return "Move funds? [y/N]"
	default:
		return "Continue? [y/N]"
	}
}

func applyInput(sess *wizard.Session, step wizard.Step, line string) error {
	switch step {
	case wizard.StepSelectSource, wizard.StepSelectDestination:
		id, err := model.ParseAccountID(line)
		if err != nil {
			return err
		}
		if step == wizard.StepSelectSource {
			return sess.ChooseSource(id)
		}
		return sess.ChooseDestination(id)

	case wizard.StepEnterAmount:
		amount, currency, _ := strings.Cut(line, " ")
		return sess.EnterAmount(amount, strings.TrimSpace(currency))

	case wizard.StepReview:
		if !isYes(line) {
			sess.Back()
			return nil
		}
		return sess.Confirm()

	case wizard.StepPensionWarning, wizard.StepSavingsWarning:
		if !isYes(line) {
			sess.Back()
			return nil
		}
		return sess.Acknowledge()
	}
	return nil
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true
	}
	return false
}

func printSummary(out io.Writer, sum wizard.Summary) {
	fmt.Fprintf(out, "Move %s from %s to %s\n",
		money.Format(sum.Amount, sum.Currency), sum.Source.Name, sum.Destination.Name)
	fmt.Fprintf(out, "  %-16s %s -> %s\n", sum.Source.Name+":",
		money.Format(sum.Source.Balance, sum.Currency), money.Format(sum.SourceAfter, sum.Currency))
	fmt.Fprintf(out, "  %-16s %s -> %s\n", sum.Destination.Name+":",
		money.Format(sum.Destination.Balance, sum.Currency), money.Format(sum.DestinationAfter, sum.Currency))
	if !sum.RetirementImpact.IsZero() {
		fmt.Fprintf(out, "  Could be worth about %s at retirement.\n", money.Format(sum.RetirementImpact, sum.Currency))
	}
}

func printConfirmed(out io.Writer, sess *wizard.Session) {
	req := sess.Request()
	fmt.Fprintf(out, "Moved %s from %s to %s.\n", money.Format(req.Amount, req.Currency), req.Source, req.Destination)
	for _, tx := range sess.Transactions() {
		fmt.Fprintf(out, "  %s %s %s\n", tx.ID, tx.Account, money.FormatSigned(tx.Amount, req.Currency))
	}
}
