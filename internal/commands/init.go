package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/potmover/potmover/internal/accounts"
	"github.com/potmover/potmover/internal/config"
	"github.com/potmover/potmover/internal/ledger"
	"github.com/potmover/potmover/internal/storage"
)

func newInitCommand() *cobra.Command {
	var currency string
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a config file and data directory with the default accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, currency, !noSeed)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "default currency label (e.g. GBP, EUR)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with an empty transaction history")

	return cmd
}

func runInit(out io.Writer, dir, currency string, seed bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.Default()
	cfg.SeedHistory = seed
	if currency != "" {
		cfg.Currency = strings.ToUpper(currency)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dataDir := filepath.Join(dir, cfg.DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Write potmover.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write starting balances and history.
	balances := storage.NewBalances(storage.NewFile(dataDir), cfg.StorageKey)
	if err := balances.Save(accounts.DefaultBalances()); err != nil {
		return fmt.Errorf("writing balances: %w", err)
	}
	history := ledger.NewFileStore(dataDir)
	if err := history.SaveTransactions(nil); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	if _, _, err := accounts.Open(balances, history, seed); err != nil {
		return err
	}

	fmt.Fprintf(out, "Initialized potmover at %s\n", dir)
	return nil
}
