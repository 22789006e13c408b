package commands

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/potmover/potmover/internal/accounts"
	"github.com/potmover/potmover/internal/buildinfo"
	"github.com/potmover/potmover/internal/config"
	"github.com/potmover/potmover/internal/ledger"
	"github.com/potmover/potmover/internal/logging"
	"github.com/potmover/potmover/internal/storage"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dataDir    string
}

// session is what a subcommand works with once config and storage are open.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *accounts.Store
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "potmover",
		Short:   "Move money between your current account, savings and pension",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(flags),
		newTransactionsCommand(flags),
		newSetBalanceCommand(flags),
		newTopUpCommand(flags),
		newWithdrawCommand(flags),
		newTransferCommand(flags),
		newMoveCommand(flags),
	)

	return rootCmd
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist, then applies .env and environment overrides and --data-dir.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
		cfg.DataDir = filepath.Join(filepath.Dir(f.configPath), cfg.DataDir)
	case err != nil:
		return nil, err
	}

	if err := cfg.ApplyEnv(filepath.Join(filepath.Dir(f.configPath), ".env")); err != nil {
		return nil, err
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	return cfg, nil
}

// open loads config and restores the store from the data directory.
func (f *globalFlags) open(cmd *cobra.Command) (*session, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.Log)

	balances := storage.NewBalances(storage.NewFile(cfg.DataDir), cfg.StorageKey)
	store, res, err := accounts.Open(balances, ledger.NewFileStore(cfg.DataDir), cfg.SeedHistory,
		accounts.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "data_dir", cfg.DataDir, "balances", res.Outcome.String())

	return &session{cfg: cfg, logger: logger, store: store}, nil
}
