package accounts

import (
	"fmt"

	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/storage"
)

// BalanceStore loads and saves the persisted balances.
type BalanceStore interface {
	Saver
	Load() storage.LoadResult
}

// HistoryStore loads and saves the persisted ledger.
type HistoryStore interface {
	LedgerSaver
	Load() ([]model.Transaction, error)
}

// Open builds a Store from persisted state. Balances fall back to the
// defaults when nothing usable was stored. When seed is set and the
// ledger is empty, sample history is added and saved.
func Open(balances BalanceStore, history HistoryStore, seed bool, opts ...Option) (*Store, storage.LoadResult, error) {
	res := balances.Load()

	txs, err := history.Load()
	if err != nil {
		return nil, res, fmt.Errorf("loading ledger: %w", err)
	}

	all := []Option{
		WithBalances(Restore(res)),
		WithTransactions(txs),
		WithSaver(balances),
		WithLedgerSaver(history),
	}
	s := NewStore(append(all, opts...)...)

	switch res.Outcome {
	case storage.Corrupt:
		s.logger.Warn("stored balances unreadable, using defaults", "error", res.Err)
	case storage.NotFound:
		s.logger.Debug("no stored balances, using defaults")
	}

	if seed && len(txs) == 0 {
		s.mu.Lock()
		s.ledger.Append(SeedHistory(s.now())...)
		s.persistLedger()
		s.mu.Unlock()
	}
	return s, res, nil
}
