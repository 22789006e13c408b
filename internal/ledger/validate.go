package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/id"
	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/money"
)

// ValidationError describes a single rule violation on a ledger row.
type ValidationError struct {
	TxID        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s]: %s", e.TxID, e.Description)
}

// Validate checks rows read back from storage before they are trusted.
func Validate(txs []model.Transaction) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(txs))
	transfers := make(map[string]decimal.Decimal)
	var transferOrder []string

	for _, tx := range txs {
		if _, err := id.Parse(tx.ID); err != nil {
			errs = append(errs, ValidationError{TxID: tx.ID, Description: err.Error()})
		}
		if seen[tx.ID] {
			errs = append(errs, ValidationError{TxID: tx.ID, Description: "duplicate transaction id"})
		}
		seen[tx.ID] = true

		if !tx.Account.Valid() {
			errs = append(errs, ValidationError{TxID: tx.ID, Description: fmt.Sprintf("unknown account %q", tx.Account)})
		}
		if !tx.Type.Valid() {
			errs = append(errs, ValidationError{TxID: tx.ID, Description: fmt.Sprintf("unknown type %q", tx.Type)})
		}
		if !money.HasCents(tx.Amount) {
			errs = append(errs, ValidationError{TxID: tx.ID, Description: fmt.Sprintf("amount %s has more than 2 decimal places", tx.Amount)})
		}

		if tx.Type == model.TransactionTransfer {
			g := tx.EntryGroup()
			sum, ok := transfers[g]
			if !ok {
				transferOrder = append(transferOrder, g)
			}
			transfers[g] = sum.Add(tx.Amount)
		}
	}

	// Both legs of a transfer cancel out.
	for _, g := range transferOrder {
		if sum := transfers[g]; !sum.IsZero() {
			errs = append(errs, ValidationError{
				TxID:        g,
				Description: fmt.Sprintf("transfer legs sum to %s, want 0.00", sum.StringFixed(2)),
			})
		}
	}

	return errs
}
