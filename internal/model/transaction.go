package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/id"
)

// TransactionType classifies ledger rows.
type TransactionType string

const (
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTopUp      TransactionType = "topup"
	TransactionTransfer   TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionWithdrawal, TransactionTopUp, TransactionTransfer:
		return true
	}
	return false
}

// Transaction is a single ledger row attached to one account.
type Transaction struct {
	ID           string // "YYYY-MM-NNNx", legs of one transfer share the base
	Account      AccountID
	Type         TransactionType
	Amount       decimal.Decimal // positive = inflow, negative = outflow
	Date         time.Time
	Counterparty AccountID // other side of a transfer, empty otherwise
	Description  string
}

// EntryGroup returns the base entry ID (without leg suffix).
// "2025-01-001a" -> "2025-01-001"
func (t Transaction) EntryGroup() string {
	return id.Base(t.ID)
}
