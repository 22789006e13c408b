package ledger

import (
	"slices"
	"time"

	"github.com/potmover/potmover/internal/id"
	"github.com/potmover/potmover/internal/model"
)

// Ledger is an append-only, insertion-ordered list of transactions.
// It does not check rows against account balances; callers that need
// that guarantee (the account store) record rows alongside the balance
// change. Ledger is not safe for concurrent use on its own.
type Ledger struct {
	txs []model.Transaction
}

// New creates a Ledger holding txs in the given order.
func New(txs ...model.Transaction) *Ledger {
	l := &Ledger{}
	l.Append(txs...)
	return l
}

// Append adds rows to the end of the ledger.
func (l *Ledger) Append(txs ...model.Transaction) {
	l.txs = append(l.txs, txs...)
}

// Len returns the number of rows.
func (l *Ledger) Len() int {
	return len(l.txs)
}

// All returns a copy of every row in insertion order.
func (l *Ledger) All() []model.Transaction {
	return slices.Clone(l.txs)
}

// Query returns the rows for account, newest first. Rows with the same
// date come out most recently appended first.
func (l *Ledger) Query(account model.AccountID) []model.Transaction {
	var out []model.Transaction
	for i := len(l.txs) - 1; i >= 0; i-- {
		if l.txs[i].Account == account {
			out = append(out, l.txs[i])
		}
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// NextEntry returns the next free entry ID for the month of t.
func (l *Ledger) NextEntry(t time.Time) id.Entry {
	maxSeq := 0
	for _, tx := range l.txs {
		e, err := id.Parse(tx.ID)
		if err != nil || !e.SameMonth(t) {
			continue
		}
		if e.Seq > maxSeq {
			maxSeq = e.Seq
		}
	}
	return id.ForDate(t, maxSeq+1)
}
