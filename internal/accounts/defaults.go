package accounts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/potmover/potmover/internal/ledger"
	"github.com/potmover/potmover/internal/model"
	"github.com/potmover/potmover/internal/storage"
)

// Defaults returns the built-in accounts in display order.
func Defaults() []model.Account {
	return []model.Account{
		{ID: model.AccountCurrent, Name: "Current Account", Icon: "💳", Color: "#60A5FA", Balance: decimal.RequireFromString("74500.00")},
		{ID: model.AccountSavings, Name: "Savings", Icon: "🐷", Color: "#A488F5", Balance: decimal.RequireFromString("16250.00")},
		{ID: model.AccountPension, Name: "Pension", Icon: "💰", Color: "#FFFFFF", Balance: decimal.RequireFromString("48750.00")},
	}
}

// DefaultBalances returns the built-in balance of every account.
func DefaultBalances() map[model.AccountID]decimal.Decimal {
	out := make(map[model.AccountID]decimal.Decimal, 3)
	for _, a := range Defaults() {
		out[a.ID] = a.Balance
	}
	return out
}

// Restore merges a persisted load result onto the default balances.
// Only a Loaded result overrides anything, and only for the accounts it
// carried.
func Restore(res storage.LoadResult) map[model.AccountID]decimal.Decimal {
	out := DefaultBalances()
	if res.Outcome != storage.Loaded {
		return out
	}
	for acct, bal := range res.Balances {
		if acct.Valid() {
			out[acct] = bal
		}
	}
	return out
}

// SeedHistory returns mock ledger history ending shortly before now.
// It is independent of the balances, the way the prototype screens were
// populated.
func SeedHistory(now time.Time) []model.Transaction {
	type row struct {
		daysAgo      int
		account      model.AccountID
		typ          model.TransactionType
		amount       string
		counterparty model.AccountID
		desc         string
	}
	rows := [][]row{
		{{daysAgo: 28, account: model.AccountCurrent, typ: model.TransactionTopUp, amount: "2850.00", desc: "Salary"}},
		{{daysAgo: 21, account: model.AccountCurrent, typ: model.TransactionWithdrawal, amount: "-120.00", desc: "Cash withdrawal"}},
		{
			{daysAgo: 14, account: model.AccountCurrent, typ: model.TransactionTransfer, amount: "-500.00", counterparty: model.AccountSavings, desc: "Transfer to Savings"},
			{daysAgo: 14, account: model.AccountSavings, typ: model.TransactionTransfer, amount: "500.00", counterparty: model.AccountCurrent, desc: "Transfer from Current Account"},
		},
		{{daysAgo: 10, account: model.AccountPension, typ: model.TransactionTopUp, amount: "350.00", desc: "Employer contribution"}},
		{{daysAgo: 7, account: model.AccountSavings, typ: model.TransactionTopUp, amount: "25.40", desc: "Interest"}},
		{{daysAgo: 3, account: model.AccountCurrent, typ: model.TransactionWithdrawal, amount: "-64.99", desc: "Card payment"}},
	}

	l := ledger.New()
	for _, entryRows := range rows {
		when := now.AddDate(0, 0, -entryRows[0].daysAgo).Truncate(time.Minute)
		entry := l.NextEntry(when)
		for leg, r := range entryRows {
			l.Append(model.Transaction{
				ID:           entry.Leg(leg),
				Account:      r.account,
				Type:         r.typ,
				Amount:       decimal.RequireFromString(r.amount),
				Date:         when,
				Counterparty: r.counterparty,
				Description:  r.desc,
			})
		}
	}
	return l.All()
}
