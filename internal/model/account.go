package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAccount is returned for ids outside the fixed account set.
var ErrInvalidAccount = errors.New("invalid account")

// AccountID identifies one of the three fixed money pools.
type AccountID string

const (
	AccountCurrent AccountID = "currentAccount"
	AccountSavings AccountID = "savings"
	AccountPension AccountID = "pension"
)

// AllAccountIDs returns every account id in display order.
func AllAccountIDs() []AccountID {
	return []AccountID{AccountCurrent, AccountSavings, AccountPension}
}

// Valid reports whether id is one of the fixed account ids.
func (id AccountID) Valid() bool {
	switch id {
	case AccountCurrent, AccountSavings, AccountPension:
		return true
	}
	return false
}

// ParseAccountID converts user input into an AccountID.
// "current" is accepted as an alias for currentAccount.
func ParseAccountID(s string) (AccountID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "currentaccount":
		return AccountCurrent, nil
	case "savings":
		return AccountSavings, nil
	case "pension":
		return AccountPension, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAccount, s)
}

// Account is a snapshot of one money pool.
type Account struct {
	ID      AccountID
	Name    string
	Icon    string
	Color   string
	Balance decimal.Decimal
}
