package accounts

import "errors"

var (
	// ErrInvalidAmount means the amount is not positive or has more than
	// two decimal places.
	ErrInvalidAmount = errors.New("amount must be a positive value with at most 2 decimal places")

	// ErrSameAccount means a transfer names the same account on both sides.
	ErrSameAccount = errors.New("source and destination are the same account")

	// ErrInsufficientFunds means the debited account holds less than the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
