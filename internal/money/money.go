package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for input that is not a positive amount
// with at most two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

// Same shape the amount field accepts while typing: digits, one optional
// point, at most two decimals.
var amountPattern = regexp.MustCompile(`^\d*\.?\d{0,2}$`)

var hundred = decimal.NewFromInt(100)

// ErrInvalidBalance is returned for balances with fractions of a penny
// or more than MaxBalanceDigits whole digits.
var ErrInvalidBalance = errors.New("invalid balance")

// MaxBalanceDigits bounds the whole-number digits of a balance.
const MaxBalanceDigits = 15

// maxFractionDigits bounds the exponent on the fractional side.
const maxFractionDigits = 18

// ParseAmount parses wizard input into a positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || !amountPattern.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseBalance parses a signed balance such as "-12.50" or "74500".
func ParseBalance(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: parsing %q: %w", ErrInvalidBalance, s, err)
	}
	if err := CheckBalance(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckBalance reports whether d can be held as a balance. The exponent
// is checked before any arithmetic so values like 1e300000000 are
// rejected without being expanded.
func CheckBalance(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if exp < -maxFractionDigits || int64(d.NumDigits())+exp > MaxBalanceDigits {
		return fmt.Errorf("%w: out of range", ErrInvalidBalance)
	}
	if !HasCents(d) {
		return fmt.Errorf("%w: %s has more than 2 decimal places", ErrInvalidBalance, d.String())
	}
	return nil
}

// HasCents reports whether d has no more than two decimal places.
func HasCents(d decimal.Decimal) bool {
	scaled := d.Mul(hundred)
	return scaled.Equal(scaled.Truncate(0))
}
