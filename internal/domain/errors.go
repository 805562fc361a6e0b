package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for unparsable, zero or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount: must be a positive number")
	// ErrInsufficientBalance is matched by InsufficientBalanceError via errors.Is.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidPIN is returned when a PIN is not exactly four decimal digits.
	ErrInvalidPIN = errors.New("pin must be exactly 4 digits")
)

// InsufficientBalanceError reports a withdrawal larger than the balance.
type InsufficientBalanceError struct {
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s", FormatMoney(e.Available))
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
