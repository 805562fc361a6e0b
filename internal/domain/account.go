package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the persisted and displayed form of Transaction.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp reads the fixed layout in local time. Missing or
// unrecognised text yields the zero time rather than an error, so one odd
// log entry does not make the whole account unreadable.
func ParseTimestamp(text string) time.Time {
	at, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}
	}
	return at
}

// FormatTimestamp is the inverse of ParseTimestamp; the zero time renders empty.
func FormatTimestamp(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.Format(TimestampLayout)
}

// Kind tells deposits and withdrawals apart.
type Kind string

const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
)

// Valid reports whether k is one of the known transaction kinds.
func (k Kind) Valid() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is an immutable entry in the account log.
type Transaction struct {
	Kind         Kind
	Amount       decimal.Decimal
	Timestamp    time.Time
	BalanceAfter decimal.Decimal
}

// Account is the single persisted aggregate: balance, transaction log and PIN.
// A nil PIN means no PIN has been created yet.
type Account struct {
	Balance      decimal.Decimal
	Transactions []Transaction
	PIN          *string
}

// NewAccount returns the default aggregate used when nothing is stored yet.
func NewAccount() *Account {
	return &Account{
		Balance:      decimal.Zero,
		Transactions: []Transaction{},
	}
}

// HasPIN reports whether a PIN has been created.
func (a *Account) HasPIN() bool {
	return a.PIN != nil
}

// SetPIN stores pin after checking it is exactly four decimal digits.
func (a *Account) SetPIN(pin string) error {
	if !ValidPIN(pin) {
		return ErrInvalidPIN
	}
	a.PIN = &pin
	return nil
}

// MatchPIN reports whether entered equals the stored PIN.
func (a *Account) MatchPIN(entered string) bool {
	return a.PIN != nil && *a.PIN == entered
}

// Deposit credits amount and appends the matching log entry.
func (a *Account) Deposit(amount decimal.Decimal, at time.Time) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return a.record(KindDeposit, amount, at), nil
}

// Withdraw debits amount. Balance is left untouched when amount exceeds it.
func (a *Account) Withdraw(amount decimal.Decimal, at time.Time) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return Transaction{}, &InsufficientBalanceError{Available: a.Balance}
	}
	a.Balance = a.Balance.Sub(amount)
	return a.record(KindWithdrawal, amount, at), nil
}

func (a *Account) record(kind Kind, amount decimal.Decimal, at time.Time) Transaction {
	txn := Transaction{
		Kind:         kind,
		Amount:       amount,
		Timestamp:    at.Truncate(time.Second),
		BalanceAfter: a.Balance,
	}
	a.Transactions = append(a.Transactions, txn)
	return txn
}

// History returns a copy of the log in insertion order.
func (a *Account) History() []Transaction {
	out := make([]Transaction, len(a.Transactions))
	copy(out, a.Transactions)
	return out
}

// Clone returns a deep copy of the aggregate.
func (a *Account) Clone() *Account {
	cp := &Account{
		Balance:      a.Balance,
		Transactions: a.History(),
	}
	if a.PIN != nil {
		pin := *a.PIN
		cp.PIN = &pin
	}
	return cp
}

// Validate checks the structural invariants of a decoded aggregate.
func (a *Account) Validate() error {
	if a.Balance.IsNegative() {
		return fmt.Errorf("negative balance %s", a.Balance)
	}
	if a.PIN != nil && !ValidPIN(*a.PIN) {
		return ErrInvalidPIN
	}
	for i, txn := range a.Transactions {
		switch {
		case !txn.Kind.Valid():
			return fmt.Errorf("transaction %d: unknown type %q", i, txn.Kind)
		case !txn.Amount.IsPositive():
			return fmt.Errorf("transaction %d: amount %s is not positive", i, txn.Amount)
		case txn.BalanceAfter.IsNegative():
			return fmt.Errorf("transaction %d: negative balance_after %s", i, txn.BalanceAfter)
		}
	}
	return nil
}
