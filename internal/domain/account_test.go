package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var at = time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDepositWithdraw(t *testing.T) {
	a := NewAccount()

	txn, err := a.Deposit(dec("100.00"), at)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Balance.Equal(dec("100")) || txn.Kind != KindDeposit || !txn.BalanceAfter.Equal(a.Balance) {
		t.Fatalf("after deposit: balance=%s txn=%+v", a.Balance, txn)
	}

	txn, err = a.Withdraw(dec("50"), at.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Balance.Equal(dec("50")) || txn.Kind != KindWithdrawal || !txn.BalanceAfter.Equal(dec("50")) {
		t.Fatalf("after withdraw: balance=%s txn=%+v", a.Balance, txn)
	}

	// withdrawing the whole balance is allowed and leaves zero
	if _, err := a.Withdraw(dec("50"), at); err != nil {
		t.Fatalf("withdraw all: %v", err)
	}
	if !a.Balance.IsZero() {
		t.Fatalf("balance=%s want 0", a.Balance)
	}
	if len(a.Transactions) != 3 {
		t.Fatalf("transactions=%d want 3", len(a.Transactions))
	}
}

func TestWithdrawInsufficient(t *testing.T) {
	a := NewAccount()
	_, _ = a.Deposit(dec("50"), at)

	_, err := a.Withdraw(dec("50.01"), at)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("want ErrInsufficientBalance, got %v", err)
	}
	var short *InsufficientBalanceError
	if !errors.As(err, &short) || !short.Available.Equal(dec("50")) {
		t.Fatalf("want available 50, got %v", err)
	}
	if !a.Balance.Equal(dec("50")) || len(a.Transactions) != 1 {
		t.Fatalf("state changed: balance=%s txns=%d", a.Balance, len(a.Transactions))
	}
}

func TestNonPositiveAmountRejected(t *testing.T) {
	a := NewAccount()
	for _, amt := range []string{"0", "-1", "-0.01"} {
		if _, err := a.Deposit(dec(amt), at); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Deposit(%s) want ErrInvalidAmount, got %v", amt, err)
		}
		if _, err := a.Withdraw(dec(amt), at); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Withdraw(%s) want ErrInvalidAmount, got %v", amt, err)
		}
	}
	if !a.Balance.IsZero() || len(a.Transactions) != 0 {
		t.Fatalf("state changed: %+v", a)
	}
}

func TestTimestampTruncatedToSecond(t *testing.T) {
	a := NewAccount()
	txn, _ := a.Deposit(dec("1"), at.Add(750*time.Millisecond))
	if !txn.Timestamp.Equal(at) {
		t.Fatalf("timestamp=%v want %v", txn.Timestamp, at)
	}
}

func TestHistoryIsACopy(t *testing.T) {
	a := NewAccount()
	_, _ = a.Deposit(dec("10"), at)

	h := a.History()
	h[0].Amount = dec("999")
	if !a.Transactions[0].Amount.Equal(dec("10")) {
		t.Fatalf("History leaked internal slice")
	}
}

func TestSetPIN(t *testing.T) {
	a := NewAccount()
	if a.HasPIN() {
		t.Fatal("new account should have no pin")
	}
	if err := a.SetPIN("12a4"); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("want ErrInvalidPIN, got %v", err)
	}
	if err := a.SetPIN("1234"); err != nil {
		t.Fatal(err)
	}
	if !a.MatchPIN("1234") || a.MatchPIN("4321") {
		t.Fatal("pin match mismatch")
	}
}

func TestValidate(t *testing.T) {
	bad := "12"
	cases := map[string]*Account{
		"negative balance": {Balance: dec("-1")},
		"short pin":        {Balance: dec("0"), PIN: &bad},
		"unknown kind": {Balance: dec("1"), Transactions: []Transaction{
			{Kind: "REFUND", Amount: dec("1"), Timestamp: at, BalanceAfter: dec("1")},
		}},
		"zero amount": {Balance: dec("1"), Transactions: []Transaction{
			{Kind: KindDeposit, Amount: dec("0"), Timestamp: at, BalanceAfter: dec("1")},
		}},
		"negative balance_after": {Balance: dec("1"), Transactions: []Transaction{
			{Kind: KindWithdrawal, Amount: dec("1"), Timestamp: at, BalanceAfter: dec("-1")},
		}},
	}
	for name, a := range cases {
		if err := a.Validate(); err == nil {
			t.Errorf("%s: Validate()=nil want error", name)
		}
	}

	good := NewAccount()
	_, _ = good.Deposit(dec("5"), at)
	if err := good.Validate(); err != nil {
		t.Fatalf("valid account: %v", err)
	}
}
