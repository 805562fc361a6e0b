package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bank-account/internal/domain"
	"bank-account/internal/service"
)

var rule40 = strings.Repeat("=", 40)

// Run authenticates and then serves the menu until the user exits or input
// ends. ErrLockedOut from authentication is returned to the caller.
func (c *Console) Run(ctx context.Context, svc service.AccountService) error {
	fmt.Fprintf(c.out, "\n%s\n   Welcome to Bank Account Program\n%s\n", rule40, rule40)

	if err := svc.Authenticate(ctx, c); err != nil {
		if errors.Is(err, service.ErrLockedOut) {
			c.Notify("Too many wrong attempts. Exiting.")
		}
		return err
	}
	fmt.Fprintln(c.out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "\n1. Show balance\n2. Deposit\n3. Withdraw\n4. Transaction History\n5. Exit\n")
		choice, err := c.ReadLine("\nEnter your choice (1-5): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = c.showBalance(ctx, svc)
		case "2":
			err = c.transact(ctx, "Enter amount to deposit: $", "Deposit", svc.Deposit)
		case "3":
			err = c.transact(ctx, "Enter amount to withdraw: $", "Withdrawal", svc.Withdraw)
		case "4":
			err = c.showHistory(ctx, svc)
		case "5":
			c.Notify("\nThank you for using Bank Program. Goodbye!")
			return nil
		default:
			c.Notify("Invalid choice! Please enter 1-5.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) showBalance(ctx context.Context, svc service.AccountService) error {
	balance, err := svc.Balance(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\n%s\nYour current balance: %s\n%s\n", rule40, domain.FormatMoney(balance), rule40)
	return nil
}

func (c *Console) transact(ctx context.Context, prompt, label string, op func(context.Context, string) (*service.Receipt, error)) error {
	text, err := c.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	receipt, err := op(ctx, text)
	var short *domain.InsufficientBalanceError
	switch {
	case errors.As(err, &short):
		c.Notify(fmt.Sprintf("Insufficient balance! Available: %s", domain.FormatMoney(short.Available)))
		return nil
	case errors.Is(err, domain.ErrInvalidAmount):
		c.Notify("Invalid amount! Must be a positive number.")
		return nil
	case err != nil:
		return err
	}

	c.Notify(fmt.Sprintf("%s successful! New balance: %s", label, domain.FormatMoney(receipt.Balance)))
	c.warnPersist(receipt.PersistErr)
	return nil
}

func (c *Console) showHistory(ctx context.Context, svc service.AccountService) error {
	txns, err := svc.History(ctx)
	if errors.Is(err, service.ErrNoTransactions) {
		c.Notify("\nNo transactions yet!")
		return nil
	}
	if err != nil {
		return err
	}
	WriteHistory(c.out, txns)
	return nil
}

// WriteHistory renders txns as a fixed-width table.
func WriteHistory(w io.Writer, txns []domain.Transaction) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "%-15s %-12s %-12s %-25s\n", "Transaction Type", "Amount", "Balance", "Date & Time")
	fmt.Fprintln(w, rule)
	for _, txn := range txns {
		fmt.Fprintf(w, "%-15s $%-11s $%-11s %-25s\n",
			txn.Kind,
			txn.Amount.StringFixedBank(2),
			txn.BalanceAfter.StringFixedBank(2),
			domain.FormatTimestamp(txn.Timestamp),
		)
	}
	fmt.Fprintln(w, rule)
}

// ReportLoad tells the user when stored data had to be reset.
func (c *Console) ReportLoad(report service.LoadReport) {
	if !report.Recovered {
		return
	}
	c.Notify(fmt.Sprintf("Warning: error loading data, resetting account: %v", report.Cause))
	c.warnPersist(report.PersistErr)
}

func (c *Console) warnPersist(err error) {
	if err != nil {
		c.Notify(fmt.Sprintf("Warning: %v", err))
	}
}
