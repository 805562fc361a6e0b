package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bank-account/internal/domain"
	"bank-account/internal/repository"
)

const createAccountTables = `
CREATE TABLE IF NOT EXISTS account (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	balance TEXT NOT NULL,
	pin TEXT,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	seq INTEGER PRIMARY KEY,
	type TEXT NOT NULL,
	amount TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	balance_after TEXT NOT NULL
);
`

// AccountRepository keeps the aggregate in two tables: a single account row
// and the ordered transaction log. When the file at path is not a sqlite
// database, Load reports ErrCorrupt and the next Save recreates the file.
type AccountRepository struct {
	path    string
	db      *sql.DB
	openErr error
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository opens the database at path and creates the tables.
func NewAccountRepository(ctx context.Context, path string) (*AccountRepository, error) {
	r := &AccountRepository{path: path}
	if err := r.open(ctx); err != nil {
		if !IsNotADatabase(err) {
			return nil, err
		}
		r.openErr = err
	}
	return r, nil
}

func (r *AccountRepository) open(ctx context.Context) error {
	db, err := Open(r.path)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, createAccountTables); err != nil {
		db.Close()
		return fmt.Errorf("create account tables: %w", err)
	}
	r.db = db
	r.openErr = nil
	return nil
}

// recreate replaces an unreadable file with an empty database.
func (r *AccountRepository) recreate(ctx context.Context) error {
	if err := removeDatabase(r.path); err != nil {
		return err
	}
	return r.open(ctx)
}

func (r *AccountRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *AccountRepository) Location() string {
	return r.path
}

func (r *AccountRepository) Load(ctx context.Context) (*domain.Account, error) {
	if r.db == nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrCorrupt, r.path, r.openErr)
	}

	var (
		balanceText string
		pin         sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `SELECT balance, pin FROM account WHERE id = 1`).Scan(&balanceText, &pin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query account: %v", repository.ErrCorrupt, err)
	}

	account := domain.NewAccount()
	if account.Balance, err = decimal.NewFromString(balanceText); err != nil {
		return nil, fmt.Errorf("%w: balance %q: %v", repository.ErrCorrupt, balanceText, err)
	}
	if pin.Valid {
		p := pin.String
		account.PIN = &p
	}

	txns, err := r.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	account.Transactions = txns

	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorrupt, err)
	}
	return account, nil
}

func (r *AccountRepository) loadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT seq, type, amount, timestamp, balance_after
FROM transactions
ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query transactions: %v", repository.ErrCorrupt, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		var (
			seq                          int64
			kind, amount, stamp, balance string
		)
		if err := rows.Scan(&seq, &kind, &amount, &stamp, &balance); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", repository.ErrCorrupt, err)
		}
		txn, err := parseTransaction(kind, amount, stamp, balance)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", repository.ErrCorrupt, seq, err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate transactions: %v", repository.ErrCorrupt, err)
	}
	return txns, nil
}

func parseTransaction(kind, amount, stamp, balance string) (domain.Transaction, error) {
	txn := domain.Transaction{Kind: domain.Kind(kind)}
	var err error
	if txn.Amount, err = decimal.NewFromString(amount); err != nil {
		return txn, fmt.Errorf("amount: %w", err)
	}
	if txn.BalanceAfter, err = decimal.NewFromString(balance); err != nil {
		return txn, fmt.Errorf("balance_after: %w", err)
	}
	txn.Timestamp = domain.ParseTimestamp(stamp)
	return txn, nil
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	if r.db == nil {
		if err := r.recreate(ctx); err != nil {
			return fmt.Errorf("recreate database: %w", err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	var pin sql.NullString
	if account.PIN != nil {
		pin = sql.NullString{String: *account.PIN, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO account (id, balance, pin, updated_at)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET balance = excluded.balance, pin = excluded.pin, updated_at = excluded.updated_at`,
		domain.FormatExact(account.Balance),
		pin,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO transactions (seq, type, amount, timestamp, balance_after)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, txn := range account.Transactions {
		if _, err := stmt.ExecContext(ctx,
			i+1,
			string(txn.Kind),
			domain.FormatExact(txn.Amount),
			domain.FormatTimestamp(txn.Timestamp),
			domain.FormatExact(txn.BalanceAfter),
		); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
