package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bank-account/internal/domain"
	"bank-account/internal/repository"
)

// MaxPINAttempts is how many wrong PIN entries an existing PIN tolerates.
const MaxPINAttempts = 3

// Prompter is the interactive boundary Authenticate reads secrets from and
// reports progress to.
type Prompter interface {
	ReadSecret(prompt string) (string, error)
	Notify(message string)
}

// LoadReport describes how Load obtained the account.
type LoadReport struct {
	// Recovered is set when stored data was unreadable and replaced by defaults.
	Recovered bool
	// Cause is the error that triggered the recovery.
	Cause error
	// PersistErr is set when writing the recovered defaults failed.
	PersistErr error
}

// Receipt is the outcome of a successful deposit or withdrawal.
type Receipt struct {
	Transaction domain.Transaction
	Balance     decimal.Decimal
	// PersistErr is non-nil when the change could not be saved. The
	// in-memory state keeps the change regardless.
	PersistErr error
}

// AccountService owns the account aggregate, its persistence and PIN gate.
type AccountService interface {
	Load(ctx context.Context) (LoadReport, error)
	Save(ctx context.Context) error
	Authenticate(ctx context.Context, prompter Prompter) error
	Balance(ctx context.Context) (decimal.Decimal, error)
	Deposit(ctx context.Context, amountText string) (*Receipt, error)
	Withdraw(ctx context.Context, amountText string) (*Receipt, error)
	History(ctx context.Context) ([]domain.Transaction, error)
}

type Config struct {
	Logger logrus.FieldLogger
	// Now stamps new transactions. Defaults to time.Now.
	Now func() time.Time
}

type accountService struct {
	repo repository.AccountRepository
	log  logrus.FieldLogger
	now  func() time.Time

	account       *domain.Account
	authenticated bool
	locked        bool
}

func NewAccountService(repo repository.AccountRepository, cfg Config) AccountService {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &accountService{
		repo: repo,
		log:  cfg.Logger.WithField("location", repo.Location()),
		now:  cfg.Now,
	}
}

func (s *accountService) Load(ctx context.Context) (LoadReport, error) {
	if s.locked {
		return LoadReport{}, ErrLockedOut
	}
	s.authenticated = false

	account, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.account = account
		s.log.WithField("transactions", len(account.Transactions)).Info("account loaded")
		return LoadReport{}, nil
	case errors.Is(err, repository.ErrNotFound):
		s.account = domain.NewAccount()
		s.log.Info("no stored account, starting fresh")
		return LoadReport{}, nil
	case ctx.Err() != nil:
		return LoadReport{}, err
	}

	s.log.WithError(err).Warn("unreadable account data, resetting to defaults")
	s.account = domain.NewAccount()
	report := LoadReport{Recovered: true, Cause: err}
	report.PersistErr = s.persist(ctx)
	return report, nil
}

func (s *accountService) Save(ctx context.Context) error {
	if s.account == nil {
		return ErrNotLoaded
	}
	return s.persist(ctx)
}

func (s *accountService) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.account); err != nil {
		s.log.WithError(err).Warn("save account data")
		return fmt.Errorf("save account data: %w", err)
	}
	return nil
}

func (s *accountService) Authenticate(ctx context.Context, prompter Prompter) error {
	switch {
	case s.locked:
		return ErrLockedOut
	case s.account == nil:
		return ErrNotLoaded
	case s.authenticated:
		return nil
	}

	if !s.account.HasPIN() {
		return s.createPIN(ctx, prompter)
	}
	return s.verifyPIN(ctx, prompter)
}

func (s *accountService) createPIN(ctx context.Context, prompter Prompter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		prompter.Notify("No PIN set. Please create a 4-digit PIN.")
		pin, err := prompter.ReadSecret("Enter new PIN: ")
		if err != nil {
			return fmt.Errorf("read new pin: %w", err)
		}
		confirm, err := prompter.ReadSecret("Confirm PIN: ")
		if err != nil {
			return fmt.Errorf("read pin confirmation: %w", err)
		}
		if pin != confirm || s.account.SetPIN(pin) != nil {
			prompter.Notify("PINs do not match or invalid. Try again.")
			continue
		}
		break
	}

	if err := s.persist(ctx); err != nil {
		prompter.Notify(fmt.Sprintf("Warning: %v", err))
	}
	s.authenticated = true
	s.log.Info("pin created")
	prompter.Notify("PIN set successfully!")
	return nil
}

func (s *accountService) verifyPIN(ctx context.Context, prompter Prompter) error {
	for left := MaxPINAttempts; left > 0; {
		if err := ctx.Err(); err != nil {
			return err
		}
		entered, err := prompter.ReadSecret("Enter your PIN: ")
		if err != nil {
			return fmt.Errorf("read pin: %w", err)
		}
		if s.account.MatchPIN(entered) {
			s.authenticated = true
			s.log.Info("pin verified")
			prompter.Notify("PIN verified. Welcome!")
			return nil
		}
		left--
		s.log.WithField("attempts_left", left).Warn("incorrect pin")
		prompter.Notify(fmt.Sprintf("Incorrect PIN. %d attempt(s) left.", left))
	}

	s.locked = true
	s.log.Error("pin attempts exhausted, locking out")
	return ErrLockedOut
}

func (s *accountService) ready() error {
	switch {
	case s.locked:
		return ErrLockedOut
	case s.account == nil:
		return ErrNotLoaded
	case !s.authenticated:
		return ErrNotAuthenticated
	}
	return nil
}

func (s *accountService) Balance(ctx context.Context) (decimal.Decimal, error) {
	if err := s.ready(); err != nil {
		return decimal.Decimal{}, err
	}
	return s.account.Balance, nil
}

func (s *accountService) Deposit(ctx context.Context, amountText string) (*Receipt, error) {
	return s.apply(ctx, amountText, s.account.Deposit)
}

func (s *accountService) Withdraw(ctx context.Context, amountText string) (*Receipt, error) {
	return s.apply(ctx, amountText, s.account.Withdraw)
}

func (s *accountService) apply(ctx context.Context, amountText string, op func(decimal.Decimal, time.Time) (domain.Transaction, error)) (*Receipt, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	amount, ok := domain.SanitizeAmount(amountText)
	if !ok {
		return nil, domain.ErrInvalidAmount
	}

	txn, err := op(amount, s.now())
	if err != nil {
		s.log.WithError(err).WithField("amount", amountText).Info("transaction rejected")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"type":          txn.Kind,
		"amount":        domain.FormatExact(txn.Amount),
		"balance_after": domain.FormatExact(txn.BalanceAfter),
	}).Info("transaction recorded")

	return &Receipt{
		Transaction: txn,
		Balance:     s.account.Balance,
		PersistErr:  s.persist(ctx),
	}, nil
}

func (s *accountService) History(ctx context.Context) ([]domain.Transaction, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(s.account.Transactions) == 0 {
		return nil, ErrNoTransactions
	}
	return s.account.History(), nil
}
