package repository

import (
	"context"
	"errors"

	"bank-account/internal/domain"
)

var (
	// ErrNotFound indicates that nothing has been persisted at the location yet.
	ErrNotFound = errors.New("account data not found")
	// ErrCorrupt indicates the location exists but does not hold a readable aggregate.
	ErrCorrupt = errors.New("account data is corrupt")
)

// AccountRepository persists the whole account aggregate as one unit.
type AccountRepository interface {
	// Load returns ErrNotFound when nothing is stored and an error wrapping
	// ErrCorrupt when the stored data cannot be decoded.
	Load(ctx context.Context) (*domain.Account, error)
	// Save fully replaces whatever was stored before.
	Save(ctx context.Context, account *domain.Account) error
	// Location describes where the data lives, for log and warning output.
	Location() string
}
