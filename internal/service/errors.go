package service

import "errors"

var (
	// ErrLockedOut is returned once the PIN attempts are exhausted. The
	// service refuses every further operation after it.
	ErrLockedOut = errors.New("too many wrong PIN attempts")
	// ErrNotAuthenticated is returned for account operations before Authenticate succeeds.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotLoaded is returned when an operation runs before Load.
	ErrNotLoaded = errors.New("account not loaded")
	// ErrNoTransactions is returned by History for an empty log.
	ErrNoTransactions = errors.New("no transactions yet")
)
