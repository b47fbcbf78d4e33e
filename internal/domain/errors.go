package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer to self")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrUnknownEntryKind  = errors.New("unknown entry kind")

	// Directory errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already taken")

	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
