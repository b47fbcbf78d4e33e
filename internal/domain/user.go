package domain

import "time"

// User is an account holder in the directory. There is no stored balance;
// balances are always derived from the ledger.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
}
