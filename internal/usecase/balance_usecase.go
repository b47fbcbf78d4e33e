package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// BalanceUseCase reconstructs balances from the ledger. A balance is always
// the signed sum of completed entries; nothing is ever read from a stored
// balance column because there is none.
type BalanceUseCase struct {
	entryRepo EntryRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(entryRepo EntryRepository) *BalanceUseCase {
	return &BalanceUseCase{entryRepo: entryRepo}
}

// CurrentBalance returns the user's balance in cents. A user with no
// completed entries has a balance of zero.
func (uc *BalanceUseCase) CurrentBalance(ctx context.Context, userID int64) (int64, error) {
	return uc.entryRepo.SumCompletedByUser(ctx, userID)
}

// HasSufficientBalance reports whether the balance covers amountCents.
// Equality is sufficient: draining an account to exactly zero is permitted.
func (uc *BalanceUseCase) HasSufficientBalance(ctx context.Context, userID, amountCents int64) (bool, error) {
	balance, err := uc.entryRepo.SumCompletedByUser(ctx, userID)
	if err != nil {
		return false, err
	}

	return balance >= amountCents, nil
}

// BalanceAtEntry returns the balance immediately after the given entry,
// counting completed entries up to and including it in (created_at, entry_id)
// order. The store evaluates this as one consistent aggregate.
func (uc *BalanceUseCase) BalanceAtEntry(ctx context.Context, userID, entryID int64) (int64, error) {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return 0, err
	}

	if entry.UserID != userID {
		return 0, domain.ErrEntryNotFound
	}

	return uc.entryRepo.SumCompletedAtEntry(ctx, userID, entryID)
}

// BalancedEntry pairs an entry with the running balance as of that entry.
type BalancedEntry struct {
	Entry        *domain.Entry
	BalanceCents int64
}

// BalanceSeries annotates a page of one user's entries, ordered newest
// first, with a running balance per entry. Only the newest entry costs an
// aggregate query; the rest are derived by walking backward and reversing
// each completed entry's effect. Entries that never completed do not change
// the running balance and carry the balance as of the previous completed
// entry.
func (uc *BalanceUseCase) BalanceSeries(ctx context.Context, entries []*domain.Entry) ([]BalancedEntry, error) {
	if len(entries) == 0 {
		return []BalancedEntry{}, nil
	}

	newest := entries[0]

	balance, err := uc.entryRepo.SumCompletedAtEntry(ctx, newest.UserID, newest.ID)
	if err != nil {
		return nil, err
	}

	result := make([]BalancedEntry, 0, len(entries))
	result = append(result, BalancedEntry{Entry: newest, BalanceCents: balance})

	for i := 1; i < len(entries); i++ {
		prev := entries[i-1]
		if prev.Status == domain.StatusCompleted {
			balance -= prev.SignedAmount()
		}

		result = append(result, BalancedEntry{Entry: entries[i], BalanceCents: balance})
	}

	return result, nil
}
