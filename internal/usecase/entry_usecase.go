package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// EntryUseCase serves ledger history reads.
type EntryUseCase struct {
	entryRepo EntryRepository
	balance   *BalanceUseCase
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository, balance *BalanceUseCase) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
		balance:   balance,
	}
}

// ListEntriesInput represents input for listing entries. Pages are
// one-based.
type ListEntriesInput struct {
	UserID int64
	Page   int
	Size   int
}

// EntryPage is one page of a user's ledger history, newest first, each entry
// annotated with the running balance as of that entry.
type EntryPage struct {
	Entries    []BalancedEntry
	Page       int
	Size       int
	TotalCount int64
}

// ListEntries returns a page of the user's entries ordered by
// (created_at, entry_id) descending with running balances attached.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) (*EntryPage, error) {
	page, size := domain.ValidatePagination(input.Page, input.Size)
	offset := (page - 1) * size

	entries, err := uc.entryRepo.ListByUser(ctx, input.UserID, size, offset)
	if err != nil {
		return nil, err
	}

	total, err := uc.entryRepo.CountByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	balanced, err := uc.balance.BalanceSeries(ctx, entries)
	if err != nil {
		return nil, err
	}

	return &EntryPage{
		Entries:    balanced,
		Page:       page,
		Size:       size,
		TotalCount: total,
	}, nil
}

// GetEntry retrieves one of the user's entries by id.
func (uc *EntryUseCase) GetEntry(ctx context.Context, userID, entryID int64) (*domain.Entry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.UserID != userID {
		return nil, domain.ErrEntryNotFound
	}

	return entry, nil
}
