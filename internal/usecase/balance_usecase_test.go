package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

func seedEntry(t *testing.T, repo *mocks.MockEntryRepository, userID, amountCents int64, kind domain.EntryKind, status domain.EntryStatus, at time.Time) *domain.Entry {
	t.Helper()

	entry := &domain.Entry{
		UserID:      userID,
		AmountCents: amountCents,
		Kind:        kind,
		Status:      domain.StatusPending,
		CreatedAt:   at,
	}

	if err := repo.Create(context.Background(), nil, entry); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if err := repo.SetStatus(context.Background(), nil, entry.ID, status); err != nil {
		t.Fatalf("seed entry status: %v", err)
	}

	return entry
}

func TestBalanceUseCase_CurrentBalance(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	uc := usecase.NewBalanceUseCase(repo)
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	seedEntry(t, repo, 1, 20000, domain.KindDeposit, domain.StatusCompleted, base)
	seedEntry(t, repo, 1, 5000, domain.KindWithdrawal, domain.StatusCompleted, base.Add(time.Minute))
	seedEntry(t, repo, 1, 9999, domain.KindWithdrawal, domain.StatusFailed, base.Add(2*time.Minute))
	seedEntry(t, repo, 1, 3000, domain.KindTransferOut, domain.StatusCompleted, base.Add(3*time.Minute))
	seedEntry(t, repo, 2, 7000, domain.KindTransferIn, domain.StatusCompleted, base.Add(4*time.Minute))

	balance, err := uc.CurrentBalance(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 20000 - 5000 - 3000; the failed withdrawal does not count.
	if balance != 12000 {
		t.Errorf("expected balance 12000, got %d", balance)
	}

	balance, err = uc.CurrentBalance(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 0 {
		t.Errorf("expected empty ledger balance 0, got %d", balance)
	}
}

func TestBalanceUseCase_HasSufficientBalance(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	uc := usecase.NewBalanceUseCase(repo)
	ctx := context.Background()

	seedEntry(t, repo, 1, 10000, domain.KindDeposit, domain.StatusCompleted, time.Now().UTC())

	tests := []struct {
		name        string
		amountCents int64
		want        bool
	}{
		{"below balance", 9999, true},
		{"exactly the balance", 10000, true},
		{"above balance", 10001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.HasSufficientBalance(ctx, 1, tt.amountCents)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBalanceUseCase_BalanceAtEntry(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	uc := usecase.NewBalanceUseCase(repo)
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	e1 := seedEntry(t, repo, 1, 20000, domain.KindDeposit, domain.StatusCompleted, base)
	// Same instant as e3; the entry id breaks the tie.
	e2 := seedEntry(t, repo, 1, 5000, domain.KindWithdrawal, domain.StatusCompleted, base.Add(time.Minute))
	e3 := seedEntry(t, repo, 1, 1000, domain.KindDeposit, domain.StatusCompleted, base.Add(time.Minute))
	e4 := seedEntry(t, repo, 1, 7777, domain.KindWithdrawal, domain.StatusFailed, base.Add(2*time.Minute))

	tests := []struct {
		name    string
		entryID int64
		want    int64
	}{
		{"after first deposit", e1.ID, 20000},
		{"same timestamp, lower id excludes later entry", e2.ID, 15000},
		{"same timestamp, higher id includes both", e3.ID, 16000},
		{"failed entry carries balance through", e4.ID, 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.BalanceAtEntry(ctx, 1, tt.entryID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}

	t.Run("entry of another user", func(t *testing.T) {
		_, err := uc.BalanceAtEntry(ctx, 2, e1.ID)
		if !errors.Is(err, domain.ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, err := uc.BalanceAtEntry(ctx, 1, 999)
		if !errors.Is(err, domain.ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})
}

func TestBalanceUseCase_BalanceSeries(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	uc := usecase.NewBalanceUseCase(repo)
	ctx := context.Background()
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	seedEntry(t, repo, 1, 20000, domain.KindDeposit, domain.StatusCompleted, base)
	seedEntry(t, repo, 1, 5000, domain.KindWithdrawal, domain.StatusFailed, base.Add(time.Minute))
	seedEntry(t, repo, 1, 10000, domain.KindDeposit, domain.StatusCompleted, base.Add(2*time.Minute))
	seedEntry(t, repo, 1, 4000, domain.KindTransferOut, domain.StatusCompleted, base.Add(3*time.Minute))

	entries, err := repo.ListByUser(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	series, err := uc.BalanceSeries(ctx, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(series))
	}

	// Newest first: 26000 after the transfer, 30000 after the second
	// deposit, 20000 carried through the failed withdrawal, 20000 after
	// the first deposit.
	want := []int64{26000, 30000, 20000, 20000}
	for i, w := range want {
		if series[i].BalanceCents != w {
			t.Errorf("series[%d]: expected balance %d, got %d", i, w, series[i].BalanceCents)
		}
	}

	// The backward walk must agree with the aggregate at every position.
	for i, be := range series {
		direct, err := uc.BalanceAtEntry(ctx, 1, be.Entry.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if be.BalanceCents != direct {
			t.Errorf("series[%d]: backward walk %d disagrees with aggregate %d", i, be.BalanceCents, direct)
		}
	}
}

func TestBalanceUseCase_BalanceSeries_Empty(t *testing.T) {
	uc := usecase.NewBalanceUseCase(mocks.NewMockEntryRepository())

	series, err := uc.BalanceSeries(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d entries", len(series))
	}
}
