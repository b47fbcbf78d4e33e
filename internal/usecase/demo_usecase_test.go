package usecase_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

func TestDemoUseCase_SeedTransactions(t *testing.T) {
	f := newBankingFixture(1)
	uc := usecase.NewDemoUseCase(f.uc, rand.New(rand.NewSource(1)))
	ctx := context.Background()

	seeded := uc.SeedTransactions(ctx, 1, 20)
	if seeded < 1 || seeded > 20 {
		t.Fatalf("expected between 1 and 20 seeded operations, got %d", seeded)
	}

	entries := f.entryRepo.Entries()
	if len(entries) != seeded {
		t.Fatalf("expected %d entries, got %d", seeded, len(entries))
	}

	// Seeded ledgers obey the same invariants as organic ones.
	var balance int64
	for _, e := range entries {
		if e.AmountCents <= 0 {
			t.Errorf("entry %d has non-positive amount %d", e.ID, e.AmountCents)
		}
		if !e.Status.IsTerminal() {
			t.Errorf("entry %d left in status %s", e.ID, e.Status)
		}
		if e.Status == domain.StatusCompleted {
			balance += e.SignedAmount()
		}
		if balance < 0 {
			t.Fatalf("balance went negative after entry %d", e.ID)
		}
	}
}

func TestDemoUseCase_SeedTransactions_UnknownUser(t *testing.T) {
	f := newBankingFixture(1)
	uc := usecase.NewDemoUseCase(f.uc, rand.New(rand.NewSource(1)))

	seeded := uc.SeedTransactions(context.Background(), 99, 5)
	if seeded != 0 {
		t.Fatalf("expected 0 seeded operations for unknown user, got %d", seeded)
	}

	if count, _ := f.entryRepo.CountByUser(context.Background(), 99); count != 0 {
		t.Errorf("expected no entries, got %d", count)
	}
}
