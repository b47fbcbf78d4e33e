package usecase

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/iho/bankledger/internal/domain"
)

// DemoUseCase seeds fresh accounts with a plausible transaction history.
// Everything goes through the real protocol so seeded ledgers obey the same
// invariants as organic ones; in particular a random withdrawal that
// overdraws simply lands as a failed entry.
type DemoUseCase struct {
	banking *BankingUseCase
	rng     *rand.Rand
}

// NewDemoUseCase creates a new DemoUseCase. rng may be nil, in which case
// the global source is used.
func NewDemoUseCase(banking *BankingUseCase, rng *rand.Rand) *DemoUseCase {
	return &DemoUseCase{
		banking: banking,
		rng:     rng,
	}
}

// SeedTransactions generates between 1 and maxCount random operations for
// the user. Seeding is best effort: individual failures are logged and
// skipped.
func (uc *DemoUseCase) SeedTransactions(ctx context.Context, userID int64, maxCount int) int {
	if maxCount <= 0 {
		maxCount = 10
	}

	count := uc.intN(maxCount) + 1

	seeded := 0
	for i := 0; i < count; i++ {
		// Amounts between $0.01 and $1000.00.
		amountCents := int64(uc.intN(100000) + 1)

		var err error
		if uc.intN(3) == 0 {
			_, err = uc.banking.Withdraw(ctx, userID, amountCents)
		} else {
			_, err = uc.banking.Deposit(ctx, userID, amountCents)
		}

		if err != nil && err != domain.ErrInsufficientFunds {
			log.Warn().Err(err).Int64("user_id", userID).Msg("demo seeding operation failed")
			continue
		}

		seeded++
	}

	return seeded
}

func (uc *DemoUseCase) intN(n int) int {
	if uc.rng != nil {
		return uc.rng.Intn(n)
	}

	return rand.Intn(n)
}
