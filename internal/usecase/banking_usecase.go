package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// BankingUseCase implements the deposit/withdraw/transfer protocol. Every
// operation runs as one unit of work: lock the involved user rows in
// ascending id order, read the derived balance under those locks, append the
// ledger entries, transition them to a terminal status, commit. Entries are
// never observable in pending state outside the transaction.
type BankingUseCase struct {
	txManager  TransactionManager
	userRepo   UserRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	retrier    Retrier
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewBankingUseCase creates a new BankingUseCase. outboxRepo, auditRepo,
// retrier and metrics may be nil; the protocol itself does not depend on
// them.
func NewBankingUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
) *BankingUseCase {
	return &BankingUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		retrier:    retrier,
		idGen:      idGen,
		metrics:    m,
	}
}

// DepositResult is the outcome of a deposit.
type DepositResult struct {
	EntryID          int64
	NewBalanceCents  int64
	PrevBalanceCents int64
}

// Deposit appends a completed deposit entry and returns the new balance.
// Deposits cannot fail on balance grounds.
func (uc *BankingUseCase) Deposit(ctx context.Context, userID, amountCents int64) (*DepositResult, error) {
	if amountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var result *DepositResult

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		users, err := uc.userRepo.LockByIDs(ctx, tx, []int64{userID})
		if err != nil {
			return err
		}
		if len(users) != 1 {
			return domain.ErrUserNotFound
		}

		balance, err := uc.entryRepo.SumCompletedByUserTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		entry := &domain.Entry{
			UserID:      userID,
			AmountCents: amountCents,
			Kind:        domain.KindDeposit,
			Status:      domain.StatusPending,
		}
		if err := entry.Validate(); err != nil {
			return err
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		if err := uc.entryRepo.SetStatus(ctx, tx, entry.ID, domain.StatusCompleted); err != nil {
			return err
		}

		if err := uc.enqueueEntryCompleted(ctx, tx, entry); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &DepositResult{
			EntryID:          entry.ID,
			NewBalanceCents:  balance + amountCents,
			PrevBalanceCents: balance,
		}

		return nil
	})
	if err != nil {
		uc.audit(ctx, userID, domain.AuditActionDeposit, 0, domain.AuditStatusError, err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsCreated.Inc()
	}
	uc.audit(ctx, userID, domain.AuditActionDeposit, result.EntryID, domain.AuditStatusSuccess, nil)

	return result, nil
}

// WithdrawResult is the outcome of a withdrawal. A withdrawal that fails on
// balance grounds is not an error: the failed entry is persisted for audit
// and the unchanged balance is returned.
type WithdrawResult struct {
	EntryID         int64
	NewBalanceCents int64
	Completed       bool
}

// Withdraw appends a withdrawal entry, completed when the balance covers it
// and failed otherwise. The failed attempt is deliberately kept in the
// ledger rather than silently dropped.
func (uc *BankingUseCase) Withdraw(ctx context.Context, userID, amountCents int64) (*WithdrawResult, error) {
	if amountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var result *WithdrawResult

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		users, err := uc.userRepo.LockByIDs(ctx, tx, []int64{userID})
		if err != nil {
			return err
		}
		if len(users) != 1 {
			return domain.ErrUserNotFound
		}

		balance, err := uc.entryRepo.SumCompletedByUserTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		entry := &domain.Entry{
			UserID:      userID,
			AmountCents: amountCents,
			Kind:        domain.KindWithdrawal,
			Status:      domain.StatusPending,
		}
		if err := entry.Validate(); err != nil {
			return err
		}

		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return err
		}

		completed := balance >= amountCents

		status := domain.StatusFailed
		if completed {
			status = domain.StatusCompleted
		}

		if err := uc.entryRepo.SetStatus(ctx, tx, entry.ID, status); err != nil {
			return err
		}

		if completed {
			if err := uc.enqueueEntryCompleted(ctx, tx, entry); err != nil {
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		newBalance := balance
		if completed {
			newBalance = balance - amountCents
		}

		result = &WithdrawResult{
			EntryID:         entry.ID,
			NewBalanceCents: newBalance,
			Completed:       completed,
		}

		return nil
	})
	if err != nil {
		uc.audit(ctx, userID, domain.AuditActionWithdraw, 0, domain.AuditStatusError, err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsCreated.WithLabelValues(withdrawResultLabel(result.Completed)).Inc()
	}

	auditStatus := domain.AuditStatusSuccess
	if !result.Completed {
		auditStatus = domain.AuditStatusFailure
	}
	uc.audit(ctx, userID, domain.AuditActionWithdraw, result.EntryID, auditStatus, nil)

	return result, nil
}

// TransferResult is the outcome of a successful transfer. The outgoing
// (sender-side) entry id is the transfer's reference id.
type TransferResult struct {
	OutgoingEntryID  int64
	IncomingEntryID  int64
	SenderNewBalance int64
}

// Transfer moves amountCents from sender to recipient. Both sides of the
// attempt are always persisted with matching terminal statuses, so every
// attempted transfer is visible from both users' histories. On insufficient
// funds both entries are marked failed, the transaction commits, and
// domain.ErrInsufficientFunds is returned to the caller.
func (uc *BankingUseCase) Transfer(ctx context.Context, senderID, recipientID, amountCents int64) (*TransferResult, error) {
	if amountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if senderID == recipientID {
		return nil, domain.ErrSelfTransfer
	}

	var result *TransferResult

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock both rows in ascending id order. LockByIDs orders
		// internally, so two transfers over the same pair in opposite
		// directions acquire locks in the same order.
		users, err := uc.userRepo.LockByIDs(ctx, tx, []int64{senderID, recipientID})
		if err != nil {
			return err
		}
		if len(users) != 2 {
			return domain.ErrUserNotFound
		}

		balance, err := uc.entryRepo.SumCompletedByUserTx(ctx, tx, senderID)
		if err != nil {
			return err
		}

		outgoing := &domain.Entry{
			UserID:      senderID,
			AmountCents: amountCents,
			Kind:        domain.KindTransferOut,
			Status:      domain.StatusPending,
		}
		incoming := &domain.Entry{
			UserID:      recipientID,
			AmountCents: amountCents,
			Kind:        domain.KindTransferIn,
			Status:      domain.StatusPending,
		}

		for _, e := range []*domain.Entry{outgoing, incoming} {
			if err := e.Validate(); err != nil {
				return err
			}
			if err := uc.entryRepo.Create(ctx, tx, e); err != nil {
				return err
			}
		}

		if balance < amountCents {
			// Both sides fail together; the attempt stays auditable.
			for _, e := range []*domain.Entry{outgoing, incoming} {
				if err := uc.entryRepo.SetStatus(ctx, tx, e.ID, domain.StatusFailed); err != nil {
					return err
				}
			}

			if err := uc.enqueueTransferFailed(ctx, tx, outgoing, incoming); err != nil {
				return err
			}

			if err := tx.Commit(ctx); err != nil {
				return err
			}

			return domain.ErrInsufficientFunds
		}

		for _, e := range []*domain.Entry{outgoing, incoming} {
			if err := uc.entryRepo.SetStatus(ctx, tx, e.ID, domain.StatusCompleted); err != nil {
				return err
			}
		}

		if err := uc.enqueueTransferCompleted(ctx, tx, outgoing, incoming); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransferResult{
			OutgoingEntryID:  outgoing.ID,
			IncomingEntryID:  incoming.ID,
			SenderNewBalance: balance - amountCents,
		}

		return nil
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransfersCreated.WithLabelValues("failed").Inc()
		}
		uc.audit(ctx, senderID, domain.AuditActionTransfer, 0, domain.AuditStatusFailure, err)

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.WithLabelValues("completed").Inc()
	}
	uc.audit(ctx, senderID, domain.AuditActionTransfer, result.OutgoingEntryID, domain.AuditStatusSuccess, nil)

	return result, nil
}

// run executes op through the retrier when one is configured. Only transient
// storage errors are retried; domain errors surface immediately.
func (uc *BankingUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

func (uc *BankingUseCase) audit(ctx context.Context, userID int64, action domain.AuditAction, entryID int64, status domain.AuditStatus, opErr error) {
	if uc.auditRepo == nil {
		return
	}

	entry := &domain.AuditLog{
		UserID:       userID,
		Action:       string(action),
		ResourceType: "entry",
		Status:       string(status),
		CreatedAt:    time.Now().UTC(),
	}

	if uc.idGen != nil {
		entry.ID = uc.idGen.Generate()
	}

	if entryID != 0 {
		entry.ResourceID = formatID(entryID)
	}

	if opErr != nil {
		entry.ErrorMessage = opErr.Error()
	}

	if err := uc.auditRepo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", string(action)).Msg("failed to write audit log")
	}
}

func (uc *BankingUseCase) enqueueEntryCompleted(ctx context.Context, tx Transaction, entry *domain.Entry) error {
	if uc.outboxRepo == nil {
		return nil
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   formatID(entry.ID),
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryCompleted,
		Payload: map[string]any{
			"entry_id":     entry.ID,
			"user_id":      entry.UserID,
			"kind":         string(entry.Kind),
			"amount_cents": entry.AmountCents,
		},
		CreatedAt: time.Now().UTC(),
	})
}

func (uc *BankingUseCase) enqueueTransferCompleted(ctx context.Context, tx Transaction, outgoing, incoming *domain.Entry) error {
	if uc.outboxRepo == nil {
		return nil
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   formatID(outgoing.ID),
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeTransferComplete,
		Payload: map[string]any{
			"outgoing_entry_id": outgoing.ID,
			"incoming_entry_id": incoming.ID,
			"sender_id":         outgoing.UserID,
			"recipient_id":      incoming.UserID,
			"amount_cents":      outgoing.AmountCents,
		},
		CreatedAt: time.Now().UTC(),
	})
}

func (uc *BankingUseCase) enqueueTransferFailed(ctx context.Context, tx Transaction, outgoing, incoming *domain.Entry) error {
	if uc.outboxRepo == nil {
		return nil
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   formatID(outgoing.ID),
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeTransferFailed,
		Payload: map[string]any{
			"outgoing_entry_id": outgoing.ID,
			"incoming_entry_id": incoming.ID,
			"sender_id":         outgoing.UserID,
			"recipient_id":      incoming.UserID,
			"amount_cents":      outgoing.AmountCents,
			"reason":            domain.ErrInsufficientFunds.Error(),
		},
		CreatedAt: time.Now().UTC(),
	})
}

func withdrawResultLabel(completed bool) string {
	if completed {
		return "completed"
	}
	return "failed"
}
