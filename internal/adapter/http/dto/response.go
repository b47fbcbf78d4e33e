package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse represents a successful login or registration.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// BalanceResponse represents a user's current balance.
type BalanceResponse struct {
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// DepositResponse represents the outcome of a deposit.
type DepositResponse struct {
	EntryID         int64           `json:"entry_id"`
	Balance         decimal.Decimal `json:"balance"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
}

// DepositFromResult converts a deposit result to a response.
func DepositFromResult(res *usecase.DepositResult) *DepositResponse {
	return &DepositResponse{
		EntryID:         res.EntryID,
		Balance:         domain.CentsToDecimal(res.NewBalanceCents),
		PreviousBalance: domain.CentsToDecimal(res.PrevBalanceCents),
	}
}

// WithdrawResponse represents the outcome of a withdrawal attempt. Completed
// is false when the attempt was recorded but rejected for insufficient
// funds.
type WithdrawResponse struct {
	EntryID   int64           `json:"entry_id"`
	Balance   decimal.Decimal `json:"balance"`
	Completed bool            `json:"completed"`
}

// WithdrawFromResult converts a withdrawal result to a response.
func WithdrawFromResult(res *usecase.WithdrawResult) *WithdrawResponse {
	return &WithdrawResponse{
		EntryID:   res.EntryID,
		Balance:   domain.CentsToDecimal(res.NewBalanceCents),
		Completed: res.Completed,
	}
}

// TransferResponse represents the outcome of a successful transfer.
type TransferResponse struct {
	OutgoingEntryID int64           `json:"outgoing_entry_id"`
	IncomingEntryID int64           `json:"incoming_entry_id"`
	Balance         decimal.Decimal `json:"balance"`
}

// TransferFromResult converts a transfer result to a response.
func TransferFromResult(res *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		OutgoingEntryID: res.OutgoingEntryID,
		IncomingEntryID: res.IncomingEntryID,
		Balance:         domain.CentsToDecimal(res.SenderNewBalance),
	}
}

// EntryResponse represents a ledger entry in API responses. Balance is the
// running balance as of this entry; for non-completed entries it equals the
// balance before the attempt.
type EntryResponse struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryFromBalanced converts a balance-annotated entry to a response.
func EntryFromBalanced(be usecase.BalancedEntry) *EntryResponse {
	return &EntryResponse{
		ID:        be.Entry.ID,
		Kind:      string(be.Entry.Kind),
		Status:    string(be.Entry.Status),
		Amount:    domain.CentsToDecimal(be.Entry.AmountCents),
		Balance:   domain.CentsToDecimal(be.BalanceCents),
		CreatedAt: be.Entry.CreatedAt,
	}
}

// EntryPageResponse is one page of a user's ledger history, newest first.
type EntryPageResponse struct {
	Entries    []*EntryResponse `json:"entries"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalCount int64            `json:"total_count"`
}

// EntryPageFromUseCase converts a use case page to a response.
func EntryPageFromUseCase(page *usecase.EntryPage) *EntryPageResponse {
	entries := make([]*EntryResponse, len(page.Entries))
	for i, be := range page.Entries {
		entries[i] = EntryFromBalanced(be)
	}
	return &EntryPageResponse{
		Entries:    entries,
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: page.TotalCount,
	}
}

// EntryBalanceResponse represents the balance as of one historical entry.
type EntryBalanceResponse struct {
	EntryID int64           `json:"entry_id"`
	Balance decimal.Decimal `json:"balance"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
